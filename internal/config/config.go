package config

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	Storage        string // "json" or "badger"
	BadgerDir      string
	JournalDir     string // Empty disables the result journal

	// Execution settings
	Lifecycle string
	Workers   int
	Filter    string // Wildcard pattern applied to Class.Method
	Shards    int

	// Result archive settings
	Archive ArchiveConfig

	Verbose bool
	Debug   bool

	// Command flags
	Flags Flags
}

// ArchiveConfig holds the MySQL connection used to archive run results
type ArchiveConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile    string
	Workers       int
	NameFilter    string
	Lifecycle     string
	Shard         int
	Shards        int
	ShardOutput   string // Set only on shard worker processes
	FailedFrom    string // Report whose failures a shard worker re-runs
	OnlyFailed    bool
	RerunFailures bool
	OpenFaills    bool
	TestCases     bool
	Archive       bool
	History       bool
	Verbose       bool
	Debug         bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:    DefaultProjectPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Storage:        DefaultStorage,
		BadgerDir:      DefaultBadgerDir,
		Lifecycle:      DefaultLifecycle,
		Workers:        DefaultWorkers,
		Archive: ArchiveConfig{
			Host:     DefaultArchiveHost,
			Port:     DefaultArchivePort,
			User:     DefaultArchiveUser,
			Database: DefaultArchiveDatabase,
		},
		Flags: Flags{Workers: DefaultWorkers},
	}
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Apply(flags)
	return cfg
}

// Apply stores flags and lets the ones that were set override file and
// environment values.
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Lifecycle != "" {
		c.Lifecycle = flags.Lifecycle
	}
	if flags.NameFilter != "" {
		c.Filter = flags.NameFilter
	}
	if flags.Shards > 0 {
		c.Shards = flags.Shards
	}
	if flags.Archive {
		c.Archive.Enabled = true
	}
	c.Verbose = c.Verbose || flags.Verbose
	c.Debug = c.Debug || flags.Debug
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	return c.abs(filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile))
}

// IsShardWorker reports whether this process runs a single shard for a parent run
func (c *Config) IsShardWorker() bool {
	return c.Flags.ShardOutput != ""
}

// GetShardOutputPath returns the report path a shard worker writes to
func (c *Config) GetShardOutputPath(shard int) string {
	name := fmt.Sprintf("shard-%d-%s", shard, c.OutputJSONFile)
	return c.abs(filepath.Join(c.ProjectPath, c.OutputJSONDir, name))
}

// GetFailedInputPath returns where a parent run hands its previous report to
// shard workers running only failed cases
func (c *Config) GetFailedInputPath() string {
	name := "failed-" + c.OutputJSONFile
	return c.abs(filepath.Join(c.ProjectPath, c.OutputJSONDir, name))
}

// GetBadgerPath returns the directory of the badger report store
func (c *Config) GetBadgerPath() string {
	return c.abs(filepath.Join(c.ProjectPath, c.OutputJSONDir, c.BadgerDir))
}

// GetJournalPath returns the journal directory, or "" when journaling is off
func (c *Config) GetJournalPath() string {
	if c.JournalDir == "" {
		return ""
	}
	return c.abs(filepath.Join(c.ProjectPath, c.OutputJSONDir, c.JournalDir))
}

func (c *Config) abs(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// DSN returns the MySQL data source name. The database is omitted when
// withDatabase is false, for connecting to the server to create it.
func (a ArchiveConfig) DSN(withDatabase bool) string {
	db := ""
	if withDatabase {
		db = a.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", a.User, a.Password, a.Host, a.Port, db)
}

// PortNumber returns the port as an integer
func (a ArchiveConfig) PortNumber() (int, error) {
	return strconv.Atoi(a.Port)
}
