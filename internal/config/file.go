package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig is the layout of conventest.yaml. Unset fields keep their defaults.
type FileConfig struct {
	OutputDir  string `yaml:"output_dir"`
	OutputFile string `yaml:"output_file"`
	Storage    string `yaml:"storage"`
	BadgerDir  string `yaml:"badger_dir"`
	JournalDir string `yaml:"journal_dir"`
	Lifecycle  string `yaml:"lifecycle"`
	Workers    int    `yaml:"workers"`
	Filter     string `yaml:"filter"`
	Shards     int    `yaml:"shards"`
	Verbose    bool   `yaml:"verbose"`
	Debug      bool   `yaml:"debug"`
	Archive    struct {
		Enabled  bool   `yaml:"enabled"`
		Database string `yaml:"database"`
	} `yaml:"archive"`
}

// LoadFile merges the YAML file at path into c. A missing file is not an
// error when optional is true.
func (c *Config) LoadFile(path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.merge(fc)
	return nil
}

func (c *Config) merge(fc FileConfig) {
	setString(&c.OutputJSONDir, fc.OutputDir)
	setString(&c.OutputJSONFile, fc.OutputFile)
	setString(&c.Storage, fc.Storage)
	setString(&c.BadgerDir, fc.BadgerDir)
	setString(&c.JournalDir, fc.JournalDir)
	setString(&c.Lifecycle, fc.Lifecycle)
	setString(&c.Archive.Database, fc.Archive.Database)
	setString(&c.Filter, fc.Filter)
	if fc.Workers > 0 {
		c.Workers = fc.Workers
	}
	if fc.Shards > 0 {
		c.Shards = fc.Shards
	}
	c.Verbose = c.Verbose || fc.Verbose
	c.Debug = c.Debug || fc.Debug
	c.Archive.Enabled = c.Archive.Enabled || fc.Archive.Enabled
}

// LoadEnv reads the archive connection from DB_* variables, loading .env from
// the project path first when it exists.
func (c *Config) LoadEnv() {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}

	setString(&c.Archive.Host, os.Getenv("DB_HOST"))
	setString(&c.Archive.Port, os.Getenv("DB_PORT"))
	setString(&c.Archive.User, os.Getenv("DB_USERNAME"))
	setString(&c.Archive.Password, os.Getenv("DB_PASSWORD"))
	setString(&c.Archive.Database, os.Getenv("DB_DATABASE"))
}

// Resolve builds the effective configuration: defaults, then the config file,
// then the environment, then flags.
func Resolve(flags Flags) (*Config, error) {
	cfg := New()

	path, optional := flags.ConfigFile, false
	if path == "" {
		path, optional = filepath.Join(cfg.ProjectPath, DefaultConfigFile), true
	}
	if err := cfg.LoadFile(path, optional); err != nil {
		return nil, err
	}
	cfg.LoadEnv()
	cfg.Apply(flags)
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
