package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_GetOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath:    "/project",
				OutputJSONDir:  "storage",
				OutputJSONFile: "test-results.json",
			},
			expected: "/project/storage/test-results.json",
		},
		{
			name: "custom directory",
			config: &Config{
				ProjectPath:    "/project",
				OutputJSONDir:  "out/reports",
				OutputJSONFile: "run.json",
			},
			expected: "/project/out/reports/run.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetOutputPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_DerivedPaths(t *testing.T) {
	cfg := &Config{ProjectPath: "/project", OutputJSONDir: "storage", OutputJSONFile: "r.json", BadgerDir: "b"}

	if got := cfg.GetShardOutputPath(2); got != "/project/storage/shard-2-r.json" {
		t.Errorf("unexpected shard path %s", got)
	}
	if got := cfg.GetBadgerPath(); got != "/project/storage/b" {
		t.Errorf("unexpected badger path %s", got)
	}
	if got := cfg.GetJournalPath(); got != "" {
		t.Errorf("journal should be disabled, got %s", got)
	}
	cfg.JournalDir = "journal"
	if got := cfg.GetJournalPath(); got != "/project/storage/journal" {
		t.Errorf("unexpected journal path %s", got)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Workers != DefaultWorkers {
		t.Errorf("expected Workers %d, got %d", DefaultWorkers, cfg.Workers)
	}

	if cfg.Lifecycle != DefaultLifecycle {
		t.Errorf("expected Lifecycle %s, got %s", DefaultLifecycle, cfg.Lifecycle)
	}
}

func TestLoad_FlagsOverride(t *testing.T) {
	cfg := Load(Flags{Workers: 3, Lifecycle: "per-case", Archive: true, Verbose: true})

	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.Lifecycle != "per-case" {
		t.Errorf("expected per-case, got %s", cfg.Lifecycle)
	}
	if !cfg.Archive.Enabled || !cfg.Verbose {
		t.Error("expected archive and verbose to be enabled")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conventest.yaml")
	content := `
output_dir: reports
storage: badger
lifecycle: per-case
workers: 2
journal_dir: wal
archive:
  enabled: true
  database: results
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := New()
	if err := cfg.LoadFile(path, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OutputJSONDir != "reports" || cfg.Storage != "badger" || cfg.JournalDir != "wal" {
		t.Errorf("output settings not merged: %+v", cfg)
	}
	if cfg.Lifecycle != "per-case" || cfg.Workers != 2 {
		t.Errorf("execution settings not merged: %+v", cfg)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Database != "results" {
		t.Errorf("archive settings not merged: %+v", cfg.Archive)
	}
	if cfg.OutputJSONFile != DefaultOutputJSONFile {
		t.Errorf("unset field should keep default, got %s", cfg.OutputJSONFile)
	}

	// Flags still win over the file
	cfg.Apply(Flags{Lifecycle: "per-class"})
	if cfg.Lifecycle != "per-class" {
		t.Errorf("flag should override file, got %s", cfg.Lifecycle)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := New()
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	if err := cfg.LoadFile(missing, true); err != nil {
		t.Errorf("optional missing file should be ignored, got %v", err)
	}
	if err := cfg.LoadFile(missing, false); err == nil {
		t.Error("expected error for required missing file")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workers: [1"), 0644); err != nil {
		t.Fatal(err)
	}
	err := New().LoadFile(path, false)
	if err == nil || !strings.Contains(err.Error(), "parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_HOST=db.internal\nDB_PORT=3307\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// Registered with t.Setenv so the values are restored after the test
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_PASSWORD", "DB_DATABASE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("DB_USERNAME", "tester")

	cfg := New()
	cfg.ProjectPath = dir
	cfg.LoadEnv()

	if cfg.Archive.Host != "db.internal" || cfg.Archive.Port != "3307" {
		t.Errorf(".env values not loaded: %+v", cfg.Archive)
	}
	if cfg.Archive.User != "tester" {
		t.Errorf("expected user from environment, got %s", cfg.Archive.User)
	}
	if got := cfg.Archive.DSN(false); got != "tester:@tcp(db.internal:3307)/?parseTime=true" {
		t.Errorf("unexpected DSN %s", got)
	}
}
