package migration

import (
	"context"
)

// Migrator brings the archive schema up to date
type Migrator interface {
	Run(ctx context.Context) error
}

// Migration is one ordered schema change
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations is the archive schema, applied in order
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "create_runs",
		SQL: `CREATE TABLE IF NOT EXISTS runs (
	run_id VARCHAR(36) NOT NULL PRIMARY KEY,
	total_classes INT NOT NULL,
	total_cases INT NOT NULL,
	passed_cases INT NOT NULL,
	failed_cases INT NOT NULL,
	skipped_cases INT NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	lifecycle VARCHAR(16) NOT NULL,
	started_at VARCHAR(40) NOT NULL
)`,
	},
	{
		Version: 2,
		Name:    "create_failures",
		SQL: `CREATE TABLE IF NOT EXISTS failures (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id VARCHAR(36) NOT NULL,
	class_name VARCHAR(255) NOT NULL,
	test_name VARCHAR(1024) NOT NULL,
	error_type VARCHAR(255) NOT NULL,
	message TEXT NOT NULL,
	file VARCHAR(1024) NOT NULL,
	line INT NOT NULL,
	INDEX idx_failures_run (run_id)
)`,
	},
}
