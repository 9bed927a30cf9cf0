package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"conventest/internal/config"
)

// DatabaseManager manages the result archive database
type DatabaseManager struct {
	config config.ArchiveConfig
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg config.ArchiveConfig) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// Name returns the archive database name
func (dm *DatabaseManager) Name() string {
	return dm.config.Database
}

// EnsureDatabase creates the archive database if it doesn't exist. It reports
// whether the database was created.
func (dm *DatabaseManager) EnsureDatabase(ctx context.Context) (bool, error) {
	if !IsValidDatabaseName(dm.config.Database) {
		return false, fmt.Errorf("invalid database name: %s", dm.config.Database)
	}

	// Connect to MySQL server (without specifying database)
	db, err := sql.Open("mysql", dm.config.DSN(false))
	if err != nil {
		return false, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return false, fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := dm.databaseExists(ctx, db, dm.config.Database)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", dm.config.Database, err)
	}
	if exists {
		return false, nil
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dm.config.Database)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", dm.config.Database, err)
	}
	return true, nil
}

// Open connects to the archive database
func (dm *DatabaseManager) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("mysql", dm.config.DSN(true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}
	return db, nil
}

// databaseExists checks if a database exists
func (dm *DatabaseManager) databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

// IsValidDatabaseName validates database name (basic check)
func IsValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	// Check for SQL injection patterns
	upperName := strings.ToUpper(name)
	for _, word := range []string{"--", "DROP", "DELETE", "TRUNCATE"} {
		if strings.Contains(upperName, word) {
			return false
		}
	}
	return true
}
