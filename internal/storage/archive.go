package storage

import (
	"context"
	"database/sql"
	"fmt"

	"conventest/internal/domain"
)

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLArchive appends run summaries and failure rows to the MySQL archive
type SQLArchive struct {
	db *sql.DB
}

// NewSQLArchive wraps an open archive connection
func NewSQLArchive(db *sql.DB) *SQLArchive {
	return &SQLArchive{db: db}
}

// Archive stores one run in a single transaction
func (a *SQLArchive) Archive(ctx context.Context, output *domain.TestResultsOutput) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	if err := writeRun(ctx, tx, output); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive transaction: %w", err)
	}
	return nil
}

// Close closes the connection
func (a *SQLArchive) Close() error {
	return a.db.Close()
}

func writeRun(ctx context.Context, db execer, output *domain.TestResultsOutput) error {
	m := output.Meta
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (run_id, total_classes, total_cases, passed_cases, failed_cases, skipped_cases, duration_seconds, lifecycle, started_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.TotalClasses, m.TotalCases, m.PassedCases, m.FailedCases, m.SkippedCases, m.DurationSeconds, m.Lifecycle, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", m.RunID, err)
	}

	for _, f := range output.Details {
		_, err := db.ExecContext(ctx,
			`INSERT INTO failures (run_id, class_name, test_name, error_type, message, file, line)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, f.Class, f.FullName, f.ErrorType, f.Message, f.File, f.Line)
		if err != nil {
			return fmt.Errorf("insert failure %s: %w", f.FullName, err)
		}
	}
	return nil
}
