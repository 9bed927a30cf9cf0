package migration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INT NOT NULL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at DATETIME NOT NULL
)`

// SchemaMigrator implements Migrator for the archive schema
type SchemaMigrator struct {
	databaseManager *DatabaseManager
	migrations      []Migration
	quiet           bool
}

// NewSchemaMigrator creates a new SchemaMigrator
func NewSchemaMigrator(dbManager *DatabaseManager, migrations []Migration) *SchemaMigrator {
	return &SchemaMigrator{
		databaseManager: dbManager,
		migrations:      migrations,
	}
}

// Quiet disables the banner and progress bar
func (sm *SchemaMigrator) Quiet() *SchemaMigrator {
	sm.quiet = true
	return sm
}

// Run creates the database when missing and applies pending migrations
func (sm *SchemaMigrator) Run(ctx context.Context) error {
	if !sm.quiet {
		color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
		color.Cyan("║                Preparing Result Archive                    ║")
		color.Cyan("╚════════════════════════════════════════════════════════════╝\n")
	}

	created, err := sm.databaseManager.EnsureDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if created && !sm.quiet {
		color.White("Created database %s\n", sm.databaseManager.Name())
	}

	db, err := sm.databaseManager.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	startTime := time.Now()
	applied, err := sm.apply(ctx, db)
	if err != nil {
		return err
	}

	if !sm.quiet {
		fmt.Print("\n")
		color.Green("✓ Archive schema is up to date (%d migration(s) applied)\n", applied)
		color.White("Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	}
	return nil
}

func (sm *SchemaMigrator) apply(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, versionTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	done, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}
	pending := Pending(sm.migrations, done)

	var bar *progressbar.ProgressBar
	if !sm.quiet {
		bar = progressbar.NewOptions(len(pending),
			progressbar.OptionSetDescription(color.CyanString("Migrating: ")),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(os.Stderr, "\n")
			}),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	for _, m := range pending {
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return 0, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now().UTC()); err != nil {
			return 0, fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return len(pending), nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}

// Pending returns the migrations not yet applied, in version order
func Pending(migrations []Migration, applied map[int]bool) []Migration {
	var pending []Migration
	for _, m := range migrations {
		if !applied[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending
}
