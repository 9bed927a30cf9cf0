package commands

import (
	"context"

	"github.com/spf13/cobra"

	"conventest/internal/config"
	"conventest/internal/migration"
)

// DBCommand handles the db init command
type DBCommand struct {
	config *config.Config
}

// NewDBCommand creates a new DBCommand
func NewDBCommand(cfg *config.Config) *DBCommand {
	return &DBCommand{
		config: cfg,
	}
}

// Execute runs the command
func (dc *DBCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var migrator migration.Migrator = migration.NewSchemaMigrator(
		migration.NewDatabaseManager(dc.config.Archive),
		migration.Migrations,
	)
	return migrator.Run(ctx)
}
