package commands

import (
	"github.com/spf13/cobra"

	"conventest/internal/config"
	"conventest/internal/ui"
)

// FaillsCommand handles the failures command
type FaillsCommand struct {
	config *config.Config
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(cfg *config.Config) *FaillsCommand {
	return &FaillsCommand{
		config: cfg,
	}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	return viewFailures(fc.config)
}

// viewFailures opens the interactive viewer on the last stored run. Resolved
// marks are written back to the same storage.
func viewFailures(cfg *config.Config) error {
	st, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	results, err := st.Load()
	if err != nil {
		return err
	}

	var viewer ui.Viewer = ui.NewErrorViewer(st)
	return viewer.View(results)
}
