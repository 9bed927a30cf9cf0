package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"conventest/internal/config"
	"conventest/internal/execution"
	"conventest/internal/logging"
	"conventest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config     *config.Config
	candidates Candidates
	convention ConventionFunc
	formatter  *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	candidates Candidates,
	conv ConventionFunc,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:     cfg,
		candidates: candidates,
		convention: conv,
		formatter:  formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	conv, err := buildConvention(lc.config, lc.convention)
	if err != nil {
		return err
	}
	engine, err := execution.NewEngine(conv, nil)
	if err != nil {
		return err
	}

	classes, err := engine.Discover(lc.candidates.Classes())
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	// Mark failures from the last run when asked to
	var failed map[string]bool
	if lc.config.Flags.OnlyFailed {
		if last, err := loadLast(lc.config); err != nil {
			logging.Warn("list", "Could not read the last run: %v", err)
		} else {
			failed = last.FailedNames()
		}
	}

	return lc.formatter.PrintTestList(classes, lc.config.Flags.TestCases, failed)
}
