package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"conventest/internal/config"
	"conventest/internal/domain"
	"conventest/internal/ui"
)

// historian is implemented by storage backends that keep every run
type historian interface {
	History() ([]domain.TestResultsMeta, error)
}

// StatsCommand handles the stats command
type StatsCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(cfg *config.Config, formatter *ui.Formatter) *StatsCommand {
	return &StatsCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (sc *StatsCommand) Execute(cmd *cobra.Command, args []string) error {
	st, closeStorage, err := openStorage(sc.config)
	if err != nil {
		return err
	}
	defer closeStorage()

	if sc.config.Flags.History {
		h, ok := st.(historian)
		if !ok {
			return fmt.Errorf("storage %q keeps only the last run, use storage: badger for history", sc.config.Storage)
		}
		metas, err := h.History()
		if err != nil {
			return err
		}
		sc.formatter.PrintHistory(metas)
		return nil
	}

	output, err := st.Load()
	if err != nil {
		return err
	}
	return sc.formatter.PrintMetaStats(output)
}
