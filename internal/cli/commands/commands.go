package commands

import (
	"io"

	"conventest/internal/cli"
	"conventest/internal/config"
	"conventest/internal/convention"
	"conventest/internal/domain"
	"conventest/internal/logging"
	"conventest/internal/parser"
	"conventest/internal/storage"
	"conventest/internal/ui"

	"github.com/spf13/cobra"
)

// Candidates supplies the declared classes discovery runs against
type Candidates interface {
	Classes() []domain.ClassInfo
}

// ConventionFunc builds a fresh convention. Commands narrow it with filters,
// so every engine gets its own.
type ConventionFunc func() *convention.Convention

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FaillsCommand
	Stats    *StatsCommand
	DB       *DBCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, candidates Candidates, conv ConventionFunc) *Commands {
	if conv == nil {
		conv = convention.Default
	}

	// Initialize dependencies
	failureParser := parser.NewFailureParser()
	formatter := ui.NewFormatter()

	return &Commands{
		Run:      NewRunCommand(cfg, candidates, conv, failureParser, formatter),
		List:     NewListCommand(cfg, candidates, conv, formatter),
		Failures: NewFaillsCommand(cfg),
		Stats:    NewStatsCommand(cfg, formatter),
		DB:       NewDBCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the config file (default ./conventest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print every case and info logs")
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Print debug logs")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		resolved, err := config.Resolve(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *resolved
		logging.Init(logging.LevelFor(cfg.Verbose, cfg.Debug), nil)
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registered tests",
		Long:  "Discover test cases by convention and execute them, optionally across worker processes",
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of worker processes (1 runs in-process)")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g., 'Calc*' or '*Tests.Add*')")
	runCmd.Flags().StringVarP(&flags.Lifecycle, "lifecycle", "l", "", "Instance lifecycle: per-class or per-case")
	runCmd.Flags().IntVar(&flags.Shard, "shard", 0, "Zero-based shard to run")
	runCmd.Flags().IntVar(&flags.Shards, "shards", 0, "Number of shards the classes are split into")
	runCmd.Flags().StringVar(&flags.ShardOutput, "shard-output", "", "Report file written by a shard worker")
	runCmd.Flags().StringVar(&flags.FailedFrom, "failed-from", "", "Report whose failed cases a shard worker runs")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only cases that failed in the last run")
	runCmd.Flags().BoolVar(&flags.RerunFailures, "rerun-failures", false, "After running all tests, rerun only failed ones once and save that result")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the failures viewer when the run finishes with failures")
	runCmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the run to the MySQL database")
	_ = runCmd.Flags().MarkHidden("shard-output")
	_ = runCmd.Flags().MarkHidden("failed-from")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Discover and list test classes without executing them",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g., 'Calc*' or '*Tests.Add*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases instead of test classes")
	listCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Mark cases that failed in the last run")
	rootCmd.AddCommand(listCmd)

	// Failures command
	faillsCmd := &cobra.Command{
		Use:     "failures",
		Aliases: []string{"faills"},
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last test run in an interactive viewer",
		RunE:    c.Failures.Execute,
	}
	rootCmd.AddCommand(faillsCmd)

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics of the last run",
		RunE:  c.Stats.Execute,
	}
	statsCmd.Flags().BoolVar(&flags.History, "history", false, "List every stored run (badger storage only)")
	rootCmd.AddCommand(statsCmd)

	// DB command
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the run archive database",
	}
	dbCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the archive database and apply pending migrations",
		RunE:  c.DB.Execute,
	})
	rootCmd.AddCommand(dbCmd)
}

// openStorage opens the configured report storage. The returned func closes
// it when the backend holds resources.
func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	st, err := storage.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if c, ok := st.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logging.Error("storage", err, "Could not close report storage")
			}
		}
	}
	return st, closeFn, nil
}

// buildConvention applies the configured lifecycle and name filter to a fresh convention
func buildConvention(cfg *config.Config, conv ConventionFunc) (*convention.Convention, error) {
	c := conv()
	lifecycle, err := convention.ParseLifecycle(cfg.Lifecycle)
	if err != nil {
		return nil, err
	}
	c.Lifecycle = lifecycle
	return c.Filter(cfg.Filter), nil
}
