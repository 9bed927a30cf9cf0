package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"conventest/internal/config"
	"conventest/internal/domain"
	"conventest/internal/execution"
	"conventest/internal/logging"
	"conventest/internal/migration"
	"conventest/internal/parser"
	"conventest/internal/report"
	"conventest/internal/storage"
	"conventest/internal/ui"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ErrTestsFailed is returned by run when at least one case failed
var ErrTestsFailed = errors.New("one or more tests failed")

// RunCommand handles the run command
type RunCommand struct {
	config     *config.Config
	candidates Candidates
	convention ConventionFunc
	parser     parser.Parser
	formatter  *ui.Formatter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	candidates Candidates,
	conv ConventionFunc,
	parser parser.Parser,
	formatter *ui.Formatter,
) *RunCommand {
	return &RunCommand{
		config:     cfg,
		candidates: candidates,
		convention: conv,
		parser:     parser,
		formatter:  formatter,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if rc.config.IsShardWorker() {
		return rc.runShardWorker(ctx)
	}

	var last *domain.TestResultsOutput
	if rc.config.Flags.OnlyFailed {
		var err error
		if last, err = loadLast(rc.config); err != nil {
			return err
		}
		if len(last.Details) == 0 {
			color.Green("✓ No failed tests in the last run")
			return nil
		}
	}

	var output *domain.TestResultsOutput
	var err error
	if rc.config.Workers > 1 {
		output, err = rc.runWorkers(ctx, last)
	} else {
		output, err = rc.runLocal(ctx, rc.shard(), failedNames(last))
	}
	if err != nil {
		return err
	}
	if output == nil {
		color.Yellow("No tests to execute")
		return nil
	}

	if rc.config.Flags.RerunFailures && output.Meta.FailedCases > 0 {
		color.Yellow("\nRe-running %d failed case(s)", output.Meta.FailedCases)
		rerun, err := rc.runLocal(ctx, execution.Shard{}, output.FailedNames())
		if err != nil {
			return err
		}
		if rerun != nil {
			output = storage.ApplyRerun(output, rerun)
		}
	}

	// Save results
	if err := saveOutput(rc.config, output); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if rc.config.Archive.Enabled {
		if err := rc.archive(ctx, output); err != nil {
			return err
		}
	}

	// Print stats
	if err := rc.formatter.PrintMetaStats(output); err != nil {
		return err
	}

	if rc.config.Flags.OpenFaills && len(output.Details) > 0 {
		if err := viewFailures(rc.config); err != nil {
			return err
		}
	}
	if output.Meta.FailedCases > 0 {
		return ErrTestsFailed
	}
	return nil
}

func (rc *RunCommand) shard() execution.Shard {
	return execution.Shard{Index: rc.config.Flags.Shard, Count: rc.config.Shards}
}

// runLocal executes the selected classes in this process. It returns nil when
// nothing was selected.
func (rc *RunCommand) runLocal(ctx context.Context, shard execution.Shard, only map[string]bool) (*domain.TestResultsOutput, error) {
	if err := shard.Validate(); err != nil {
		return nil, err
	}
	conv, err := buildConvention(rc.config, rc.convention)
	if err != nil {
		return nil, err
	}
	if only != nil {
		conv.OnlyCases(only)
	}

	engine, err := execution.NewEngine(conv, nil, execution.WithShard(shard))
	if err != nil {
		return nil, err
	}

	// Discover tests
	classes, err := engine.Discover(rc.candidates.Classes())
	if err != nil {
		return nil, err
	}
	classes = engine.Select(classes)
	caseCount := 0
	for _, tc := range classes {
		caseCount += len(tc.Cases)
	}
	if caseCount == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	summary := report.NewSummaryListener()
	listeners := report.Multi{summary, report.NewConsole(os.Stdout, rc.config.Verbose)}
	if ui.ProgressEnabled() && !rc.config.Verbose && !rc.config.IsShardWorker() {
		listeners = append(listeners, ui.NewProgressBar(caseCount))
	}
	if journal, err := rc.openJournal(runID); err != nil {
		logging.Warn("run", "Result journal disabled: %v", err)
	} else if journal != nil {
		defer journal.Close()
		listeners = append(listeners, journal)
	}
	engine.SetListener(listeners)

	startTime := time.Now()
	if _, err := engine.Execute(ctx, classes); err != nil {
		return nil, err
	}
	duration := time.Since(startTime)

	// Parse failures
	failures := rc.parser.ParseAll(summary.Results())
	output := storage.NewOutput(summary.Results(), failures, duration, string(conv.Lifecycle))
	output.Meta.RunID = runID
	return output, nil
}

func (rc *RunCommand) openJournal(runID string) (*report.Journal, error) {
	path := rc.config.GetJournalPath()
	if path == "" {
		return nil, nil
	}
	if rc.config.IsShardWorker() {
		path = fmt.Sprintf("%s-shard-%d", path, rc.config.Flags.Shard)
	}
	return report.OpenJournal(path, runID)
}

// runWorkers splits the classes into shards, runs each in a worker process
// of this binary and merges their reports.
func (rc *RunCommand) runWorkers(ctx context.Context, last *domain.TestResultsOutput) (*domain.TestResultsOutput, error) {
	shardCount := rc.config.Shards
	if shardCount <= 0 {
		shardCount = rc.config.Workers
	}

	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate test binary: %w", err)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	args := append([]string{}, os.Args[1:]...)
	if last != nil {
		path := rc.config.GetFailedInputPath()
		if err := storage.NewJSONStorageAt(path).SaveOutput(last); err != nil {
			return nil, err
		}
		defer os.Remove(path)
		args = append(args, "--failed-from="+path)
	}

	// Stale reports would be mistaken for this run's
	for i := 0; i < shardCount; i++ {
		_ = os.Remove(rc.config.GetShardOutputPath(i))
	}

	pool := execution.NewWorkerPool(execution.NewRunner(executable, args, dir), rc.config.Workers)
	if ui.ProgressEnabled() {
		pool.SetProgress(ui.NewProgressBar(shardCount))
	}
	logging.Info("run", "Running %d shard(s) on %d worker(s)", shardCount, rc.config.Workers)
	results, duration := pool.Execute(ctx, shardCount, rc.config.GetShardOutputPath)

	var outputs []*domain.TestResultsOutput
	for _, result := range results {
		out, err := storage.NewJSONStorageAt(result.OutputPath).Load()
		if err != nil {
			color.Red("✗ Shard %d exited without a report: %v", result.Shard, result.Err)
			fmt.Print(result.Output)
			return nil, fmt.Errorf("shard %d: %w", result.Shard, err)
		}
		if result.Err != nil || rc.config.Verbose {
			fmt.Print(result.Output)
		}
		outputs = append(outputs, out)
		_ = os.Remove(result.OutputPath)
	}

	merged := storage.Merge(outputs, duration, rc.config.Lifecycle)
	if merged.Meta.TotalCases == 0 {
		return nil, nil
	}
	return merged, nil
}

// runShardWorker runs one shard for a parent run and writes its report
func (rc *RunCommand) runShardWorker(ctx context.Context) error {
	var only map[string]bool
	if from := rc.config.Flags.FailedFrom; from != "" {
		last, err := storage.NewJSONStorageAt(from).Load()
		if err != nil {
			return err
		}
		only = last.FailedNames()
	}

	output, err := rc.runLocal(ctx, rc.shard(), only)
	if err != nil {
		return err
	}
	if output == nil {
		output = storage.NewOutput(nil, nil, 0, rc.config.Lifecycle)
	}
	if err := storage.NewJSONStorageAt(rc.config.Flags.ShardOutput).SaveOutput(output); err != nil {
		return err
	}
	if output.Meta.FailedCases > 0 {
		return ErrTestsFailed
	}
	return nil
}

// archive appends the run to the MySQL archive, creating the schema first
func (rc *RunCommand) archive(ctx context.Context, output *domain.TestResultsOutput) error {
	dbManager := migration.NewDatabaseManager(rc.config.Archive)
	if err := migration.NewSchemaMigrator(dbManager, migration.Migrations).Quiet().Run(ctx); err != nil {
		return fmt.Errorf("prepare archive: %w", err)
	}

	db, err := dbManager.Open(ctx)
	if err != nil {
		return err
	}
	archive := storage.NewSQLArchive(db)
	defer archive.Close()

	if err := archive.Archive(ctx, output); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	color.Green("✓ Run %s archived to %s", output.Meta.RunID, dbManager.Name())
	return nil
}

func failedNames(last *domain.TestResultsOutput) map[string]bool {
	if last == nil {
		return nil
	}
	return last.FailedNames()
}

func loadLast(cfg *config.Config) (*domain.TestResultsOutput, error) {
	st, closeStorage, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	defer closeStorage()

	last, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("no previous run to read failures from: %w", err)
	}
	return last, nil
}

func saveOutput(cfg *config.Config, output *domain.TestResultsOutput) error {
	st, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()
	return st.SaveOutput(output)
}
