package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ShardResult is the outcome of one shard worker process
type ShardResult struct {
	Shard      int
	OutputPath string
	Output     string
	Err        error // Non-nil when the process exited non-zero, including for test failures
}

// Runner executes one shard of the suite in a child process of the current binary
type Runner struct {
	executable string
	args       []string
	dir        string
}

// NewRunner creates a Runner re-executing executable with args, to which the
// shard flags are appended.
func NewRunner(executable string, args []string, dir string) *Runner {
	return &Runner{executable: executable, args: args, dir: dir}
}

// Run executes the given shard and waits for it
func (r *Runner) Run(ctx context.Context, shard, shardCount int, outputPath string) ShardResult {
	args := append([]string{}, r.args...)
	args = append(args,
		"--workers=1",
		fmt.Sprintf("--shards=%d", shardCount),
		fmt.Sprintf("--shard=%d", shard),
		"--shard-output="+outputPath,
	)
	cmd := exec.CommandContext(ctx, r.executable, args...)

	// Set environment variables
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("CONVENTEST_SHARD=%d", shard))

	// Set working directory
	cmd.Dir = r.dir

	output, err := cmd.CombinedOutput()

	return ShardResult{
		Shard:      shard,
		OutputPath: outputPath,
		Output:     string(output),
		Err:        err,
	}
}
