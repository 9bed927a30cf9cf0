package execution

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ShardRunner runs one shard to completion
type ShardRunner interface {
	Run(ctx context.Context, shard, shardCount int, outputPath string) ShardResult
}

// ProgressReporter is told how many shards have finished
type ProgressReporter interface {
	Update(successCount, failCount int)
	Finish()
}

// WorkerPool runs every shard in its own process, a fixed number at a time.
// Each process owns its console, so cases never share capture.
type WorkerPool struct {
	runner   ShardRunner
	workers  int
	progress ProgressReporter
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(runner ShardRunner, workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{runner: runner, workers: workers}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress ProgressReporter) {
	wp.progress = progress
}

// Execute runs shardCount shards and returns their results ordered by shard.
// outputPath maps a shard index to the report file its process writes.
func (wp *WorkerPool) Execute(ctx context.Context, shardCount int, outputPath func(shard int) string) ([]ShardResult, time.Duration) {
	if shardCount <= 0 {
		return nil, 0
	}

	shardQueue := make(chan int, shardCount)
	results := make(chan ShardResult, shardCount)
	for i := 0; i < shardCount; i++ {
		shardQueue <- i
	}
	close(shardQueue)

	var mu sync.Mutex
	var succeeded, failed int
	startTime := time.Now()
	workerCount := min(wp.workers, shardCount)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for shard := range shardQueue {
				result := wp.runner.Run(ctx, shard, shardCount, outputPath(shard))
				results <- result
				mu.Lock()
				if result.Err == nil {
					succeeded++
				} else {
					failed++
				}
				if wp.progress != nil {
					wp.progress.Update(succeeded, failed)
				}
				mu.Unlock()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []ShardResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Shard < allResults[j].Shard
	})
	return allResults, time.Since(startTime)
}
