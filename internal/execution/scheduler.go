package execution

import (
	"fmt"

	"conventest/internal/domain"
)

// Scheduler distributes classes across shards
type Scheduler interface {
	Schedule(classes []*domain.TestClass, shardCount int) [][]*domain.TestClass
}

// RoundRobinScheduler distributes classes evenly across shards
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes classes evenly across shards using round-robin.
// Discovery order is deterministic, so every process computes the same split.
func (s *RoundRobinScheduler) Schedule(classes []*domain.TestClass, shardCount int) [][]*domain.TestClass {
	if shardCount <= 0 {
		shardCount = 1
	}

	distribution := make([][]*domain.TestClass, shardCount)
	for i := range distribution {
		distribution[i] = make([]*domain.TestClass, 0)
	}

	for i, class := range classes {
		shardIndex := i % shardCount
		distribution[shardIndex] = append(distribution[shardIndex], class)
	}

	return distribution
}

// Shard selects one slice of the scheduled classes. The zero value selects everything.
type Shard struct {
	Index int // Zero-based
	Count int
}

// Validate checks that the shard index is within range
func (s Shard) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("shard count must not be negative, got %d", s.Count)
	}
	if s.Count > 0 && (s.Index < 0 || s.Index >= s.Count) {
		return fmt.Errorf("shard index %d out of range [0, %d)", s.Index, s.Count)
	}
	return nil
}

// Select returns the classes assigned to this shard
func (s Shard) Select(scheduler Scheduler, classes []*domain.TestClass) []*domain.TestClass {
	if s.Count <= 1 || s.Validate() != nil {
		return classes
	}
	return scheduler.Schedule(classes, s.Count)[s.Index]
}
