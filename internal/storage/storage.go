package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"conventest/internal/config"
	"conventest/internal/domain"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(results []domain.CaseResult, failures []domain.TestFailure, duration time.Duration, lifecycle string) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after partial re-run updates).
	SaveOutput(output *domain.TestResultsOutput) error
}

// New returns the storage backend selected by the config
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage {
	case "", "json":
		return NewJSONStorage(cfg), nil
	case "badger":
		return OpenBadgerStorage(cfg.GetBadgerPath())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// NewOutput builds the stored form of a run with a fresh run ID
func NewOutput(results []domain.CaseResult, failures []domain.TestFailure, duration time.Duration, lifecycle string) *domain.TestResultsOutput {
	classes := make(map[string]bool)
	meta := domain.TestResultsMeta{
		RunID:           uuid.NewString(),
		TotalCases:      len(results),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Lifecycle:       lifecycle,
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	for _, r := range results {
		classes[r.Class] = true
		switch r.Outcome {
		case domain.OutcomePassed:
			meta.PassedCases++
		case domain.OutcomeFailed:
			meta.FailedCases++
		case domain.OutcomeSkipped:
			meta.SkippedCases++
		}
	}
	meta.TotalClasses = len(classes)

	if failures == nil {
		failures = []domain.TestFailure{}
	}
	return &domain.TestResultsOutput{Meta: meta, Details: failures}
}

// Merge combines the outputs of several shards into one run
func Merge(outputs []*domain.TestResultsOutput, duration time.Duration, lifecycle string) *domain.TestResultsOutput {
	merged := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           uuid.NewString(),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Lifecycle:       lifecycle,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: []domain.TestFailure{},
	}
	for _, o := range outputs {
		if o == nil {
			continue
		}
		merged.Meta.TotalClasses += o.Meta.TotalClasses
		merged.Meta.TotalCases += o.Meta.TotalCases
		merged.Meta.PassedCases += o.Meta.PassedCases
		merged.Meta.FailedCases += o.Meta.FailedCases
		merged.Meta.SkippedCases += o.Meta.SkippedCases
		merged.Details = append(merged.Details, o.Details...)
	}
	return merged
}

// ApplyRerun folds the result of re-running first's failed cases into first.
// Cases that passed on the second attempt move from failed to passed and only
// the second attempt's failures are kept.
func ApplyRerun(first, rerun *domain.TestResultsOutput) *domain.TestResultsOutput {
	out := *first
	recovered := first.Meta.FailedCases - rerun.Meta.FailedCases
	if recovered < 0 {
		recovered = 0
	}
	out.Meta.PassedCases += recovered
	out.Meta.FailedCases -= recovered
	out.Meta.DurationSeconds += rerun.Meta.DurationSeconds
	out.Meta.Duration = time.Duration(out.Meta.DurationSeconds * float64(time.Second)).String()
	out.Details = append([]domain.TestFailure{}, rerun.Details...)
	return &out
}
