package domain

import "time"

// CaseResult is the terminal, immutable record of one case
type CaseResult struct {
	Class      string
	Method     string
	Name       string // Method name plus rendered parameters
	FullName   string
	Outcome    Outcome
	Duration   time.Duration
	Output     string
	Failures   []Failure
	SkipReason string
	Traits     []Trait
}

// ClassResult summarizes one executed class
type ClassResult struct {
	Class    string
	Duration time.Duration // End-to-end class execution time
	Passed   int
	Failed   int
	Skipped  int
}

// Total returns the number of cases in the class
func (r ClassResult) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

// Summary aggregates a whole run
type Summary struct {
	Classes  int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration // Sum of reported case durations
}

// Total returns the number of cases in the run
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Add accumulates a case result
func (s *Summary) Add(r CaseResult) {
	switch r.Outcome {
	case OutcomePassed:
		s.Passed++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	}
	s.Duration += r.Duration
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalClasses    int     `json:"total_classes"`
	TotalCases      int     `json:"total_cases"`
	PassedCases     int     `json:"passed_cases"`
	FailedCases     int     `json:"failed_cases"`
	SkippedCases    int     `json:"skipped_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Lifecycle       string  `json:"lifecycle"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}

// FailedNames returns the full case names of every failure detail
func (o *TestResultsOutput) FailedNames() map[string]bool {
	names := make(map[string]bool, len(o.Details))
	for _, d := range o.Details {
		names[d.FullName] = true
	}
	return names
}
