package report

import (
	"sync"

	"conventest/internal/domain"
)

// SummaryListener accumulates counts and keeps every case result of the run
type SummaryListener struct {
	Nop

	mu      sync.Mutex
	summary domain.Summary
	results []domain.CaseResult
	classes []domain.ClassResult
}

// NewSummaryListener creates an empty SummaryListener
func NewSummaryListener() *SummaryListener {
	return &SummaryListener{}
}

func (s *SummaryListener) CaseCompleted(result domain.CaseResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Add(result)
	s.results = append(s.results, result)
}

func (s *SummaryListener) ClassCompleted(result domain.ClassResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Classes++
	s.classes = append(s.classes, result)
}

// Summary returns the totals so far
func (s *SummaryListener) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Results returns every case result received, in order
func (s *SummaryListener) Results() []domain.CaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CaseResult(nil), s.results...)
}

// Classes returns every class result received, in order
func (s *SummaryListener) Classes() []domain.ClassResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ClassResult(nil), s.classes...)
}

// Failed returns the failed case results
func (s *SummaryListener) Failed() []domain.CaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	var failed []domain.CaseResult
	for _, r := range s.results {
		if r.Outcome == domain.OutcomeFailed {
			failed = append(failed, r)
		}
	}
	return failed
}
