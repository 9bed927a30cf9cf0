// Package report delivers case results to listeners as classes finish.
package report

import (
	"conventest/internal/domain"
)

// Listener receives results as the engine produces them. Calls happen on the
// engine goroutine, one at a time.
//
// CaseFinished fires as soon as a case leaves its case chain. The outcome is
// provisional: instance and class teardown may still fail the case, and its
// duration is reconciled before CaseCompleted delivers the final result.
type Listener interface {
	ClassStarted(class domain.ClassInfo)
	CaseFinished(fullName string, failed bool)
	CaseCompleted(result domain.CaseResult)
	ClassCompleted(result domain.ClassResult)
	RunCompleted(summary domain.Summary)
}

// Nop ignores every event. Embed it to implement only some callbacks.
type Nop struct{}

func (Nop) ClassStarted(domain.ClassInfo)     {}
func (Nop) CaseFinished(string, bool)         {}
func (Nop) CaseCompleted(domain.CaseResult)   {}
func (Nop) ClassCompleted(domain.ClassResult) {}
func (Nop) RunCompleted(domain.Summary)       {}

// Multi fans every event out to listeners in order
type Multi []Listener

func (m Multi) ClassStarted(class domain.ClassInfo) {
	for _, l := range m {
		l.ClassStarted(class)
	}
}

func (m Multi) CaseFinished(fullName string, failed bool) {
	for _, l := range m {
		l.CaseFinished(fullName, failed)
	}
}

func (m Multi) CaseCompleted(result domain.CaseResult) {
	for _, l := range m {
		l.CaseCompleted(result)
	}
}

func (m Multi) ClassCompleted(result domain.ClassResult) {
	for _, l := range m {
		l.ClassCompleted(result)
	}
}

func (m Multi) RunCompleted(summary domain.Summary) {
	for _, l := range m {
		l.RunCompleted(summary)
	}
}
