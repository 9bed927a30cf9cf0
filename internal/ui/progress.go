package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"conventest/internal/domain"
	"conventest/internal/report"
)

// ProgressBar creates and manages progress bars. It listens to case results.
type ProgressBar struct {
	report.Nop

	bar    *progressbar.ProgressBar
	passed int
	failed int

	// Cases of the running class that finished but are not yet final
	pendingPassed int
	pendingFailed int
}

// ProgressEnabled reports whether stderr is a terminal a bar can redraw on
func ProgressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewProgressBar creates a new progress bar
func NewProgressBar(count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(successCount, failCount int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", successCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(successCount, failCount int) {
	_ = p.bar.Set(successCount + failCount)
	p.bar.Describe(describe(successCount, failCount))
}

// CaseFinished advances the bar while a class is still running
func (p *ProgressBar) CaseFinished(_ string, failed bool) {
	if failed {
		p.pendingFailed++
	} else {
		p.pendingPassed++
	}
	p.Update(p.passed+p.pendingPassed, p.failed+p.pendingFailed)
}

// CaseCompleted counts a final result. Skipped cases count as success.
func (p *ProgressBar) CaseCompleted(r domain.CaseResult) {
	if r.Outcome == domain.OutcomeFailed {
		p.failed++
	} else {
		p.passed++
	}
}

// ClassCompleted replaces the provisional counts of the class with its final results
func (p *ProgressBar) ClassCompleted(domain.ClassResult) {
	p.pendingPassed, p.pendingFailed = 0, 0
	p.Update(p.passed, p.failed)
}

// Counts returns the successes and failures the bar currently shows
func (p *ProgressBar) Counts() (successCount, failCount int) {
	return p.passed + p.pendingPassed, p.failed + p.pendingFailed
}

// RunCompleted completes the bar
func (p *ProgressBar) RunCompleted(domain.Summary) {
	p.Finish()
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}
