package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"conventest/internal/domain"
)

// Console prints failures and skips as they arrive, every case when verbose,
// and a one-line summary at the end.
type Console struct {
	w       io.Writer
	verbose bool

	pass *color.Color
	fail *color.Color
	skip *color.Color
	dim  *color.Color
}

// NewConsole creates a Console writing to w
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{
		w:       w,
		verbose: verbose,
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed, color.Bold),
		skip:    color.New(color.FgYellow),
		dim:     color.New(color.FgHiBlack),
	}
}

func (c *Console) ClassStarted(class domain.ClassInfo) {
	if c.verbose {
		color.New(color.FgCyan).Fprintf(c.w, "%s\n", class.Name)
	}
}

func (c *Console) CaseCompleted(r domain.CaseResult) {
	switch r.Outcome {
	case domain.OutcomePassed:
		if c.verbose {
			c.pass.Fprintf(c.w, "  ✓ %s", r.FullName)
			c.dim.Fprintf(c.w, " (%s)\n", formatDuration(r.Duration))
		}
	case domain.OutcomeSkipped:
		c.skip.Fprintf(c.w, "  - %s skipped", r.FullName)
		if r.SkipReason != "" {
			fmt.Fprintf(c.w, ": %s", r.SkipReason)
		}
		fmt.Fprintln(c.w)
	case domain.OutcomeFailed:
		c.fail.Fprintf(c.w, "  ✗ %s", r.FullName)
		c.dim.Fprintf(c.w, " (%s)\n", formatDuration(r.Duration))
		for _, f := range r.Failures {
			fmt.Fprintf(c.w, "      %s\n", indent(f.Cause.Error(), "      "))
		}
	}
}

func (c *Console) CaseFinished(string, bool) {}

func (c *Console) ClassCompleted(domain.ClassResult) {}

func (c *Console) RunCompleted(s domain.Summary) {
	fmt.Fprintln(c.w)
	parts := []string{
		c.pass.Sprintf("%d passed", s.Passed),
		c.fail.Sprintf("%d failed", s.Failed),
		c.skip.Sprintf("%d skipped", s.Skipped),
	}
	fmt.Fprintf(c.w, "%s, took %s\n", strings.Join(parts, ", "), formatDuration(s.Duration))
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+prefix)
}
