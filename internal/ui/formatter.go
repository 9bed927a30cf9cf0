package ui

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"conventest/internal/domain"
)

// caseNameWidth is the display width case names are truncated to in listings
const caseNameWidth = 100

// Formatter formats and displays output
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter() *Formatter {
	return &Formatter{w: os.Stdout}
}

// NewFormatterTo creates a Formatter writing to w
func NewFormatterTo(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.w)
	t.SetStyle(table.StyleRounded)
	return t
}

// PrintMetaStats displays the statistics of a stored run and the failed cases
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) error {
	meta := output.Meta

	fmt.Fprint(f.w, "\n")
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(f.w, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.w, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.w, "╚═══════════════════════════════════════════════════════════════╝")

	t := f.createTable()
	t.AppendRows([]table.Row{
		{"Run ID", meta.RunID},
		{"Test Classes", meta.TotalClasses},
		{"Test Cases", meta.TotalCases},
		{"Passed", text.FgGreen.Sprint(meta.PassedCases)},
		{"Failed", text.FgRed.Sprint(meta.FailedCases)},
		{"Skipped", text.FgYellow.Sprint(meta.SkippedCases)},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Lifecycle", meta.Lifecycle},
		{"Timestamp", meta.Timestamp},
	})
	t.Render()

	fmt.Fprintln(f.w)
	if meta.FailedCases == 0 {
		color.New(color.FgGreen).Fprintln(f.w, "✓ All tests passed!")
		return nil
	}

	color.New(color.FgRed).Fprintf(f.w, "✗ %d test case(s) failed\n\n", meta.FailedCases)
	f.printFailedTestsTree(output.Details)
	return nil
}

// printFailedTestsTree prints failed cases grouped under their class
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	// Group failures by class, once per case
	classMap := make(map[string][]string)
	seen := make(map[string]bool)
	for _, failure := range failures {
		if seen[failure.FullName] {
			continue
		}
		seen[failure.FullName] = true
		classMap[failure.Class] = append(classMap[failure.Class], failure.TestName)
	}

	var classes []string
	for class := range classMap {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	for i, class := range classes {
		isLastClass := i == len(classes)-1
		branch, indent := "├── ", "│   "
		if isLastClass {
			branch, indent = "└── ", "    "
		}
		yellow.Fprintf(f.w, "%s%s\n", branch, class)

		cases := classMap[class]
		for j, name := range cases {
			leaf := "├── "
			if j == len(cases)-1 {
				leaf = "└── "
			}
			red.Fprintf(f.w, "%s%s%s\n", indent, leaf, truncate(name))
		}
	}
}

// PrintTestList prints discovered classes, optionally with their cases.
// failed is optional; if set, cases in this set are marked with [F] in red (from last run).
func (f *Formatter) PrintTestList(classes []*domain.TestClass, showTestCases bool, failed map[string]bool) error {
	total := 0
	for _, tc := range classes {
		total += len(tc.Cases)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	if !showTestCases {
		green.Fprintf(f.w, "Found %d test class(es):\n\n", len(classes))
		for i, tc := range classes {
			marker := ""
			if classFailed(tc, failed) {
				marker = " " + color.RedString("[F]")
			}
			cyan.Fprintf(f.w, "%s%s (%d)%s\n", branch(i == len(classes)-1), tc.Info.Name, len(tc.Cases), marker)
		}
		return nil
	}

	// Display tree view with test cases
	green.Fprintf(f.w, "Found %d test class(es) with %d case(s):\n\n", len(classes), total)
	for i, tc := range classes {
		isLastClass := i == len(classes)-1
		cyan.Fprintf(f.w, "%s%s\n", branch(isLastClass), tc.Info.Name)

		indent := "│   "
		if isLastClass {
			indent = "    "
		}
		for j, c := range tc.Cases {
			name := truncate(c.Name)
			switch {
			case failed[c.FullName()]:
				name += " " + color.RedString("[F]")
			case c.Skipped():
				name += " " + color.YellowString("[skip]")
			case c.Rejected():
				name += " " + color.RedString("[no inputs]")
			}
			fmt.Fprintf(f.w, "%s%s%s\n", indent, branch(j == len(tc.Cases)-1), name)
		}

		// Add spacing between classes (except for the last one)
		if !isLastClass {
			fmt.Fprintln(f.w)
		}
	}
	return nil
}

// PrintHistory prints one row per stored run, oldest first
func (f *Formatter) PrintHistory(metas []domain.TestResultsMeta) {
	if len(metas) == 0 {
		color.New(color.FgYellow).Fprintln(f.w, "No stored runs")
		return
	}

	t := f.createTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("TIMESTAMP"),
		text.FgHiCyan.Sprint("RUN"),
		text.FgHiCyan.Sprint("CASES"),
		text.FgHiCyan.Sprint("PASSED"),
		text.FgHiCyan.Sprint("FAILED"),
		text.FgHiCyan.Sprint("SKIPPED"),
		text.FgHiCyan.Sprint("DURATION"),
	})
	for _, m := range metas {
		t.AppendRow(table.Row{
			m.Timestamp,
			m.RunID,
			m.TotalCases,
			text.FgGreen.Sprint(m.PassedCases),
			text.FgRed.Sprint(m.FailedCases),
			text.FgYellow.Sprint(m.SkippedCases),
			fmt.Sprintf("%.2fs", m.DurationSeconds),
		})
	}
	t.Render()
}

func classFailed(tc *domain.TestClass, failed map[string]bool) bool {
	for _, c := range tc.Cases {
		if failed[c.FullName()] {
			return true
		}
	}
	return false
}

func branch(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func truncate(name string) string {
	return runewidth.Truncate(name, caseNameWidth, "…")
}
