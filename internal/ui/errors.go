package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"conventest/internal/domain"
	"conventest/internal/storage"
)

// treeCaseNameWidth is the display width case names are truncated to in the tree
const treeCaseNameWidth = 60

// maxStackLines limits the stack shown per failure
const maxStackLines = 10

// failedCase is one case of the last run with all of its failure records
type failedCase struct {
	Class   string
	Name    string
	records []int // Positions in TestResultsOutput.Details
}

// failureBook groups the failure records of a run by class and case, in the
// order they were stored. Resolved marks apply to a whole case.
type failureBook struct {
	results *domain.TestResultsOutput
	classes []string
	cases   map[string][]*failedCase
}

func newFailureBook(results *domain.TestResultsOutput) *failureBook {
	b := &failureBook{results: results, cases: map[string][]*failedCase{}}
	byName := map[string]*failedCase{}
	for i, f := range results.Details {
		key := f.FullName
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}
		fc, ok := byName[key]
		if !ok {
			if _, seen := b.cases[f.Class]; !seen {
				b.classes = append(b.classes, f.Class)
			}
			fc = &failedCase{Class: f.Class, Name: f.TestName}
			if fc.Name == "" {
				fc.Name = fmt.Sprintf("Test %d", i+1)
			}
			byName[key] = fc
			b.cases[f.Class] = append(b.cases[f.Class], fc)
		}
		fc.records = append(fc.records, i)
	}
	return b
}

func (b *failureBook) failures(c *failedCase) []domain.TestFailure {
	out := make([]domain.TestFailure, len(c.records))
	for i, idx := range c.records {
		out[i] = b.results.Details[idx]
	}
	return out
}

func (b *failureBook) resolved(c *failedCase) bool {
	for _, idx := range c.records {
		if !b.results.Details[idx].Resolved {
			return false
		}
	}
	return true
}

// toggle flips the resolved mark of every record of c
func (b *failureBook) toggle(c *failedCase) {
	mark := !b.resolved(c)
	for _, idx := range c.records {
		b.results.Details[idx].Resolved = mark
	}
}

// counts returns the number of failed cases and how many are still unresolved
func (b *failureBook) counts() (total, unresolved int) {
	for _, class := range b.classes {
		for _, c := range b.cases[class] {
			total++
			if !b.resolved(c) {
				unresolved++
			}
		}
	}
	return total, unresolved
}

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		storage: st,
	}
}

// View shows the failed cases grouped by class. The left pane is a tree of
// classes and cases, the right pane shows every failure of the selected case
// above its captured output. R toggles the resolved mark and writes it back
// to storage; a write error is shown in the header and returned on exit.
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	book := newFailureBook(results)
	app := tview.NewApplication()
	var saveErr error

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	updateHeader := func() {
		total, unresolved := book.counts()
		text := fmt.Sprintf(" Failed cases (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] resolve, → details, → again output, ← back, Ctrl+C exit ", total, unresolved)
		if saveErr != nil {
			text = fmt.Sprintf(" [red]Could not save resolved marks: %s[white] ", tview.Escape(saveErr.Error()))
		}
		headerView.SetText(text)
	}

	root := tview.NewTreeNode(fmt.Sprintf("Run %s", results.Meta.RunID)).
		SetColor(tcell.ColorGray).
		SetSelectable(false)
	var first *tview.TreeNode
	for _, class := range book.classes {
		classNode := tview.NewTreeNode(classNodeText(class, len(book.cases[class]))).
			SetColor(tcell.ColorDarkCyan).
			SetSelectable(false)
		for _, c := range book.cases[class] {
			caseNode := tview.NewTreeNode(caseNodeText(c.Name, len(c.records), book.resolved(c))).
				SetReference(c)
			classNode.AddChild(caseNode)
			if first == nil {
				first = caseNode
			}
		}
		root.AddChild(classNode)
	}

	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(first).
		SetGraphicsColor(tcell.ColorGray)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	detailsView.SetBorder(true).SetTitle(" Failures ")

	outputView := tview.NewTextView().
		SetDynamicColors(false).
		SetWrap(true)
	outputView.SetBorder(true).SetTitle(" Output ")

	selected := func() *failedCase {
		node := tree.GetCurrentNode()
		if node == nil {
			return nil
		}
		c, _ := node.GetReference().(*failedCase)
		return c
	}

	showCase := func(c *failedCase) {
		if c == nil {
			return
		}
		failures := book.failures(c)
		detailsView.SetText(formatCaseDetails(c, failures)).ScrollToBeginning()
		outputView.SetText(caseOutput(failures)).ScrollToBeginning()
	}

	tree.SetChangedFunc(func(node *tview.TreeNode) {
		showCase(selected())
	})

	tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() != 'r' && event.Rune() != 'R' {
				return event
			}
			c := selected()
			if c == nil {
				return nil
			}
			saveErr = ev.toggleResolved(book, c)
			tree.GetCurrentNode().SetText(caseNodeText(c.Name, len(c.records), book.resolved(c)))
			updateHeader()
			return nil
		}
		return event
	})

	paneKeys := func(back, next tview.Primitive) func(*tcell.EventKey) *tcell.EventKey {
		return func(event *tcell.EventKey) *tcell.EventKey {
			switch event.Key() {
			case tcell.KeyLeft, tcell.KeyEsc:
				app.SetFocus(back)
				return nil
			case tcell.KeyRight, tcell.KeyTab:
				if next != nil {
					app.SetFocus(next)
				}
				return nil
			case tcell.KeyCtrlC:
				app.Stop()
				return nil
			}
			return event
		}
	}
	detailsView.SetInputCapture(paneKeys(tree, outputView))
	outputView.SetInputCapture(paneKeys(detailsView, nil))

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(detailsView, 0, 2, false).
		AddItem(outputView, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(tree, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(body, 0, 1, true)

	updateHeader()
	showCase(selected())

	if err := app.SetRoot(mainLayout, true).SetFocus(tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved marks: %w", saveErr)
	}
	return nil
}

// toggleResolved flips the resolved mark of c and writes the run back
func (ev *ErrorViewer) toggleResolved(book *failureBook, c *failedCase) error {
	book.toggle(c)
	return ev.storage.SaveOutput(book.results)
}

func classNodeText(class string, cases int) string {
	if class == "" {
		class = "Unknown class"
	}
	return fmt.Sprintf("%s (%d)", tview.Escape(class), cases)
}

// caseNodeText renders a case in the tree. Names are truncated by display
// width so wide characters don't break the layout.
func caseNodeText(name string, failures int, resolved bool) string {
	name = tview.Escape(runewidth.Truncate(name, treeCaseNameWidth, "…"))
	suffix := ""
	if failures > 1 {
		suffix = fmt.Sprintf(" [gray](%d failures)", failures)
	}
	if resolved {
		return fmt.Sprintf("[gray]✓ %s[white]", name)
	}
	return fmt.Sprintf("[red]✗[white] %s%s[white]", name, suffix)
}

// formatCaseDetails lists every failure of a case using tview color tags
func formatCaseDetails(c *failedCase, failures []domain.TestFailure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[cyan]%s[white].[yellow]%s[white]\n", tview.Escape(c.Class), tview.Escape(c.Name))

	for i, f := range failures {
		if len(failures) > 1 {
			fmt.Fprintf(&b, "\n[red]Failure %d of %d[white]\n", i+1, len(failures))
		} else {
			b.WriteString("\n")
		}
		if f.File != "" && f.Line > 0 {
			fmt.Fprintf(&b, "[yellow]Location:[white] %s:%d\n", tview.Escape(f.File), f.Line)
		}
		if f.Message != "" {
			fmt.Fprintf(&b, "[yellow]%s:[white] %s\n", tview.Escape(f.ErrorType), tview.Escape(f.Message))
		}
		if len(f.StackTrace) > 0 {
			b.WriteString("[yellow]Stack:[white]\n")
			for j, line := range f.StackTrace {
				if j == maxStackLines {
					fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(f.StackTrace)-maxStackLines)
					break
				}
				fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
			}
		}
	}
	return b.String()
}

// caseOutput returns the console output captured for the case. Every record
// of a case carries the same output.
func caseOutput(failures []domain.TestFailure) string {
	for _, f := range failures {
		if f.Output != "" {
			return strings.TrimRight(f.Output, "\n")
		}
	}
	return "(no output captured)"
}
