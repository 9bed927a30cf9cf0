package ui

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/text"

	"conventest/internal/domain"
	"conventest/internal/storage"
)

type sampleTests struct{}

func (s *sampleTests) Add(a, b int) {}
func (s *sampleTests) Zero()        {}

func testClass() *domain.TestClass {
	typ := reflect.TypeOf(&sampleTests{})
	info := domain.ClassInfo{Name: "SampleTests", Type: typ}
	add, _ := typ.MethodByName("Add")
	zero, _ := typ.MethodByName("Zero")
	addInfo := domain.MethodInfo{Name: "Add", Class: "SampleTests", Method: add}
	zeroInfo := domain.MethodInfo{Name: "Zero", Class: "SampleTests", Method: zero}

	skipped := domain.NewCase(info, zeroInfo, nil)
	skipped.Skip("later")
	return &domain.TestClass{Info: info, Cases: []*domain.Case{
		domain.NewCase(info, addInfo, []any{1, 2}),
		skipped,
	}}
}

func init() {
	color.NoColor = true
	text.DisableColors()
}

func TestFormatter_PrintTestList(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(&buf)

	if err := f.PrintTestList([]*domain.TestClass{testClass()}, true, map[string]bool{"SampleTests.Add(1, 2)": true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 test class(es) with 2 case(s)", "└── SampleTests", "├── Add(1, 2) [F]", "└── Zero [skip]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := f.PrintTestList([]*domain.TestClass{testClass()}, false, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "└── SampleTests (2)") {
		t.Errorf("unexpected class list:\n%s", buf.String())
	}
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(&buf)

	output := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{RunID: "run-1", TotalCases: 3, PassedCases: 2, FailedCases: 1, DurationSeconds: 1.5},
		Details: []domain.TestFailure{
			{Class: "SampleTests", TestName: "Add(1, 2)", FullName: "SampleTests.Add(1, 2)"},
			{Class: "SampleTests", TestName: "Add(1, 2)", FullName: "SampleTests.Add(1, 2)"},
			{Class: "OtherTests", TestName: "Run", FullName: "OtherTests.Run"},
		},
	}
	if err := f.PrintMetaStats(output); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"run-1", "1.50s", "✗ 1 test case(s) failed", "├── OtherTests", "└── SampleTests", "    └── Add(1, 2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Add(1, 2)") != 1 {
		t.Errorf("case with two failures should be listed once:\n%s", out)
	}

	buf.Reset()
	output.Meta.FailedCases = 0
	_ = f.PrintMetaStats(output)
	if !strings.Contains(buf.String(), "All tests passed") {
		t.Errorf("expected success line:\n%s", buf.String())
	}
}

func TestFormatter_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterTo(&buf)

	f.PrintHistory(nil)
	if !strings.Contains(buf.String(), "No stored runs") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	f.PrintHistory([]domain.TestResultsMeta{{RunID: "abc", TotalCases: 4, DurationSeconds: 2}})
	if !strings.Contains(buf.String(), "abc") || !strings.Contains(buf.String(), "2.00s") {
		t.Errorf("unexpected history:\n%s", buf.String())
	}
}

func TestCaseNodeText(t *testing.T) {
	if got := caseNodeText("Add(1, 2)", 1, false); got != "[red]✗[white] Add(1, 2)[white]" {
		t.Errorf("unexpected node %q", got)
	}
	if got := caseNodeText("Add(1, 2)", 3, false); !strings.Contains(got, "(3 failures)") {
		t.Errorf("expected failure count, got %q", got)
	}
	if got := caseNodeText("Add(1, 2)", 1, true); !strings.HasPrefix(got, "[gray]✓") {
		t.Errorf("resolved node should be greyed, got %q", got)
	}
	if got := caseNodeText(strings.Repeat("界", 100), 1, false); !strings.Contains(got, "…") {
		t.Errorf("long names should be truncated, got %q", got)
	}
}

func sampleFailures() *domain.TestResultsOutput {
	return &domain.TestResultsOutput{Details: []domain.TestFailure{
		{Class: "SampleTests", TestName: "Add(1, 2)", FullName: "SampleTests.Add(1, 2)", ErrorType: "*errors.errorString", Message: "expected 3", Output: "adding\n"},
		{Class: "OtherTests", TestName: "Run", FullName: "OtherTests.Run", Message: "boom"},
		{Class: "SampleTests", TestName: "Add(1, 2)", FullName: "SampleTests.Add(1, 2)", ErrorType: "*errors.errorString", Message: "teardown failed", Output: "adding\n", Resolved: true},
	}}
}

func TestFailureBook(t *testing.T) {
	book := newFailureBook(sampleFailures())

	if !reflect.DeepEqual(book.classes, []string{"SampleTests", "OtherTests"}) {
		t.Fatalf("unexpected class order %v", book.classes)
	}
	add := book.cases["SampleTests"][0]
	if len(add.records) != 2 {
		t.Fatalf("expected both failures of Add grouped, got %d", len(add.records))
	}
	if book.resolved(add) {
		t.Error("a case is resolved only when every failure is")
	}
	if total, unresolved := book.counts(); total != 2 || unresolved != 2 {
		t.Errorf("expected 2/2, got %d/%d", total, unresolved)
	}

	book.toggle(add)
	if !book.resolved(add) {
		t.Error("toggle should resolve every failure of the case")
	}
	if _, unresolved := book.counts(); unresolved != 1 {
		t.Errorf("expected 1 unresolved, got %d", unresolved)
	}
	book.toggle(add)
	for _, f := range book.failures(add) {
		if f.Resolved {
			t.Error("second toggle should clear every mark")
		}
	}
}

type failingStorage struct {
	storage.Storage
	saved int
}

func (f *failingStorage) SaveOutput(*domain.TestResultsOutput) error {
	f.saved++
	return errors.New("disk full")
}

func TestErrorViewer_ToggleResolvedReportsSaveErrors(t *testing.T) {
	st := &failingStorage{}
	ev := NewErrorViewer(st)
	book := newFailureBook(sampleFailures())

	err := ev.toggleResolved(book, book.cases["OtherTests"][0])
	if err == nil || err.Error() != "disk full" {
		t.Errorf("expected the storage error, got %v", err)
	}
	if st.saved != 1 {
		t.Errorf("expected one save, got %d", st.saved)
	}
}

func TestFormatCaseDetails(t *testing.T) {
	book := newFailureBook(sampleFailures())
	add := book.cases["SampleTests"][0]
	failures := book.failures(add)
	failures[0].File = "/src/sample_test.go"
	failures[0].Line = 12
	failures[0].StackTrace = make([]string, 12)

	details := formatCaseDetails(add, failures)
	for _, want := range []string{"SampleTests", "Add(1, 2)", "Failure 1 of 2", "Failure 2 of 2", "Location:[white] /src/sample_test.go:12", "expected 3", "teardown failed", "and 2 more lines"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}

	if got := caseOutput(failures); got != "adding" {
		t.Errorf("unexpected output %q", got)
	}
	if got := caseOutput(book.failures(book.cases["OtherTests"][0])); got != "(no output captured)" {
		t.Errorf("unexpected placeholder %q", got)
	}
}

func TestProgressBar_ProvisionalCounts(t *testing.T) {
	p := NewProgressBar(3)

	p.CaseFinished("SampleTests.Add(1, 2)", false)
	p.CaseFinished("SampleTests.Zero", false)
	if s, f := p.Counts(); s != 2 || f != 0 {
		t.Errorf("expected 2/0 while the class runs, got %d/%d", s, f)
	}

	// Teardown failed Zero after it finished
	p.CaseCompleted(domain.CaseResult{Outcome: domain.OutcomePassed})
	p.CaseCompleted(domain.CaseResult{Outcome: domain.OutcomeFailed})
	p.CaseCompleted(domain.CaseResult{Outcome: domain.OutcomeSkipped})
	p.ClassCompleted(domain.ClassResult{})

	if s, f := p.Counts(); s != 2 || f != 1 {
		t.Errorf("expected final 2/1, got %d/%d", s, f)
	}
	p.Finish()
}
