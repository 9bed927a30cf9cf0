package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Outcome is the terminal state of a case
type Outcome string

const (
	// OutcomePassed indicates the case ran without failures
	OutcomePassed Outcome = "PASSED"
	// OutcomeFailed indicates at least one failure was recorded
	OutcomeFailed Outcome = "FAILED"
	// OutcomeSkipped indicates the case was skipped before invocation
	OutcomeSkipped Outcome = "SKIPPED"
)

// Failure is one recorded failure cause of a case
type Failure struct {
	Cause error
	Stack string // Goroutine stack at the failure point, when known
}

// Case is one concrete invocation of a test method with bound parameters.
// A case is mutated by every behavior level it passes through and frozen by Finalize.
type Case struct {
	Method MethodInfo
	Params []any
	Name   string
	Traits []Trait

	duration   time.Duration
	output     string
	failures   []Failure
	skipped    bool
	skipReason string
	invoked    bool
	rejected   bool
	result     any
	instance   any
	finalized  bool
}

// NewCase creates a case for method bound to params
func NewCase(class ClassInfo, method MethodInfo, params []any) *Case {
	traits := make([]Trait, 0, len(class.Traits)+len(method.Traits))
	traits = append(traits, class.Traits...)
	traits = append(traits, method.Traits...)
	return &Case{
		Method: method,
		Params: params,
		Name:   CaseName(method.Name, params),
		Traits: traits,
	}
}

// CaseName renders a method name with its bound parameters, e.g. Add(1, 2, "x")
func CaseName(method string, params []any) string {
	if len(params) == 0 {
		return method
	}
	rendered := make([]string, len(params))
	for i, p := range params {
		rendered[i] = renderParam(p)
	}
	return method + "(" + strings.Join(rendered, ", ") + ")"
}

func renderParam(p any) string {
	switch v := p.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FullName returns Class.Name
func (c *Case) FullName() string {
	return c.Method.Class + "." + c.Name
}

// Duration returns the accumulated duration
func (c *Case) Duration() time.Duration {
	return c.duration
}

// AddDuration adds d to the case duration. Negative values are ignored.
func (c *Case) AddDuration(d time.Duration) {
	if c.finalized || d <= 0 {
		return
	}
	c.duration += d
}

// Output returns the captured console output
func (c *Case) Output() string {
	return c.output
}

// AppendOutput appends captured console output
func (c *Case) AppendOutput(s string) {
	if c.finalized {
		return
	}
	c.output += s
}

// Fail records a failure cause
func (c *Case) Fail(err error) {
	c.FailWithStack(err, "")
}

// FailWithStack records a failure cause together with the stack it was raised on
func (c *Case) FailWithStack(err error, stack string) {
	if c.finalized || err == nil {
		return
	}
	c.failures = append(c.failures, Failure{Cause: err, Stack: stack})
}

// Failures returns the recorded failures in order
func (c *Case) Failures() []Failure {
	return c.failures
}

// Reject fails the case before execution. A rejected case is never invoked.
func (c *Case) Reject(err error) {
	if c.finalized || err == nil {
		return
	}
	c.rejected = true
	c.Fail(err)
}

// Rejected reports whether the case was failed before execution
func (c *Case) Rejected() bool {
	return c.rejected
}

// Runnable reports whether the case should enter the execution chains
func (c *Case) Runnable() bool {
	return !c.Skipped() && !c.rejected && !c.finalized
}

// Skip marks the case skipped. It has no effect once the case was invoked.
func (c *Case) Skip(reason string) {
	if c.finalized || c.invoked {
		return
	}
	c.skipped = true
	c.skipReason = reason
}

// Skipped reports whether the case is skipped
func (c *Case) Skipped() bool {
	return c.skipped && !c.invoked
}

// SkipReason returns the reason given to Skip
func (c *Case) SkipReason() string {
	if !c.Skipped() {
		return ""
	}
	return c.skipReason
}

// MarkInvoked records that the underlying method was entered
func (c *Case) MarkInvoked() {
	c.invoked = true
}

// Invoked reports whether the underlying method was entered
func (c *Case) Invoked() bool {
	return c.invoked
}

// Instance returns the live instance bound for execution
func (c *Case) Instance() any {
	return c.instance
}

// Bind attaches the live instance the case runs against
func (c *Case) Bind(instance any) {
	c.instance = instance
}

// Result returns the value the method completed with, if any
func (c *Case) Result() any {
	return c.result
}

// SetResult stores the completed value
func (c *Case) SetResult(v any) {
	if c.finalized {
		return
	}
	c.result = v
}

// Outcome derives the outcome from skip state and failures
func (c *Case) Outcome() Outcome {
	if c.Skipped() {
		return OutcomeSkipped
	}
	if len(c.failures) > 0 {
		return OutcomeFailed
	}
	return OutcomePassed
}

// Terminal reports whether no further failures may be attributed to the case
func (c *Case) Terminal() bool {
	return c.finalized || c.rejected || c.Skipped()
}

// Finalize freezes the case and releases the bound instance
func (c *Case) Finalize() {
	c.finalized = true
	c.instance = nil
}

// Finalized reports whether Finalize was called
func (c *Case) Finalized() bool {
	return c.finalized
}

// ToResult snapshots the case as an immutable result
func (c *Case) ToResult() CaseResult {
	r := CaseResult{
		Class:      c.Method.Class,
		Method:     c.Method.Name,
		Name:       c.Name,
		FullName:   c.FullName(),
		Outcome:    c.Outcome(),
		Duration:   c.duration,
		Output:     c.output,
		SkipReason: c.SkipReason(),
		Traits:     c.Traits,
	}
	if r.Outcome == OutcomeSkipped {
		r.Duration = 0
		return r
	}
	r.Failures = append(r.Failures, c.failures...)
	return r
}
