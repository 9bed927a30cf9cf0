// Package failure carries original failure causes through the wrapping layers
// of reflective invocation, panics and asynchronous completion.
package failure

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// PreservedCause carries an original cause through exactly one mandatory
// wrapping layer. Handlers unwrap it once and record only the cause.
type PreservedCause struct {
	cause error
	stack string
}

// Preserve wraps cause together with the stack it was raised on
func Preserve(cause error, stack string) *PreservedCause {
	return &PreservedCause{cause: cause, stack: stack}
}

// FromPanic converts a recovered panic value into a preserved cause.
// It must be called from the deferred function that recovered r.
func FromPanic(r any) *PreservedCause {
	var cause error
	switch v := r.(type) {
	case error:
		cause = v
	default:
		cause = &PanicValue{Value: r}
	}
	return Preserve(cause, string(debug.Stack()))
}

func (p *PreservedCause) Error() string { return p.cause.Error() }

// Cause returns the original cause
func (p *PreservedCause) Cause() error { return p.cause }

// Unwrap returns the original cause
func (p *PreservedCause) Unwrap() error { return p.cause }

// Stack returns the stack captured at the failure point
func (p *PreservedCause) Stack() string { return p.stack }

// PanicValue is the cause recorded for a panic with a non-error value
type PanicValue struct {
	Value any
}

func (p *PanicValue) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// AggregateError is how asynchronous completions report failure. Only the
// first error is ever recorded as a case failure.
type AggregateError struct {
	Errors []error
}

func (a *AggregateError) Error() string {
	msgs := make([]string, 0, len(a.Errors))
	for _, err := range a.Errors {
		msgs = append(msgs, err.Error())
	}
	return "one or more errors occurred: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As
func (a *AggregateError) Unwrap() []error { return a.Errors }

// Unwrap strips the wrapping layers this package produces and returns the
// cause to record together with its stack. An aggregate yields its first
// error; a preserved cause is unwrapped exactly once. Any other error is
// returned unchanged.
func Unwrap(err error) (error, string) {
	if agg, ok := err.(*AggregateError); ok && len(agg.Errors) > 0 {
		err = agg.Errors[0]
	}
	if p, ok := err.(*PreservedCause); ok {
		return p.cause, p.stack
	}
	return err, ""
}
