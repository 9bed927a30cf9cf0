package discovery

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"conventest/internal/failure"
)

// ErrNoInputValues fails a parameterized method for which no source produced input
var ErrNoInputValues = errors.New("parameterized test could not be executed: no input values were available")

// ConfigError reports that a user-supplied predicate or parameter source
// misbehaved. It aborts discovery and is never a test failure.
type ConfigError struct {
	Stage   string // "class predicate", "method predicate", "parameter source", "skip rule"
	Subject string // Declaration being evaluated
	err     error
}

func newConfigError(stage, subject string, cause error) *ConfigError {
	return &ConfigError{
		Stage:   stage,
		Subject: subject,
		err:     pkgerrors.WithMessagef(cause, "a custom %s misbehaved while evaluating %s", stage, subject),
	}
}

func (e *ConfigError) Error() string { return e.err.Error() }

// Unwrap returns the wrapped failure
func (e *ConfigError) Unwrap() error { return e.err }

// Cause returns the error raised by the predicate or source
func (e *ConfigError) Cause() error { return pkgerrors.Cause(e.err) }

// guard evaluates f, converting a panic into a *ConfigError
func guard(stage, subject string, f func() bool) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newConfigError(stage, subject, failure.FromPanic(r).Cause())
		}
	}()
	return f(), nil
}
