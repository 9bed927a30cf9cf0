package invoke

import (
	"errors"
	"fmt"
)

// ErrAsyncVoid rejects methods declared asynchronous that return nothing to await
var ErrAsyncVoid = errors.New("Async void methods are not supported")

// ResolutionError reports that bound parameters could not be applied to a method
type ResolutionError struct {
	Method string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot invoke %s: %s", e.Method, e.Reason)
}
