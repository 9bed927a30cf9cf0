package invoke

import (
	"conventest/internal/failure"
)

// Awaitable is a pending computation a test method may return. The invoker
// blocks on Await until it completes.
type Awaitable interface {
	Await() (any, error)
}

// Task is an Awaitable backed by a goroutine
type Task struct {
	done  chan struct{}
	value any
	err   error
}

// Go starts fn on its own goroutine. A panic inside fn fails the task.
func Go(fn func() (any, error)) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = failure.FromPanic(r)
			}
		}()
		t.value, t.err = fn()
	}()
	return t
}

// Run starts a task that completes without a value
func Run(fn func() error) *Task {
	return Go(func() (any, error) {
		return nil, fn()
	})
}

// Done is closed once the task completes
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the task completes. Failures are reported as a
// *failure.AggregateError holding the original cause.
func (t *Task) Await() (any, error) {
	<-t.done
	if t.err != nil {
		return nil, &failure.AggregateError{Errors: []error{t.err}}
	}
	return t.value, nil
}
