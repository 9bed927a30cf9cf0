// Package behavior composes ordered "around" behaviors over a unit of execution.
//
// A chain is built once from registration order, outermost first, and ends in a
// fixed innermost action. Each behavior runs its own code before and after
// calling next, which runs the remainder of the chain. Not calling next skips
// every inner behavior including the innermost action.
package behavior

import (
	"conventest/internal/failure"
)

// Behavior wraps the execution of a unit of type T
type Behavior[T any] interface {
	Execute(unit T, next func() error) error
}

// Func adapts a function to the Behavior interface
type Func[T any] func(unit T, next func() error) error

// Execute calls f
func (f Func[T]) Execute(unit T, next func() error) error {
	return f(unit, next)
}

// Chain is an immutable ordered composition of behaviors. It holds no state
// about the units it runs and may be reused across units and runs.
type Chain[T any] struct {
	behaviors []Behavior[T]
	inner     func(unit T) error
}

// NewChain builds a chain whose innermost action is inner. Behaviors are given
// outermost first.
func NewChain[T any](inner func(unit T) error, behaviors ...Behavior[T]) *Chain[T] {
	bs := make([]Behavior[T], len(behaviors))
	copy(bs, behaviors)
	return &Chain[T]{behaviors: bs, inner: inner}
}

// Len returns the number of registered behaviors, excluding the innermost action
func (c *Chain[T]) Len() int {
	return len(c.behaviors)
}

// Execute runs the chain for unit. Panics raised by any behavior or by the
// innermost action are returned as *failure.PreservedCause.
func (c *Chain[T]) Execute(unit T) error {
	return c.execute(0, unit)
}

func (c *Chain[T]) execute(i int, unit T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = failure.FromPanic(r)
		}
	}()

	if i == len(c.behaviors) {
		return c.inner(unit)
	}
	return c.behaviors[i].Execute(unit, func() error {
		return c.execute(i+1, unit)
	})
}
