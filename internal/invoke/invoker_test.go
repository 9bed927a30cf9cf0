package invoke

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"conventest/internal/domain"
	"conventest/internal/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAuthor = errors.New("author failure")

type authorError struct{ msg string }

func (e *authorError) Error() string { return e.msg }

type sample struct {
	calls int
}

func (s *sample) Pass()                   { s.calls++ }
func (s *sample) Panics()                 { panic(errAuthor) }
func (s *sample) PanicsWithString()       { panic("unreachable") }
func (s *sample) ReturnsError() error     { return errAuthor }
func (s *sample) Sum(a, b int) int        { return a + b }
func (s *sample) Echo(v any) any          { return v }
func (s *sample) Scale(f float64) float64 { return f * 2 }
func (s *sample) Join(parts ...string) int {
	return len(parts)
}
func (s *sample) AsyncValue() *Task {
	return Go(func() (any, error) {
		time.Sleep(time.Millisecond)
		return 42, nil
	})
}
func (s *sample) AsyncPanicsAfterAwait() *Task {
	return Run(func() error {
		<-time.After(time.Millisecond)
		panic(&authorError{msg: "raised after await"})
	})
}
func (s *sample) AsyncReturnsError() Awaitable {
	return Run(func() error { return errAuthor })
}
func (s *sample) ChannelFailure() <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- errAuthor }()
	return ch
}
func (s *sample) ChannelSuccess() <-chan error {
	ch := make(chan error)
	go close(ch)
	return ch
}

func methodInfo(t *testing.T, name string) domain.MethodInfo {
	t.Helper()
	m, ok := reflect.TypeOf(&sample{}).MethodByName(name)
	require.True(t, ok, "method %s not found", name)
	return domain.MethodInfo{Name: name, Class: "sample", Method: m}
}

func invoke(t *testing.T, name string, params ...any) (any, error) {
	t.Helper()
	return NewInvoker().Invoke(&sample{}, methodInfo(t, name), params)
}

func causeOf(t *testing.T, err error) error {
	t.Helper()
	var preserved *failure.PreservedCause
	require.ErrorAs(t, err, &preserved)
	cause, _ := failure.Unwrap(err)
	return cause
}

func TestInvoker_Synchronous(t *testing.T) {
	t.Run("passes", func(t *testing.T) {
		s := &sample{}
		_, err := NewInvoker().Invoke(s, methodInfo(t, "Pass"), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, s.calls)
	})

	t.Run("panic is unwrapped to original cause", func(t *testing.T) {
		_, err := invoke(t, "Panics")
		assert.Same(t, errAuthor, causeOf(t, err))
	})

	t.Run("non-error panic becomes PanicValue", func(t *testing.T) {
		_, err := invoke(t, "PanicsWithString")
		var pv *failure.PanicValue
		require.ErrorAs(t, causeOf(t, err), &pv)
		assert.Equal(t, "unreachable", pv.Value)
	})

	t.Run("returned error is the cause", func(t *testing.T) {
		_, err := invoke(t, "ReturnsError")
		assert.Same(t, errAuthor, causeOf(t, err))
	})

	t.Run("value result", func(t *testing.T) {
		result, err := invoke(t, "Sum", 2, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, result)
	})

	t.Run("numeric arguments are converted", func(t *testing.T) {
		result, err := invoke(t, "Scale", 2)
		require.NoError(t, err)
		assert.Equal(t, 4.0, result)
	})

	t.Run("interface parameters keep the concrete type per call", func(t *testing.T) {
		first, err := invoke(t, "Echo", "text")
		require.NoError(t, err)
		second, err := invoke(t, "Echo", 7)
		require.NoError(t, err)
		assert.IsType(t, "", first)
		assert.IsType(t, 0, second)
	})

	t.Run("variadic methods take a slice", func(t *testing.T) {
		result, err := invoke(t, "Join", []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 2, result)
	})
}

func TestInvoker_Resolution(t *testing.T) {
	t.Run("arity mismatch", func(t *testing.T) {
		_, err := invoke(t, "Sum", 1)
		var re *ResolutionError
		require.ErrorAs(t, err, &re)
		assert.Contains(t, re.Error(), "expected 2 argument(s) but 1 were supplied")
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := invoke(t, "Sum", "a", 2)
		var re *ResolutionError
		require.ErrorAs(t, err, &re)
		assert.Contains(t, re.Error(), "argument 1")
	})

	t.Run("missing instance", func(t *testing.T) {
		_, err := NewInvoker().Invoke(nil, methodInfo(t, "Pass"), nil)
		var re *ResolutionError
		assert.ErrorAs(t, err, &re)
	})
}

func TestInvoker_Asynchronous(t *testing.T) {
	t.Run("completed value becomes the result", func(t *testing.T) {
		result, err := invoke(t, "AsyncValue")
		require.NoError(t, err)
		assert.Equal(t, 42, result)
	})

	t.Run("failure after await is the original error", func(t *testing.T) {
		_, err := invoke(t, "AsyncPanicsAfterAwait")
		cause := causeOf(t, err)

		var ae *authorError
		require.ErrorAs(t, cause, &ae)
		assert.Equal(t, "raised after await", ae.Error())
		var agg *failure.AggregateError
		assert.False(t, errors.As(cause, &agg))
	})

	t.Run("returned error from task", func(t *testing.T) {
		_, err := invoke(t, "AsyncReturnsError")
		assert.Same(t, errAuthor, causeOf(t, err))
	})

	t.Run("error channel failure", func(t *testing.T) {
		_, err := invoke(t, "ChannelFailure")
		assert.Same(t, errAuthor, causeOf(t, err))
	})

	t.Run("closed error channel succeeds", func(t *testing.T) {
		_, err := invoke(t, "ChannelSuccess")
		assert.NoError(t, err)
	})
}

func TestInvoker_RejectsAsyncVoid(t *testing.T) {
	s := &sample{}
	m := methodInfo(t, "Pass")
	m.Async = true

	for i := 0; i < 3; i++ {
		_, err := NewInvoker().Invoke(s, m, nil)
		assert.ErrorIs(t, err, ErrAsyncVoid)
	}
	assert.Zero(t, s.calls)
}
