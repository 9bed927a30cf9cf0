// Package invoke calls test methods reflectively and reduces synchronous and
// asynchronous completion to a single value-or-cause outcome.
package invoke

import (
	"reflect"

	"conventest/internal/domain"
	"conventest/internal/failure"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	awaitableType = reflect.TypeOf((*Awaitable)(nil)).Elem()
)

// Invoker executes one case's method against a live instance
type Invoker struct{}

// NewInvoker creates a new Invoker
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Invoke calls m on instance with params and waits for any pending result.
//
// Configuration problems are returned as ErrAsyncVoid or *ResolutionError and
// the method is not called. Failures raised by the method itself, whether by
// panic, a returned error or a failed asynchronous completion, are returned as
// a *failure.PreservedCause holding the original cause.
func (inv *Invoker) Invoke(instance any, m domain.MethodInfo, params []any) (any, error) {
	if m.Async && m.ReturnsNothing() {
		return nil, ErrAsyncVoid
	}

	receiver := reflect.ValueOf(instance)
	if !receiver.IsValid() {
		return nil, &ResolutionError{Method: m.FullName(), Reason: "no instance is bound"}
	}
	if receiver.Type() != m.Method.Type.In(0) {
		return nil, &ResolutionError{
			Method: m.FullName(),
			Reason: "instance of type " + receiver.Type().String() + " does not declare this method",
		}
	}

	args, err := ResolveArgs(m, params)
	if err != nil {
		return nil, err
	}

	outs, err := call(m.Method.Func, append([]reflect.Value{receiver}, args...))
	if err != nil {
		return nil, err
	}
	return complete(outs)
}

func call(fn reflect.Value, in []reflect.Value) (outs []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = failure.FromPanic(r)
		}
	}()

	if fn.Type().IsVariadic() {
		return fn.CallSlice(in), nil
	}
	return fn.Call(in), nil
}

// complete interprets method results. A trailing error result fails the call;
// the first remaining result is awaited when it is pending.
func complete(outs []reflect.Value) (any, error) {
	if len(outs) == 0 {
		return nil, nil
	}

	last := outs[len(outs)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return nil, failure.Preserve(last.Interface().(error), "")
		}
		outs = outs[:len(outs)-1]
	}
	if len(outs) == 0 {
		return nil, nil
	}

	v := outs[0]
	switch {
	case v.Type().Implements(awaitableType):
		if isNil(v) {
			return nil, nil
		}
		return await(v.Interface().(Awaitable))
	case isErrorChan(v.Type()):
		if v.IsNil() {
			return nil, nil
		}
		return receive(v)
	default:
		return v.Interface(), nil
	}
}

func await(a Awaitable) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, failure.FromPanic(r)
		}
	}()

	result, err = a.Await()
	if err != nil {
		return nil, failure.Preserve(failure.Unwrap(err))
	}
	return result, nil
}

func receive(ch reflect.Value) (any, error) {
	v, ok := ch.Recv()
	if !ok || v.IsNil() {
		return nil, nil
	}
	return nil, failure.Preserve(failure.Unwrap(v.Interface().(error)))
}

func isErrorChan(t reflect.Type) bool {
	return t.Kind() == reflect.Chan && t.ChanDir()&reflect.RecvDir != 0 && t.Elem() == errorType
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}
