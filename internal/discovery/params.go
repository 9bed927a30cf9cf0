package discovery

import (
	"iter"

	"conventest/internal/domain"
	"conventest/internal/failure"
	"conventest/internal/invoke"
)

// ParameterSource lazily yields parameter tuples for a method. Yielding a
// non-nil error aborts discovery.
type ParameterSource func(domain.MethodInfo) iter.Seq2[[]any, error]

// Expander turns discovered methods into cases
type Expander struct {
	sources []ParameterSource
}

// NewExpander creates an Expander consulting sources in registration order
func NewExpander(sources ...ParameterSource) *Expander {
	return &Expander{sources: sources}
}

// Expand produces one case per tuple across all sources. When no source yields
// anything, a single parameterless case is produced; if the method declares
// parameters that case is rejected with ErrNoInputValues, or with
// invoke.ErrAsyncVoid when the method is async void.
func (e *Expander) Expand(class domain.ClassInfo, method domain.MethodInfo) ([]*domain.Case, error) {
	var cases []*domain.Case
	for _, source := range e.sources {
		err := drain(source, method, func(params []any) {
			cases = append(cases, domain.NewCase(class, method, params))
		})
		if err != nil {
			return nil, err
		}
	}

	if len(cases) == 0 {
		c := domain.NewCase(class, method, nil)
		switch {
		case method.Async && method.ReturnsNothing():
			c.Reject(invoke.ErrAsyncVoid)
		case method.NumParams() > 0:
			c.Reject(ErrNoInputValues)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func drain(source ParameterSource, method domain.MethodInfo, emit func([]any)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newConfigError("parameter source", method.FullName(), failure.FromPanic(r).Cause())
		}
	}()

	for params, srcErr := range source(method) {
		if srcErr != nil {
			return newConfigError("parameter source", method.FullName(), srcErr)
		}
		emit(params)
	}
	return nil
}

// FromInputs yields the input rows declared on the method
func FromInputs() ParameterSource {
	return func(m domain.MethodInfo) iter.Seq2[[]any, error] {
		return func(yield func([]any, error) bool) {
			for _, row := range m.Inputs {
				if !yield(row, nil) {
					return
				}
			}
		}
	}
}

// FromTable yields rows keyed by Class.Method
func FromTable(table map[string][][]any) ParameterSource {
	return func(m domain.MethodInfo) iter.Seq2[[]any, error] {
		return func(yield func([]any, error) bool) {
			for _, row := range table[m.FullName()] {
				if !yield(row, nil) {
					return
				}
			}
		}
	}
}
