package invoke

import (
	"fmt"
	"reflect"

	"conventest/internal/domain"
)

// ResolveArgs converts bound parameters into call arguments for m.
// Each call resolves its own argument types, so interface-typed parameters
// keep the concrete type supplied for that particular case.
func ResolveArgs(m domain.MethodInfo, params []any) ([]reflect.Value, error) {
	types := m.ParamTypes()
	if len(params) != len(types) {
		return nil, &ResolutionError{
			Method: m.FullName(),
			Reason: fmt.Sprintf("expected %d argument(s) but %d were supplied", len(types), len(params)),
		}
	}

	args := make([]reflect.Value, len(types))
	for i, t := range types {
		v, err := convertArg(params[i], t)
		if err != nil {
			return nil, &ResolutionError{
				Method: m.FullName(),
				Reason: fmt.Sprintf("argument %d: %v", i+1, err),
			}
		}
		args[i] = v
	}
	return args, nil
}

func convertArg(p any, t reflect.Type) (reflect.Value, error) {
	if p == nil {
		switch t.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil cannot be used as %s", t)
	}

	v := reflect.ValueOf(p)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) && v.CanConvert(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%s cannot be used as %s", v.Type(), t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
