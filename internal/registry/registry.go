// Package registry describes Go types as candidate test classes. It plays the
// part of the loader: it records declarations and their traits, and never
// decides what is a test.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"conventest/internal/domain"
)

// Option annotates a class declaration while it is described
type Option func(*domain.ClassInfo) error

// Registry collects candidate class declarations in registration order
type Registry struct {
	mu      sync.Mutex
	classes []domain.ClassInfo
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{}
}

// Default is the registry used by the root package helpers
var Default = New()

// Register describes v and appends it to the candidates.
// v is either a pointer to a struct, whose type identifies the class and whose
// instances are built from the zero value, or a constructor of the form
// func() *T or func() (*T, error).
func (r *Registry) Register(v any, opts ...Option) error {
	info, err := Describe(v, opts...)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.classes = append(r.classes, info)
	r.mu.Unlock()
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(v any, opts ...Option) {
	if err := r.Register(v, opts...); err != nil {
		panic(err)
	}
}

// Classes returns a copy of the registered declarations
func (r *Registry) Classes() []domain.ClassInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	classes := make([]domain.ClassInfo, len(r.classes))
	copy(classes, r.classes)
	return classes
}

// Len returns the number of registered declarations
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.classes)
}

// Describe builds the declaration for v without registering it
func Describe(v any, opts ...Option) (domain.ClassInfo, error) {
	var info domain.ClassInfo

	t := reflect.TypeOf(v)
	switch {
	case t == nil:
		return info, fmt.Errorf("cannot describe nil")
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		info.Type = t
	case t.Kind() == reflect.Func:
		ctor, typ, err := constructorOf(reflect.ValueOf(v))
		if err != nil {
			return info, err
		}
		info.Type = typ
		info.Constructor = ctor
	default:
		return info, fmt.Errorf("cannot describe %s: expected a struct pointer or a constructor", t)
	}

	info.Name = info.Type.Elem().Name()
	for i := 0; i < info.Type.NumMethod(); i++ {
		m := info.Type.Method(i)
		info.Methods = append(info.Methods, domain.MethodInfo{
			Name:   m.Name,
			Class:  info.Name,
			Method: m,
		})
	}

	for _, opt := range opts {
		if err := opt(&info); err != nil {
			return info, fmt.Errorf("describe %s: %w", info.Name, err)
		}
	}
	return info, nil
}

func constructorOf(fn reflect.Value) (func() (any, error), reflect.Type, error) {
	ft := fn.Type()
	if ft.NumIn() != 0 || ft.NumOut() == 0 || ft.NumOut() > 2 {
		return nil, nil, fmt.Errorf("constructor %s must be func() *T or func() (*T, error)", ft)
	}
	out := ft.Out(0)
	if out.Kind() != reflect.Pointer || out.Elem().Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("constructor %s must return a struct pointer", ft)
	}
	if ft.NumOut() == 2 && ft.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
		return nil, nil, fmt.Errorf("constructor %s must return error as its second result", ft)
	}

	ctor := func() (any, error) {
		outs := fn.Call(nil)
		if len(outs) == 2 && !outs[1].IsNil() {
			return nil, outs[1].Interface().(error)
		}
		return outs[0].Interface(), nil
	}
	return ctor, out, nil
}
