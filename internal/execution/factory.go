package execution

import (
	"fmt"
	"io"
	"reflect"

	"conventest/internal/domain"
	"conventest/internal/failure"
)

// Factory constructs test class instances
type Factory interface {
	Construct(class domain.ClassInfo) (any, error)
}

// Disposer releases an instance after its cases ran
type Disposer interface {
	Dispose(instance any) error
}

// DefaultFactory calls the class constructor, or allocates a zero value when
// the class has none. A panicking constructor is reported as a failure.
type DefaultFactory struct{}

// NewDefaultFactory creates a DefaultFactory
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{}
}

// Construct builds a fresh instance of class
func (f *DefaultFactory) Construct(class domain.ClassInfo) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance, err = nil, failure.FromPanic(r)
		}
	}()

	if class.Constructor != nil {
		instance, err = class.Constructor()
		if err != nil {
			return nil, err
		}
		if instance == nil || reflect.TypeOf(instance) != class.Type || reflect.ValueOf(instance).IsNil() {
			return nil, fmt.Errorf("constructor for %s returned %T", class.Name, instance)
		}
		return instance, nil
	}
	if class.Type == nil || class.Type.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("class %s has no constructible type", class.Name)
	}
	return reflect.New(class.Type.Elem()).Interface(), nil
}

// CloserDisposer closes instances implementing io.Closer and ignores the rest
type CloserDisposer struct{}

// Dispose closes instance when it supports it
func (CloserDisposer) Dispose(instance any) (err error) {
	closer, ok := instance.(io.Closer)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = failure.FromPanic(r)
		}
	}()
	return closer.Close()
}
