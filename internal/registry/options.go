package registry

import (
	"fmt"

	"conventest/internal/domain"
)

// Named overrides the class name
func Named(name string) Option {
	return func(c *domain.ClassInfo) error {
		c.Name = name
		for i := range c.Methods {
			c.Methods[i].Class = name
		}
		return nil
	}
}

// WithTraits attaches traits to the class
func WithTraits(traits ...domain.Trait) Option {
	return func(c *domain.ClassInfo) error {
		c.Traits = append(c.Traits, traits...)
		return nil
	}
}

// WithMethodTraits attaches traits to one method
func WithMethodTraits(method string, traits ...domain.Trait) Option {
	return onMethod(method, func(m *domain.MethodInfo) {
		m.Traits = append(m.Traits, traits...)
	})
}

// Async declares methods as asynchronous
func Async(methods ...string) Option {
	return func(c *domain.ClassInfo) error {
		for _, name := range methods {
			if err := onMethod(name, func(m *domain.MethodInfo) { m.Async = true })(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// Inputs declares input rows for a parameterized method
func Inputs(method string, rows ...[]any) Option {
	return onMethod(method, func(m *domain.MethodInfo) {
		m.Inputs = append(m.Inputs, rows...)
	})
}

func onMethod(name string, apply func(*domain.MethodInfo)) Option {
	return func(c *domain.ClassInfo) error {
		for i := range c.Methods {
			if c.Methods[i].Name == name {
				apply(&c.Methods[i])
				return nil
			}
		}
		return fmt.Errorf("no exported method %q", name)
	}
}

// Trait is shorthand for a domain.Trait
func Trait(name, value string) domain.Trait {
	return domain.Trait{Name: name, Value: value}
}
