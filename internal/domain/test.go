package domain

import (
	"reflect"
)

// Trait is a key-value annotation attached to a class or method declaration.
// Traits are carried through to case results and never affect execution.
type Trait struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// ClassInfo describes a candidate test class
type ClassInfo struct {
	Name   string       // Type name without package qualifier
	Type   reflect.Type // Pointer-to-struct type whose methods are candidates
	Traits []Trait

	// Constructor builds a fresh instance. Nil means zero-value construction.
	Constructor func() (any, error)

	Methods []MethodInfo
}

// HasTrait reports whether the class carries a trait with the given name
func (c ClassInfo) HasTrait(name string) bool {
	_, ok := findTrait(c.Traits, name)
	return ok
}

// Trait returns the value of the named trait
func (c ClassInfo) Trait(name string) (string, bool) {
	return findTrait(c.Traits, name)
}

// MethodInfo describes a candidate test method of a class
type MethodInfo struct {
	Name   string
	Class  string
	Method reflect.Method // Method of the class's pointer type; In(0) is the receiver
	Traits []Trait

	// Async marks a method the loader declared as asynchronous.
	Async bool
	// Inputs are declared input rows, consumed by the FromInputs parameter source.
	Inputs [][]any
}

// NumParams returns the number of declared parameters, excluding the receiver
func (m MethodInfo) NumParams() int {
	if m.Method.Type == nil {
		return 0
	}
	return m.Method.Type.NumIn() - 1
}

// ParamTypes returns the declared parameter types, excluding the receiver
func (m MethodInfo) ParamTypes() []reflect.Type {
	n := m.NumParams()
	types := make([]reflect.Type, 0, n)
	for i := 1; i <= n; i++ {
		types = append(types, m.Method.Type.In(i))
	}
	return types
}

// ReturnsNothing reports whether the method declares no results
func (m MethodInfo) ReturnsNothing() bool {
	return m.Method.Type == nil || m.Method.Type.NumOut() == 0
}

// HasTrait reports whether the method carries a trait with the given name
func (m MethodInfo) HasTrait(name string) bool {
	_, ok := findTrait(m.Traits, name)
	return ok
}

// Trait returns the value of the named trait
func (m MethodInfo) Trait(name string) (string, bool) {
	return findTrait(m.Traits, name)
}

// FullName returns Class.Method
func (m MethodInfo) FullName() string {
	return m.Class + "." + m.Name
}

func findTrait(traits []Trait, name string) (string, bool) {
	for _, t := range traits {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}
