package discovery

import (
	"strings"

	"conventest/internal/domain"
)

// ClassPredicate decides whether a candidate class holds tests
type ClassPredicate func(domain.ClassInfo) bool

// MethodPredicate decides whether a method of a discovered class is a test
type MethodPredicate func(domain.MethodInfo) bool

// ClassNameHasSuffix matches classes whose name ends with suffix
func ClassNameHasSuffix(suffix string) ClassPredicate {
	return func(c domain.ClassInfo) bool {
		return strings.HasSuffix(c.Name, suffix)
	}
}

// ClassNameLike matches classes by wildcard pattern
func ClassNameLike(pattern string) ClassPredicate {
	filter := NewFilter()
	return func(c domain.ClassInfo) bool {
		return filter.Match(c.Name, pattern)
	}
}

// ClassHasTrait matches classes carrying the named trait
func ClassHasTrait(name string) ClassPredicate {
	return func(c domain.ClassInfo) bool {
		return c.HasTrait(name)
	}
}

// MethodNameHasPrefix matches methods whose name starts with prefix
func MethodNameHasPrefix(prefix string) MethodPredicate {
	return func(m domain.MethodInfo) bool {
		return strings.HasPrefix(m.Name, prefix)
	}
}

// MethodNameLike matches methods by wildcard pattern against Class.Method
func MethodNameLike(pattern string) MethodPredicate {
	filter := NewFilter()
	return func(m domain.MethodInfo) bool {
		return filter.Match(m.FullName(), pattern)
	}
}

// MethodHasTrait matches methods carrying the named trait
func MethodHasTrait(name string) MethodPredicate {
	return func(m domain.MethodInfo) bool {
		return m.HasTrait(name)
	}
}

// NotMethodNamed excludes methods with any of the given names
func NotMethodNamed(names ...string) MethodPredicate {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}
	return func(m domain.MethodInfo) bool {
		return !excluded[m.Name]
	}
}

// LifecycleMethods are the names the built-in behaviors call on instances.
// They are never discovered as tests by the default convention.
var LifecycleMethods = []string{"SetUp", "TearDown", "FixtureSetUp", "FixtureTearDown", "Close"}
