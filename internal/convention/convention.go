// Package convention holds the configuration value that tells the engine what
// a test is and how it runs.
package convention

import (
	"fmt"
	"strings"

	"conventest/internal/behavior"
	"conventest/internal/discovery"
	"conventest/internal/domain"
)

// Lifecycle selects how many instances serve a class's cases
type Lifecycle string

const (
	// PerClass constructs one instance for all cases of a class
	PerClass Lifecycle = "per-class"
	// PerCase constructs a fresh instance for every case
	PerCase Lifecycle = "per-case"
)

// ParseLifecycle parses a lifecycle name. The empty string means PerClass.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch Lifecycle(strings.ToLower(strings.TrimSpace(s))) {
	case "", PerClass:
		return PerClass, nil
	case PerCase:
		return PerCase, nil
	default:
		return "", fmt.Errorf("unknown lifecycle %q (expected %s or %s)", s, PerClass, PerCase)
	}
}

// Convention is the full description of discovery and execution.
// It is read once when an engine is built.
type Convention struct {
	Classes    []discovery.ClassPredicate
	Methods    []discovery.MethodPredicate
	Parameters []discovery.ParameterSource
	Skips      []discovery.SkipRule

	Lifecycle Lifecycle

	// Behaviors are listed outermost first
	ClassBehaviors    []behavior.Behavior[*domain.TestClass]
	InstanceBehaviors []behavior.Behavior[*domain.InstanceExecution]
	CaseBehaviors     []behavior.Behavior[*domain.Case]

	// CaseFilter drops cases before execution when it returns false
	CaseFilter func(*domain.Case) bool
	// SortCases orders a class's cases after expansion, like slices.SortStableFunc
	SortCases func(a, b *domain.Case) int
}

// New returns an empty convention: every candidate class and method is a test,
// no parameter sources and no behaviors.
func New() *Convention {
	return &Convention{Lifecycle: PerClass}
}

// Default returns the convention used when none is supplied: classes named
// *Tests or *Test, every exported method except lifecycle hooks, declared
// inputs, Skip traits, and the SetUp/TearDown behaviors.
func Default() *Convention {
	c := New()
	c.Classes = []discovery.ClassPredicate{func(ci domain.ClassInfo) bool {
		return strings.HasSuffix(ci.Name, "Tests") || strings.HasSuffix(ci.Name, "Test")
	}}
	c.Methods = []discovery.MethodPredicate{discovery.NotMethodNamed(discovery.LifecycleMethods...)}
	c.Parameters = []discovery.ParameterSource{discovery.FromInputs()}
	c.Skips = []discovery.SkipRule{discovery.SkipWithTrait("Skip")}
	c.InstanceBehaviors = []behavior.Behavior[*domain.InstanceExecution]{behavior.FixtureSetUpTearDown()}
	c.CaseBehaviors = []behavior.Behavior[*domain.Case]{behavior.SetUpTearDown()}
	return c
}

// Validate reports configuration that cannot be executed
func (c *Convention) Validate() error {
	if _, err := ParseLifecycle(string(c.Lifecycle)); err != nil {
		return err
	}
	return nil
}

// Filter narrows the convention to classes and methods matching a wildcard
// pattern, tried against Class.Method and the method name alone.
func (c *Convention) Filter(pattern string) *Convention {
	if pattern == "" {
		return c
	}
	c.Methods = append(c.Methods, discovery.MethodNameLike(pattern))
	return c
}

// OnlyCases keeps the cases whose full name is in names
func (c *Convention) OnlyCases(names map[string]bool) *Convention {
	prev := c.CaseFilter
	c.CaseFilter = func(tc *domain.Case) bool {
		if prev != nil && !prev(tc) {
			return false
		}
		return names[tc.FullName()]
	}
	return c
}
