package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaseName(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		params   []any
		expected string
	}{
		{name: "no params", method: "Add", params: nil, expected: "Add"},
		{name: "ints", method: "Add", params: []any{1, 2, 3}, expected: "Add(1, 2, 3)"},
		{name: "strings are quoted", method: "Greet", params: []any{"bob", nil}, expected: `Greet("bob", nil)`},
		{name: "floats", method: "Scale", params: []any{1.5, true}, expected: "Scale(1.5, true)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CaseName(tt.method, tt.params))
		})
	}
}

func TestCase_Outcome(t *testing.T) {
	newCase := func() *Case {
		return NewCase(ClassInfo{Name: "CalcTests"}, MethodInfo{Name: "Add", Class: "CalcTests"}, []any{1, 2})
	}

	t.Run("passes without failures", func(t *testing.T) {
		c := newCase()
		c.MarkInvoked()
		assert.Equal(t, OutcomePassed, c.Outcome())
		assert.Equal(t, "CalcTests.Add(1, 2)", c.FullName())
	})

	t.Run("fails when a failure is recorded", func(t *testing.T) {
		c := newCase()
		c.Fail(errors.New("boom"))
		c.Fail(errors.New("teardown"))
		assert.Equal(t, OutcomeFailed, c.Outcome())
		assert.Len(t, c.Failures(), 2)
	})

	t.Run("skip before invocation", func(t *testing.T) {
		c := newCase()
		c.Skip("not today")
		assert.Equal(t, OutcomeSkipped, c.Outcome())
		assert.Equal(t, "not today", c.SkipReason())
		assert.True(t, c.Terminal())
	})

	t.Run("skip after invocation has no effect", func(t *testing.T) {
		c := newCase()
		c.MarkInvoked()
		c.Skip("late")
		assert.Equal(t, OutcomePassed, c.Outcome())
		assert.Empty(t, c.SkipReason())
	})

	t.Run("finalized case ignores mutation", func(t *testing.T) {
		c := newCase()
		c.Finalize()
		c.Fail(errors.New("late"))
		c.AddDuration(time.Second)
		assert.Equal(t, OutcomePassed, c.Outcome())
		assert.Zero(t, c.Duration())
	})
}

func TestCase_DurationOnlyIncreases(t *testing.T) {
	c := NewCase(ClassInfo{}, MethodInfo{Name: "Add"}, nil)
	c.AddDuration(10 * time.Millisecond)
	c.AddDuration(-5 * time.Millisecond)
	c.AddDuration(0)
	assert.Equal(t, 10*time.Millisecond, c.Duration())
}

func TestCase_ToResult(t *testing.T) {
	class := ClassInfo{Name: "CalcTests", Traits: []Trait{{Name: "Category", Value: "Math"}}}
	method := MethodInfo{Name: "Add", Class: "CalcTests", Traits: []Trait{{Name: "Owner", Value: "qa"}}}

	c := NewCase(class, method, nil)
	c.Skip("flaky")
	c.AddDuration(time.Second)

	r := c.ToResult()
	assert.Equal(t, OutcomeSkipped, r.Outcome)
	assert.Zero(t, r.Duration)
	assert.Equal(t, "flaky", r.SkipReason)
	assert.Equal(t, []Trait{{Name: "Category", Value: "Math"}, {Name: "Owner", Value: "qa"}}, r.Traits)
}

func TestInstanceExecution_FailSkipsTerminalCases(t *testing.T) {
	skipped := NewCase(ClassInfo{}, MethodInfo{Name: "A"}, nil)
	skipped.Skip("")
	done := NewCase(ClassInfo{}, MethodInfo{Name: "B"}, nil)
	done.Finalize()
	pending := NewCase(ClassInfo{}, MethodInfo{Name: "C"}, nil)

	ie := &InstanceExecution{Cases: []*Case{skipped, done, pending}}
	ie.Fail(errors.New("setup"), "")

	assert.Len(t, ie.Failures(), 1)
	assert.Empty(t, skipped.Failures())
	assert.Empty(t, done.Failures())
	assert.Len(t, pending.Failures(), 1)
}

func TestCase_Reject(t *testing.T) {
	c := NewCase(ClassInfo{}, MethodInfo{Name: "Add"}, nil)
	c.Reject(errors.New("no input values"))

	assert.Equal(t, OutcomeFailed, c.Outcome())
	assert.True(t, c.Rejected())
	assert.False(t, c.Runnable())
	assert.True(t, c.Terminal())
}

func TestCase_SkipOutranksRejection(t *testing.T) {
	c := NewCase(ClassInfo{}, MethodInfo{Name: "Add", Class: "CalcTests"}, nil)
	c.Reject(errors.New("no input values"))
	c.Skip("needs a fixture")

	assert.Equal(t, OutcomeSkipped, c.Outcome())
	assert.True(t, c.Terminal())
	assert.False(t, c.Runnable())

	r := c.ToResult()
	assert.Equal(t, "needs a fixture", r.SkipReason)
	assert.Empty(t, r.Failures)
}
