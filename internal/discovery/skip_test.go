package discovery

import (
	"testing"

	"conventest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySkips(t *testing.T) {
	class := classInfo("CalcTests")
	zero := method(t, class, "Zero")
	zero.Traits = []domain.Trait{{Name: "Skip", Value: "flaky on CI"}}
	describe := method(t, class, "Describe")

	skipped := domain.NewCase(class, zero, nil)
	kept := domain.NewCase(class, describe, []any{"x"})
	rejected := domain.NewCase(class, method(t, class, "Add"), nil)
	rejected.Reject(ErrNoInputValues)
	marked := method(t, class, "Add")
	marked.Traits = []domain.Trait{{Name: "Skip", Value: "needs a fixture"}}
	rejectedSkipped := domain.NewCase(class, marked, nil)
	rejectedSkipped.Reject(ErrNoInputValues)

	err := ApplySkips([]*domain.Case{skipped, kept, rejected, rejectedSkipped}, []SkipRule{
		SkipWithTrait("Skip"),
		SkipIf(func(c *domain.Case) bool { return c.Method.Name == "Zero" }, "second rule"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSkipped, skipped.Outcome())
	assert.Equal(t, "flaky on CI", skipped.SkipReason())
	assert.Equal(t, domain.OutcomePassed, kept.Outcome())
	assert.Equal(t, domain.OutcomeFailed, rejected.Outcome())

	assert.Equal(t, domain.OutcomeSkipped, rejectedSkipped.Outcome())
	assert.Equal(t, "needs a fixture", rejectedSkipped.SkipReason())
	assert.Empty(t, rejectedSkipped.ToResult().Failures)
}

func TestApplySkipsPanickingRule(t *testing.T) {
	class := classInfo("CalcTests")
	c := domain.NewCase(class, method(t, class, "Zero"), nil)

	err := ApplySkips([]*domain.Case{c}, []SkipRule{func(*domain.Case) (bool, string) {
		panic("rule bug")
	}})

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "skip rule", ce.Stage)
	assert.Equal(t, "CalcTests.Zero", ce.Subject)
	assert.False(t, c.Skipped())
}
