package discovery

import (
	"conventest/internal/domain"
	"conventest/internal/failure"
)

// SkipRule decides before execution whether a case is skipped, and why
type SkipRule func(*domain.Case) (skip bool, reason string)

// SkipWithTrait skips cases carrying the named trait. The trait value is the reason.
func SkipWithTrait(name string) SkipRule {
	return func(c *domain.Case) (bool, string) {
		for _, t := range c.Traits {
			if t.Name == name {
				return true, t.Value
			}
		}
		return false, ""
	}
}

// SkipIf skips cases matching predicate with a fixed reason
func SkipIf(predicate func(*domain.Case) bool, reason string) SkipRule {
	return func(c *domain.Case) (bool, string) {
		if predicate(c) {
			return true, reason
		}
		return false, ""
	}
}

// ApplySkips evaluates rules against every case not yet invoked, rejected ones
// included: a skip outranks a pending rejection. The first rule that skips a
// case decides its reason. A rule that panics aborts with a *ConfigError.
func ApplySkips(cases []*domain.Case, rules []SkipRule) error {
	for _, c := range cases {
		if c.Skipped() || c.Invoked() || c.Finalized() {
			continue
		}
		for _, rule := range rules {
			skip, reason, err := evaluateSkip(rule, c)
			if err != nil {
				return err
			}
			if skip {
				c.Skip(reason)
				break
			}
		}
	}
	return nil
}

func evaluateSkip(rule SkipRule, c *domain.Case) (skip bool, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newConfigError("skip rule", c.FullName(), failure.FromPanic(r).Cause())
		}
	}()
	skip, reason = rule(c)
	return skip, reason, nil
}
