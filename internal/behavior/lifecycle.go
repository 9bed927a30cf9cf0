package behavior

import (
	"conventest/internal/domain"
)

// SetUpper is implemented by instances that prepare each case
type SetUpper interface {
	SetUp() error
}

// TearDowner is implemented by instances that clean up after each case
type TearDowner interface {
	TearDown() error
}

// FixtureSetUpper is implemented by instances that prepare once per instance
type FixtureSetUpper interface {
	FixtureSetUp() error
}

// FixtureTearDowner is implemented by instances that clean up once per instance
type FixtureTearDowner interface {
	FixtureTearDown() error
}

// SetUpTearDown calls SetUp before and TearDown after each case when the
// bound instance implements them. A failing SetUp prevents the case and its
// TearDown from running.
func SetUpTearDown() Behavior[*domain.Case] {
	return Func[*domain.Case](func(c *domain.Case, next func() error) error {
		if s, ok := c.Instance().(SetUpper); ok {
			if err := s.SetUp(); err != nil {
				return err
			}
		}

		err := next()

		if td, ok := c.Instance().(TearDowner); ok {
			if tdErr := td.TearDown(); tdErr != nil {
				if err != nil {
					c.Fail(tdErr)
					return err
				}
				return tdErr
			}
		}
		return err
	})
}

// FixtureSetUpTearDown calls FixtureSetUp and FixtureTearDown around all
// cases bound to an instance.
func FixtureSetUpTearDown() Behavior[*domain.InstanceExecution] {
	return Func[*domain.InstanceExecution](func(ie *domain.InstanceExecution, next func() error) error {
		if s, ok := ie.Instance.(FixtureSetUpper); ok {
			if err := s.FixtureSetUp(); err != nil {
				return err
			}
		}

		err := next()

		if td, ok := ie.Instance.(FixtureTearDowner); ok {
			if tdErr := td.FixtureTearDown(); tdErr != nil {
				if err != nil {
					ie.Fail(tdErr, "")
					return err
				}
				return tdErr
			}
		}
		return err
	})
}
