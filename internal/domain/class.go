package domain

// TestClass is a discovered class together with the cases produced for one run
type TestClass struct {
	Info  ClassInfo
	Cases []*Case
}

// Runnable returns the cases that will enter the execution chains, in discovery order
func (tc *TestClass) Runnable() []*Case {
	runnable := make([]*Case, 0, len(tc.Cases))
	for _, c := range tc.Cases {
		if c.Runnable() {
			runnable = append(runnable, c)
		}
	}
	return runnable
}

// FailPending attributes err to every case in the class that is not yet terminal
func (tc *TestClass) FailPending(err error, stack string) {
	failPending(tc.Cases, err, stack)
}

// InstanceExecution binds one constructed instance to the cases that run against it
type InstanceExecution struct {
	Class    ClassInfo
	Instance any
	Cases    []*Case

	failures []Failure
}

// Fail records an instance-level failure and attributes it to every pending case
func (ie *InstanceExecution) Fail(err error, stack string) {
	if err == nil {
		return
	}
	ie.failures = append(ie.failures, Failure{Cause: err, Stack: stack})
	failPending(ie.Cases, err, stack)
}

// Failures returns the instance-level failures
func (ie *InstanceExecution) Failures() []Failure {
	return ie.failures
}

func failPending(cases []*Case, err error, stack string) {
	for _, c := range cases {
		if c.Terminal() {
			continue
		}
		c.FailWithStack(err, stack)
	}
}
