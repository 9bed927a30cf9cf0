package execution

import (
	"fmt"
	"io"
	"os"
	"time"

	"conventest/internal/convention"
	"conventest/internal/domain"
	"conventest/internal/failure"
)

// runInstances is the innermost action of the class chain. It applies the
// lifecycle policy to the class's runnable cases.
func (e *Engine) runInstances(tc *domain.TestClass) error {
	runnable := tc.Runnable()
	if e.conv.Lifecycle == convention.PerCase {
		for _, c := range runnable {
			e.runInstance(tc.Info, []*domain.Case{c})
		}
		return nil
	}
	e.runInstance(tc.Info, runnable)
	return nil
}

// runInstance constructs one instance, runs the instance chain for cases and
// disposes the instance on every path. A construction failure fails every
// case in scope and nothing else runs.
func (e *Engine) runInstance(class domain.ClassInfo, cases []*domain.Case) {
	ie := &domain.InstanceExecution{Class: class, Cases: cases}

	instance, err := e.factory.Construct(class)
	if err != nil {
		cause, stack := failure.Unwrap(err)
		ie.Fail(cause, stack)
		return
	}
	ie.Instance = instance

	defer func() {
		if err := e.disposer.Dispose(instance); err != nil {
			cause, stack := failure.Unwrap(err)
			ie.Fail(cause, stack)
		}
	}()

	if err := e.instanceChain.Execute(ie); err != nil {
		cause, stack := failure.Unwrap(err)
		ie.Fail(cause, stack)
	}
}

// runCases is the innermost action of the instance chain
func (e *Engine) runCases(ie *domain.InstanceExecution) error {
	for _, c := range ie.Cases {
		if !c.Runnable() {
			continue
		}
		e.runCase(ie.Instance, c)
	}
	return nil
}

// runCase captures console output around the case chain and times it. Any
// failure escaping the chain stays on this case.
func (e *Engine) runCase(instance any, c *domain.Case) {
	session, err := e.capture.Begin()
	if err != nil {
		c.Fail(fmt.Errorf("capture console output: %w", err))
		return
	}
	defer session.End()

	c.Bind(instance)
	start := time.Now()
	err = e.caseChain.Execute(c)
	elapsed := time.Since(start)

	output := session.End()
	c.AddDuration(elapsed)
	c.AppendOutput(output)
	if err != nil {
		cause, stack := failure.Unwrap(err)
		c.FailWithStack(cause, stack)
	}
	e.emit(output)
	e.listener.CaseFinished(c.FullName(), len(c.Failures()) > 0)
}

// invokeCase is the innermost action of the case chain
func (e *Engine) invokeCase(c *domain.Case) error {
	c.MarkInvoked()
	result, err := e.invoker.Invoke(c.Instance(), c.Method, c.Params)
	if err != nil {
		return err
	}
	c.SetResult(result)
	return nil
}

func (e *Engine) emit(output string) {
	if output == "" {
		return
	}
	var w io.Writer = os.Stdout
	if e.echo != nil {
		w = e.echo
	}
	_, _ = io.WriteString(w, output)
}
