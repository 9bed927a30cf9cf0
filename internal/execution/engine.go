// Package execution runs discovered test classes through the class, instance
// and case behavior chains.
package execution

import (
	"context"
	"io"
	"slices"
	"time"

	"conventest/internal/behavior"
	"conventest/internal/capture"
	"conventest/internal/convention"
	"conventest/internal/discovery"
	"conventest/internal/domain"
	"conventest/internal/failure"
	"conventest/internal/invoke"
	"conventest/internal/logging"
	"conventest/internal/report"
)

// Executor runs candidate classes and reports the totals
type Executor interface {
	Run(ctx context.Context, candidates []domain.ClassInfo) (domain.Summary, error)
}

var _ Executor = (*Engine)(nil)

// Engine is built once from a convention and may run any number of times.
// Classes run one after another on the calling goroutine.
type Engine struct {
	conv *convention.Convention

	classes  *discovery.ClassDiscoverer
	methods  *discovery.MethodDiscoverer
	expander *discovery.Expander

	classChain    *behavior.Chain[*domain.TestClass]
	instanceChain *behavior.Chain[*domain.InstanceExecution]
	caseChain     *behavior.Chain[*domain.Case]

	invoker   *invoke.Invoker
	factory   Factory
	disposer  Disposer
	capture   capture.Provider
	listener  report.Listener
	echo      io.Writer
	scheduler Scheduler
	shard     Shard
}

// Option customizes an Engine
type Option func(*Engine)

// WithFactory replaces the instance factory
func WithFactory(f Factory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithDisposer replaces the instance disposer
func WithDisposer(d Disposer) Option {
	return func(e *Engine) { e.disposer = d }
}

// WithCapture replaces the console capture provider
func WithCapture(p capture.Provider) Option {
	return func(e *Engine) { e.capture = p }
}

// WithEcho sets where captured output is re-emitted. Nil discards it.
func WithEcho(w io.Writer) Option {
	return func(e *Engine) {
		if w == nil {
			w = io.Discard
		}
		e.echo = w
	}
}

// WithShard restricts the run to one shard of the discovered classes
func WithShard(s Shard) Option {
	return func(e *Engine) { e.shard = s }
}

// NewEngine builds the chains described by conv
func NewEngine(conv *convention.Convention, listener report.Listener, opts ...Option) (*Engine, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	if listener == nil {
		listener = report.Nop{}
	}

	e := &Engine{
		conv:      conv,
		classes:   discovery.NewClassDiscoverer(conv.Classes...),
		methods:   discovery.NewMethodDiscoverer(conv.Methods...),
		expander:  discovery.NewExpander(conv.Parameters...),
		invoker:   invoke.NewInvoker(),
		factory:   NewDefaultFactory(),
		disposer:  CloserDisposer{},
		capture:   capture.NewConsole(),
		listener:  listener,
		scheduler: NewRoundRobinScheduler(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.classChain = behavior.NewChain(e.runInstances, conv.ClassBehaviors...)
	e.instanceChain = behavior.NewChain(e.runCases, conv.InstanceBehaviors...)
	e.caseChain = behavior.NewChain(e.invokeCase, conv.CaseBehaviors...)
	return e, nil
}

// SetListener replaces the listener results are reported to
func (e *Engine) SetListener(listener report.Listener) {
	if listener == nil {
		listener = report.Nop{}
	}
	e.listener = listener
}

// Run discovers tests among candidates and executes this engine's shard of
// them. Discovery configuration errors abort the run before any class
// executes.
func (e *Engine) Run(ctx context.Context, candidates []domain.ClassInfo) (domain.Summary, error) {
	classes, err := e.Discover(candidates)
	if err != nil {
		logging.Error("engine", err, "Discovery failed")
		return domain.Summary{}, err
	}
	return e.Execute(ctx, e.Select(classes))
}

// Select returns the classes assigned to this engine's shard
func (e *Engine) Select(classes []*domain.TestClass) []*domain.TestClass {
	return e.shard.Select(e.scheduler, classes)
}

// Execute runs discovered classes in order. The context is checked between
// classes only; a running case is never interrupted.
func (e *Engine) Execute(ctx context.Context, classes []*domain.TestClass) (domain.Summary, error) {
	var summary domain.Summary
	logging.Debug("engine", "Running %d class(es)", len(classes))

	for _, tc := range classes {
		if err := ctx.Err(); err != nil {
			e.listener.RunCompleted(summary)
			return summary, err
		}
		e.runClass(tc, &summary)
	}

	e.listener.RunCompleted(summary)
	return summary, nil
}

// Discover evaluates the convention against candidates and returns the test
// classes with their cases. Skip rules have been applied. Classes with no
// cases are left out.
func (e *Engine) Discover(candidates []domain.ClassInfo) ([]*domain.TestClass, error) {
	infos, err := e.classes.Discover(candidates)
	if err != nil {
		return nil, err
	}

	var classes []*domain.TestClass
	for _, info := range infos {
		tc, err := e.discoverCases(info)
		if err != nil {
			return nil, err
		}
		if len(tc.Cases) == 0 {
			logging.Debug("engine", "Class %s has no cases, skipping", info.Name)
			continue
		}
		classes = append(classes, tc)
	}
	logging.Debug("engine", "Discovered %d class(es) from %d candidate(s)", len(classes), len(candidates))
	return classes, nil
}

func (e *Engine) discoverCases(info domain.ClassInfo) (*domain.TestClass, error) {
	tc := &domain.TestClass{Info: info}

	methods, err := e.methods.Discover(info)
	if err != nil {
		return nil, err
	}
	for _, m := range methods {
		cases, err := e.expander.Expand(info, m)
		if err != nil {
			return nil, err
		}
		for _, c := range cases {
			if e.conv.CaseFilter != nil && !e.conv.CaseFilter(c) {
				continue
			}
			tc.Cases = append(tc.Cases, c)
		}
	}

	if e.conv.SortCases != nil {
		slices.SortStableFunc(tc.Cases, e.conv.SortCases)
	}
	if err := discovery.ApplySkips(tc.Cases, e.conv.Skips); err != nil {
		return nil, err
	}
	return tc, nil
}

// runClass executes one class end to end, reconciles timing and reports
// every case.
func (e *Engine) runClass(tc *domain.TestClass, summary *domain.Summary) {
	e.listener.ClassStarted(tc.Info)
	logging.Debug("engine", "Class %s started with %d case(s)", tc.Info.Name, len(tc.Cases))

	start := time.Now()
	if len(tc.Runnable()) > 0 {
		if err := e.classChain.Execute(tc); err != nil {
			cause, stack := failure.Unwrap(err)
			tc.FailPending(cause, stack)
		}
	}
	elapsed := time.Since(start)

	Reconcile(tc.Cases, elapsed)

	result := domain.ClassResult{Class: tc.Info.Name, Duration: elapsed}
	for _, c := range tc.Cases {
		r := c.ToResult()
		c.Finalize()

		switch r.Outcome {
		case domain.OutcomePassed:
			result.Passed++
		case domain.OutcomeFailed:
			result.Failed++
		case domain.OutcomeSkipped:
			result.Skipped++
		}
		summary.Add(r)
		e.listener.CaseCompleted(r)
	}
	summary.Classes++
	e.listener.ClassCompleted(result)

	logging.Debug("engine", "Class %s finished in %s: %d passed, %d failed, %d skipped",
		tc.Info.Name, elapsed, result.Passed, result.Failed, result.Skipped)
}
