// Package conventest discovers test classes by convention and runs them.
//
// A test binary registers its classes and hands control to Main:
//
//	func main() {
//		conventest.MustRegister(&CalculatorTests{}, conventest.Inputs("Add", []any{1, 2, 3}))
//		conventest.Main()
//	}
package conventest

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"conventest/internal/cli"
	"conventest/internal/cli/commands"
	"conventest/internal/config"
	"conventest/internal/convention"
	"conventest/internal/discovery"
	"conventest/internal/domain"
	"conventest/internal/invoke"
	"conventest/internal/registry"
)

var version = "dev"

type (
	// Convention describes discovery and execution
	Convention = convention.Convention
	// Option customizes a registered class
	Option = registry.Option
	// ClassInfo is a registered class declaration
	ClassInfo = domain.ClassInfo
	// Case is one invocation of a test method
	Case = domain.Case
	// TestClass is a discovered class with its cases
	TestClass = domain.TestClass
	// InstanceExecution binds an instance to the cases run against it
	InstanceExecution = domain.InstanceExecution
	// Task is a pending result a test method may return
	Task = invoke.Task
	// ClassPredicate selects test classes
	ClassPredicate = discovery.ClassPredicate
	// MethodPredicate selects test methods
	MethodPredicate = discovery.MethodPredicate
	// SkipRule decides whether a case is skipped
	SkipRule = discovery.SkipRule
)

// Registration options
var (
	Named            = registry.Named
	WithTraits       = registry.WithTraits
	WithMethodTraits = registry.WithMethodTraits
	Async            = registry.Async
	Inputs           = registry.Inputs
	Trait            = registry.Trait
)

// Building blocks for custom conventions
var (
	DefaultConvention   = convention.Default
	NewConvention       = convention.New
	ClassNameHasSuffix  = discovery.ClassNameHasSuffix
	ClassNameLike       = discovery.ClassNameLike
	ClassHasTrait       = discovery.ClassHasTrait
	MethodNameHasPrefix = discovery.MethodNameHasPrefix
	MethodNameLike      = discovery.MethodNameLike
	MethodHasTrait      = discovery.MethodHasTrait
	NotMethodNamed      = discovery.NotMethodNamed
	FromInputs          = discovery.FromInputs
	FromTable           = discovery.FromTable
	SkipWithTrait       = discovery.SkipWithTrait
	SkipIf              = discovery.SkipIf
)

// Go starts fn and returns a Task for a test method to return
func Go(fn func() (any, error)) *Task {
	return invoke.Go(fn)
}

// Register adds a struct pointer or constructor to the default registry
func Register(v any, opts ...Option) error {
	return registry.Default.Register(v, opts...)
}

// MustRegister is Register that panics on error
func MustRegister(v any, opts ...Option) {
	registry.Default.MustRegister(v, opts...)
}

// Main runs the command line against the registered classes with the default
// convention and exits with status 1 on failure.
func Main() {
	MainWith(nil)
}

// MainWith is Main with a custom convention. conv is called once per engine.
func MainWith(conv func() *Convention) {
	if err := Execute(os.Args[1:], conv); err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Execute runs the command line with args and returns its error
func Execute(args []string, conv func() *Convention) error {
	rootCmd := &cobra.Command{
		Use:           "conventest",
		Short:         "Convention-driven test runner",
		Long:          `Discovers test classes and methods by naming convention, expands them into cases and runs them through configurable setup and teardown behaviors.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := commands.NewCommands(cfg, registry.Default, conv)
	cmds.Register(rootCmd, &flags, cfg)

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
