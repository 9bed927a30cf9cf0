package parser

import (
	"errors"
	"runtime/debug"
	"strings"
	"testing"

	"conventest/internal/domain"
)

const sampleStack = `goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
conventest/internal/failure.FromPanic({0x5a2f40, 0xc000012345})
	/src/conventest/internal/failure/failure.go:27 +0x25
conventest/internal/invoke.(*Invoker).call.func1()
	/src/conventest/internal/invoke/invoker.go:80 +0x45
panic({0x5a2f40?, 0xc000012345?})
	/usr/local/go/src/runtime/panic.go:770 +0x132
example.com/shop.(*CartTests).Checkout(0xc000010000)
	/src/shop/cart_test.go:42 +0x1d
reflect.Value.call({0x5b1e80?, 0xc000010000?, 0x13?}, {0x5e1c2a, 0x4}, {0x0, 0x0, 0x0})
	/usr/local/go/src/reflect/value.go:596 +0xce5
example.com/shop.helper(...)
	/src/shop/helper.go:9
`

func TestParseStack(t *testing.T) {
	frames := ParseStack(sampleStack)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %+v", len(frames), frames)
	}

	if frames[0].Function != "example.com/shop.(*CartTests).Checkout" {
		t.Errorf("unexpected function %s", frames[0].Function)
	}
	if frames[0].File != "/src/shop/cart_test.go" || frames[0].Line != 42 {
		t.Errorf("unexpected location %s:%d", frames[0].File, frames[0].Line)
	}
	if frames[1].Function != "example.com/shop.helper(...)" && frames[1].Function != "example.com/shop.helper" {
		t.Errorf("unexpected function %s", frames[1].Function)
	}
	if frames[1].Line != 9 {
		t.Errorf("expected line 9, got %d", frames[1].Line)
	}
}

func TestParseStack_Empty(t *testing.T) {
	if frames := ParseStack(""); len(frames) != 0 {
		t.Errorf("expected no frames, got %+v", frames)
	}
}

func TestParseStack_RealDump(t *testing.T) {
	frames := ParseStack(string(debug.Stack()))
	if len(frames) == 0 {
		t.Fatal("expected frames from a real stack")
	}
	if !strings.HasSuffix(frames[0].File, "failure_test.go") {
		t.Errorf("expected this file first, got %s", frames[0].File)
	}
}

func TestFailureParser_ParseFailure(t *testing.T) {
	p := NewFailureParser()

	passed := domain.CaseResult{Outcome: domain.OutcomePassed}
	if got := p.ParseFailure(passed); got != nil {
		t.Errorf("passed case should yield nothing, got %+v", got)
	}

	failed := domain.CaseResult{
		Class:    "CartTests",
		Name:     "Checkout",
		FullName: "CartTests.Checkout",
		Outcome:  domain.OutcomeFailed,
		Output:   "charging card\n",
		Failures: []domain.Failure{
			{Cause: errors.New("card declined"), Stack: sampleStack},
			{Cause: errors.New("teardown failed")},
		},
	}

	got := p.ParseAll([]domain.CaseResult{passed, failed})
	if len(got) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(got))
	}

	first := got[0]
	if first.Message != "card declined" || first.ErrorType != "*errors.errorString" {
		t.Errorf("unexpected cause %s %s", first.ErrorType, first.Message)
	}
	if first.File != "/src/shop/cart_test.go" || first.Line != 42 {
		t.Errorf("unexpected location %s:%d", first.File, first.Line)
	}
	if first.FullName != "CartTests.Checkout" || first.Output != "charging card\n" {
		t.Errorf("unexpected identity %+v", first)
	}
	if len(first.StackTrace) != 2 {
		t.Errorf("expected 2 stack lines, got %v", first.StackTrace)
	}

	if got[1].File != "" || got[1].Line != 0 {
		t.Errorf("failure without stack should have no location, got %s:%d", got[1].File, got[1].Line)
	}
}
