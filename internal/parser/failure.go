package parser

import (
	"fmt"
	"strconv"
	"strings"

	"conventest/internal/domain"
)

// internalFrames are function prefixes that belong to the runtime or to the
// engine itself rather than to the test author.
var internalFrames = []string{
	"runtime.",
	"runtime/",
	"reflect.",
	"panic(",
	"conventest/internal/failure.",
	"conventest/internal/invoke.",
	"conventest/internal/behavior.",
	"conventest/internal/execution.(*Engine)",
}

// FailureParser turns failed case results into failure records, locating the
// failing file and line from the recorded goroutine stack.
type FailureParser struct{}

// NewFailureParser creates a new FailureParser
func NewFailureParser() *FailureParser {
	return &FailureParser{}
}

// ParseFailure returns one record per failure cause of a failed case
func (p *FailureParser) ParseFailure(result domain.CaseResult) []domain.TestFailure {
	if result.Outcome != domain.OutcomeFailed {
		return nil
	}

	var failures []domain.TestFailure
	for _, f := range result.Failures {
		tf := domain.TestFailure{
			TestName:  result.Name,
			FullName:  result.FullName,
			Class:     result.Class,
			ErrorType: fmt.Sprintf("%T", f.Cause),
			Message:   f.Cause.Error(),
			Output:    result.Output,
		}
		frames := ParseStack(f.Stack)
		for _, fr := range frames {
			tf.StackTrace = append(tf.StackTrace, fr.String())
		}
		if len(frames) > 0 {
			tf.File = frames[0].File
			tf.Line = frames[0].Line
		}
		failures = append(failures, tf)
	}
	return failures
}

// ParseAll collects the failure records of every result
func (p *FailureParser) ParseAll(results []domain.CaseResult) []domain.TestFailure {
	var failures []domain.TestFailure
	for _, r := range results {
		failures = append(failures, p.ParseFailure(r)...)
	}
	return failures
}

// Frame is one call site from a goroutine stack dump
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s:%d %s", f.File, f.Line, f.Function)
}

// ParseStack extracts the frames of a runtime/debug.Stack dump that belong to
// test code, innermost first.
func ParseStack(stack string) []Frame {
	lines := strings.Split(stack, "\n")

	var frames []Frame
	for i := 0; i+1 < len(lines); i++ {
		fn := strings.TrimSpace(lines[i])
		loc := lines[i+1]
		if fn == "" || !strings.HasPrefix(loc, "\t") {
			continue
		}
		i++

		file, line, ok := parseLocation(strings.TrimSpace(loc))
		if !ok || isInternal(fn) {
			continue
		}
		frames = append(frames, Frame{Function: trimArgs(fn), File: file, Line: line})
	}
	return frames
}

// parseLocation splits "/path/file.go:42 +0x1d"
func parseLocation(loc string) (string, int, bool) {
	if i := strings.LastIndex(loc, " +0x"); i >= 0 {
		loc = loc[:i]
	}
	i := strings.LastIndex(loc, ":")
	if i < 0 {
		return "", 0, false
	}
	line, err := strconv.Atoi(loc[i+1:])
	if err != nil {
		return "", 0, false
	}
	return loc[:i], line, true
}

func isInternal(fn string) bool {
	for _, prefix := range internalFrames {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

// trimArgs drops the argument list, e.g. "pkg.(*T).M(0xc000010000)" -> "pkg.(*T).M"
func trimArgs(fn string) string {
	if strings.HasSuffix(fn, ")") {
		if i := strings.LastIndex(fn, "("); i > 0 && fn[i-1] != '.' {
			return fn[:i]
		}
	}
	return fn
}
