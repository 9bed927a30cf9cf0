// Package capture redirects the process standard output and error streams for
// the duration of a single case.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrCaptureBusy is returned when capture is requested while another session holds it
var ErrCaptureBusy = errors.New("console capture is already held by another case")

// Provider opens capture sessions
type Provider interface {
	Begin() (Session, error)
}

// Session is an active capture. End restores the original streams and returns
// everything written while the session was open.
type Session interface {
	End() string
}

// Console captures os.Stdout and os.Stderr. Only one session may be open per
// process at a time.
type Console struct{}

// NewConsole creates the process-wide console provider
func NewConsole() *Console {
	return &Console{}
}

// Begin acquires the process streams
func (c *Console) Begin() (Session, error) {
	return Begin()
}

var (
	mu   sync.Mutex
	held bool
)

type pipeSession struct {
	stdout *os.File
	stderr *os.File
	writer *os.File
	done   chan struct{}
	buf    bytes.Buffer
	once   sync.Once
	output string
}

// Begin swaps os.Stdout and os.Stderr for a pipe drained into memory
func Begin() (Session, error) {
	mu.Lock()
	defer mu.Unlock()

	if held {
		return nil, ErrCaptureBusy
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("open capture pipe: %w", err)
	}

	s := &pipeSession{
		stdout: os.Stdout,
		stderr: os.Stderr,
		writer: w,
		done:   make(chan struct{}),
	}
	go func() {
		_, _ = io.Copy(&s.buf, r)
		_ = r.Close()
		close(s.done)
	}()

	os.Stdout = w
	os.Stderr = w
	held = true
	return s, nil
}

// Held reports whether a session is currently open
func Held() bool {
	mu.Lock()
	defer mu.Unlock()
	return held
}

// End restores the original streams. It is safe to call more than once.
func (s *pipeSession) End() string {
	s.once.Do(func() {
		mu.Lock()
		os.Stdout = s.stdout
		os.Stderr = s.stderr
		held = false
		mu.Unlock()

		_ = s.writer.Close()
		<-s.done
		s.output = s.buf.String()
	})
	return s.output
}
