package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/ketra/internal/log"
)

var (
	// ErrExecFailure indicates the process could not be started.
	ErrExecFailure = errors.New("failed to execute command")
	// ErrTimeout indicates the process was killed after its deadline expired.
	ErrTimeout = errors.New("command timed out")
)

// waitDelay bounds how long Wait blocks on I/O after the process was killed.
const waitDelay = 2 * time.Second

// Spec describes a single process invocation.
type Spec struct {
	Name  string
	Args  []string
	Dir   string    // working directory, empty = inherit
	Stdin io.Reader // optional
}

// String renders the command line for logs and error messages.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Outcome is the raw result of a process that ran to completion.
type Outcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Succeeded reports whether the process exited with status 0.
func (o Outcome) Succeeded() bool {
	return o.ExitCode == 0
}

// Combined returns stdout followed by stderr.
func (o Outcome) Combined() string {
	return o.Stdout + o.Stderr
}

// Runner executes process specs.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Outcome, error)
}

// Exec runs specs as local processes.
type Exec struct {
	// Timeout applies when ctx has no deadline. Zero disables it.
	Timeout time.Duration
}

// Run executes spec and returns its outcome. A non-zero exit is reported in
// the Outcome, not as an error.
func (e Exec) Run(ctx context.Context, spec Spec) (Outcome, error) {
	if _, ok := ctx.Deadline(); !ok && e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	done := log.FromContext(ctx).Command(spec.Dir, spec.Name, spec.Args...)
	start := time.Now()
	defer func() { done(time.Since(start)) }()

	c := exec.CommandContext(ctx, spec.Name, spec.Args...)
	c.Dir = spec.Dir
	c.Stdin = spec.Stdin
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := Outcome{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return out, fmt.Errorf("%w: %s", ErrTimeout, spec.Name)
		}
		return out, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	return out, fmt.Errorf("%w %s: %w", ErrExecFailure, spec.Name, err)
}

// RunContext executes a command and returns stderr in the error message if it fails.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := OutputContext(ctx, dir, name, args...)
	return err
}

// OutputContext executes a command and returns stdout, with stderr in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	out, err := Exec{}.Run(ctx, Spec{Name: name, Args: args, Dir: dir})
	if err != nil {
		return nil, err
	}
	if !out.Succeeded() {
		if msg := strings.TrimSpace(out.Stderr); msg != "" {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("%s: exit status %d", name, out.ExitCode)
	}
	return []byte(out.Stdout), nil
}
