// Package procexec runs one command with a deadline and captures what it
// printed.
package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Outcome is what a finished (or killed) process left behind.
type Outcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Elapsed  time.Duration
}

// LaunchError means the process could not be started at all: the program is
// missing, not executable, or argv is empty.
type LaunchError struct {
	Argv []string
	Err  error
}

func (e *LaunchError) Error() string {
	if len(e.Argv) == 0 {
		return fmt.Sprintf("cannot launch empty command: %v", e.Err)
	}
	return fmt.Sprintf("cannot launch %q: %v", e.Argv[0], e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

var errEmptyCommand = errors.New("empty argument vector")

// Run executes argv without a shell. A timeout <= 0 means no deadline. When
// the deadline expires the process is killed and Outcome.TimedOut is set; this
// is not an error. Only launch failures and I/O failures are returned as
// errors.
func Run(ctx context.Context, argv []string, timeout time.Duration) (Outcome, error) {
	if len(argv) == 0 {
		return Outcome{}, &LaunchError{Argv: argv, Err: errEmptyCommand}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// #nosec G204 -- running test commands is the point of this package
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("stderr pipe: %w", err)
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{}, &LaunchError{Argv: argv, Err: err}
	}

	// Orphaned grandchildren may keep the pipes open after the deadline kills
	// the child; closing the read ends unblocks the drains.
	stop := context.AfterFunc(ctx, func() {
		_ = stdout.Close()
		_ = stderr.Close()
	})
	defer stop()

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return drain(&outBuf, stdout) })
	g.Go(func() error { return drain(&errBuf, stderr) })
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	out := Outcome{
		Stdout:  outBuf.String(),
		Stderr:  errBuf.String(),
		Elapsed: time.Since(started),
	}
	if waitErr != nil && ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.TimedOut = true
			out.ExitCode = -1
			return out, nil
		}
		return out, fmt.Errorf("run %q: %w", argv[0], ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		out.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return out, fmt.Errorf("wait for %q: %w", argv[0], waitErr)
	}
	if drainErr != nil {
		return out, fmt.Errorf("read output of %q: %w", argv[0], drainErr)
	}
	return out, nil
}

func drain(dst *bytes.Buffer, r io.Reader) error {
	_, err := io.Copy(dst, r)
	if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
