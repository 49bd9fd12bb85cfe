package procexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"
)

// The test binary doubles as the child process: when PROCEXEC_HELPER is set
// it behaves according to its value instead of running tests.
func TestMain(m *testing.M) {
	switch os.Getenv("PROCEXEC_HELPER") {
	case "":
		os.Exit(m.Run())
	case "echo":
		fmt.Fprint(os.Stdout, "to stdout\n")
		fmt.Fprint(os.Stderr, "file.x:1: error: to stderr\n")
		os.Exit(3)
	case "sleep":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
}

func helper(t *testing.T, mode string) []string {
	t.Helper()
	t.Setenv("PROCEXEC_HELPER", mode)
	return []string{os.Args[0]}
}

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	out, err := Run(context.Background(), helper(t, "echo"), 10*time.Second)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Stdout != "to stdout\n" {
		t.Errorf("stdout = %q", out.Stdout)
	}
	if out.Stderr != "file.x:1: error: to stderr\n" {
		t.Errorf("stderr = %q", out.Stderr)
	}
	if out.ExitCode != 3 || out.TimedOut {
		t.Errorf("exit=%d timedOut=%v, want 3 false", out.ExitCode, out.TimedOut)
	}
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	out, err := Run(context.Background(), helper(t, "sleep"), 200*time.Millisecond)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !out.TimedOut {
		t.Fatalf("expected timeout, got %+v", out)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestRunLaunchError(t *testing.T) {
	_, err := Run(context.Background(), []string{"/definitely/not/here/peony"}, time.Second)
	var launch *LaunchError
	if !errors.As(err, &launch) {
		t.Fatalf("expected *LaunchError, got %v", err)
	}

	_, err = Run(context.Background(), []string{"surely-missing-binary-for-procexec"}, time.Second)
	if !errors.As(err, &launch) || !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected LaunchError wrapping exec.ErrNotFound, got %v", err)
	}

	if _, err = Run(context.Background(), nil, time.Second); !errors.As(err, &launch) {
		t.Fatalf("expected LaunchError for empty argv, got %v", err)
	}
}
