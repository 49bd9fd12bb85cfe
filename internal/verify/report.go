package verify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// CommandResult is the verdict of one command as recorded in a Summary.
type CommandResult struct {
	Index   int
	Command string
	Result  Result
}

// Summary aggregates every command of one run.
type Summary struct {
	Commands []CommandResult
	Elapsed  time.Duration
}

// Failed reports whether any command failed.
func (s Summary) Failed() bool {
	for _, c := range s.Commands {
		if c.Result.IsFail() {
			return true
		}
	}
	return false
}

// Failures returns how many commands failed.
func (s Summary) Failures() int {
	n := 0
	for _, c := range s.Commands {
		if c.Result.IsFail() {
			n++
		}
	}
	return n
}

// Count returns how many commands ended with status st.
func (s Summary) Count(st Status) int {
	n := 0
	for _, c := range s.Commands {
		if c.Result.Status == st {
			n++
		}
	}
	return n
}

const failLogHeader = "*************** FAIL LOG ***************"

// Run executes every command in order and prints one status line per
// command to w, followed by the log of each failure.
func (t *Test) Run(ctx context.Context, w io.Writer, opts RunOptions) Summary {
	opts.Record = false
	return t.runAll(ctx, opts, func(c CommandResult) {
		WriteResult(w, c, len(t.commands))
	})
}

// GenerateStderr runs every command in record mode, rewriting the golden
// file of each passing command. A failure is reported and the remaining
// commands still run.
func (t *Test) GenerateStderr(ctx context.Context, w io.Writer, opts RunOptions) Summary {
	opts.Record = true
	return t.runAll(ctx, opts, func(c CommandResult) {
		if !c.Result.IsFail() {
			fmt.Fprintf(w, "STDERR generated for %s cmd#%d\n", t.cfg.Name, c.Index)
			return
		}
		header := fmt.Sprintf("***** FAIL to generate STDERR for %s cmd#%d *****", t.cfg.Name, c.Index)
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, c.Result.Log)
		fmt.Fprintln(w, strings.Repeat("*", len(header)))
	})
}

func (t *Test) runAll(ctx context.Context, opts RunOptions, report func(CommandResult)) Summary {
	started := time.Now()
	for i, cmd := range t.commands {
		emit(opts.Sink, Event{Index: i, Command: cmd.String(), Phase: PhaseQueued})
	}
	summary := Summary{Commands: make([]CommandResult, 0, len(t.commands))}
	for i, cmd := range t.commands {
		c := CommandResult{Index: i, Command: cmd.String(), Result: t.RunCommand(ctx, i, opts)}
		summary.Commands = append(summary.Commands, c)
		report(c)
	}
	summary.Elapsed = time.Since(started)
	return summary
}

// WriteResult prints the status line of c and, for a failure with a log,
// the framed log.
func WriteResult(w io.Writer, c CommandResult, total int) {
	fmt.Fprintf(w, "%s: '%s' (%d of %d)\n", statusColor(c.Result.Status).Sprint(string(c.Result.Status)), c.Command, c.Index+1, total)
	if c.Result.IsFail() && c.Result.Log != "" {
		fmt.Fprintln(w, failLogHeader)
		fmt.Fprintln(w, c.Result.Log)
		fmt.Fprintln(w, strings.Repeat("*", len(failLogHeader)))
	}
}

func statusColor(s Status) *color.Color {
	switch s {
	case StatusPass:
		return color.New(color.FgGreen)
	case StatusXPass, StatusXFail:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
