package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"peonytest/internal/compout"
	"peonytest/internal/observ"
	"peonytest/internal/procexec"
	"peonytest/internal/source"
	"peonytest/internal/trace"
)

// DefaultTimeout bounds one RUN command when nothing else is configured.
const DefaultTimeout = 5 * time.Second

// RunOptions controls how commands are executed and judged.
type RunOptions struct {
	// Timeout bounds each command; <= 0 disables the deadline.
	Timeout time.Duration

	// Record persists the stderr of passing commands as golden files
	// instead of comparing against them.
	Record bool

	// Sink receives progress events (optional).
	Sink Sink

	// Timer records one phase per command (optional).
	Timer *observ.Timer
}

// RunCommand executes command idx and judges its output. It never returns an
// error: every problem becomes part of the Result.
func (t *Test) RunCommand(ctx context.Context, idx int, opts RunOptions) Result {
	cmd := t.commands[idx]
	label := cmd.String()

	ctx, span := trace.StartSpan(ctx, trace.ScopeCommand, fmt.Sprintf("cmd#%d", idx))
	span.WithExtra("argv", label)

	phase := -1
	if opts.Timer != nil {
		phase = opts.Timer.Begin(fmt.Sprintf("cmd#%d", idx))
	}

	emit(opts.Sink, Event{Index: idx, Command: label, Phase: PhaseRunning})
	res, elapsed := t.judge(ctx, idx, opts)

	if opts.Timer != nil {
		opts.Timer.End(phase, string(res.Status))
	}
	span.WithExtra("status", string(res.Status))
	if res.IsFail() {
		trace.Point(trace.FromContext(ctx), trace.KindFailure, trace.ScopeCommand, fmt.Sprintf("cmd#%d", idx), string(res.Status), span.ID())
	}
	span.End(string(res.Status))
	emit(opts.Sink, Event{Index: idx, Command: label, Phase: PhaseDone, Status: res.Status, Elapsed: elapsed})
	return res
}

func (t *Test) judge(ctx context.Context, idx int, opts RunOptions) (Result, time.Duration) {
	cmd := t.commands[idx]
	tracer := trace.FromContext(ctx)
	spanID := trace.CurrentSpan(ctx).SpanID

	out, err := procexec.Run(ctx, cmd.Argv, opts.Timeout)
	if err != nil {
		return Result{
			Status: StatusUnresolved,
			Log:    fmt.Sprintf("UNRESOLVED: %v\nThe command: %s", err, cmd),
		}, out.Elapsed
	}
	trace.Point(tracer, trace.KindPoint, trace.ScopePhase, "exec",
		fmt.Sprintf("exit=%d elapsed=%s", out.ExitCode, out.Elapsed), spanID)
	if out.TimedOut {
		return Result{Status: StatusTimeout}, out.Elapsed
	}

	emit(opts.Sink, Event{Index: idx, Command: cmd.String(), Phase: PhaseChecking})
	bag, stderr := compout.Parse(source.NormalizeNewlines(out.Stderr))
	hasErrors := bag.HasErrors()
	trace.Point(tracer, trace.KindPoint, trace.ScopePhase, "parse",
		fmt.Sprintf("diagnostics=%d errors=%t", bag.Len(), hasErrors), spanID)

	var log strings.Builder
	switch {
	case out.ExitCode == 0 && hasErrors:
		log.WriteString("FAIL: The compiler has returned 0 yet it has issued an error diagnosis\n")
	case out.ExitCode != 0 && !hasErrors:
		log.WriteString("FAIL: The compiler did not return 0 yet it did not emit any error diagnosis\n")
	}

	golden := GoldenPath(t.cfg.File, idx)
	if !opts.Record {
		want, err := loadGolden(golden)
		switch {
		case err != nil:
			log.WriteString("FAIL: " + err.Error() + "\n")
		case stderr != "" && want == "":
			log.WriteString("FAIL: Unexpected output to stderr\n")
			log.WriteString("#> Compiler stderr output:\n")
			log.WriteString(stderr)
		case stderr != want:
			log.WriteString("FAIL: Mismatch between compiler output to stderr and expected output\n")
			log.WriteString("!> Expected stderr output:\n")
			log.WriteString(want)
			log.WriteString("#> Compiler stderr output:\n")
			log.WriteString(stderr)
		}
	}

	writeFindings(&log, reconcile(t.cfg.Match, t.expected, bag.Items()))

	if log.Len() == 0 && opts.Record {
		if err := storeGolden(golden, stderr); err != nil {
			log.WriteString("FAIL: " + err.Error() + "\n")
		}
	}
	if log.Len() == 0 {
		return Result{Status: StatusPass}, out.Elapsed
	}

	if !strings.HasSuffix(log.String(), "\n") {
		log.WriteString("\n")
	}
	log.WriteString("The command: " + cmd.String())
	return Result{Status: StatusFail, Log: log.String()}, out.Elapsed
}
