package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"peonytest/internal/config"
	"peonytest/internal/journal"
	"peonytest/internal/observ"
	"peonytest/internal/platform"
	"peonytest/internal/trace"
	"peonytest/internal/verify"
)

const journalApp = "peonytest"

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "test file to run (alternative to the positional argument)")
	cmd.Flags().String("name", "", "display name of the test (default: file stem)")
	cmd.Flags().String("compiler-exe", "", "compiler executable substituted for the compiler token")
	cmd.Flags().String("tmp-dir", "", "directory for %t paths (default: working directory)")
	cmd.Flags().String("timeout", "", "per-command timeout in seconds or as a duration (default 5s)")
	cmd.Flags().Bool("generate-stderr", false, "record the stderr of passing commands as golden files")
	cmd.Flags().Bool("record", false, "alias for --generate-stderr")
	cmd.Flags().Bool("debug", false, "run compiler commands under the host debugger")
	cmd.Flags().String("match", "", "diagnostic matching (positional|aligned)")
	cmd.Flags().String("config", "", "configuration file (default: nearest "+config.FileName+")")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("timings", false, "print per-command timings")
	cmd.Flags().Bool("no-journal", false, "do not record this run in the history journal")
}

// runFlags holds the parsed command line of the root command.
type runFlags struct {
	file        string
	name        string
	compilerExe string
	tmpDir      string
	timeout     string
	record      bool
	debug       bool
	match       string
	configPath  string
	ui          string
	timings     bool
	noJournal   bool
}

func readRunFlags(cmd *cobra.Command, args []string) (runFlags, error) {
	var (
		f   runFlags
		err error
	)
	fl := cmd.Flags()
	get := func(name string, dst *string) {
		if err == nil {
			*dst, err = fl.GetString(name)
		}
	}
	getBool := func(name string, dst *bool) {
		if err == nil {
			*dst, err = fl.GetBool(name)
		}
	}
	get("file", &f.file)
	get("name", &f.name)
	get("compiler-exe", &f.compilerExe)
	get("tmp-dir", &f.tmpDir)
	get("timeout", &f.timeout)
	get("match", &f.match)
	get("config", &f.configPath)
	get("ui", &f.ui)
	getBool("debug", &f.debug)
	getBool("timings", &f.timings)
	getBool("no-journal", &f.noJournal)
	var generate, record bool
	getBool("generate-stderr", &generate)
	getBool("record", &record)
	if err != nil {
		return f, fmt.Errorf("failed to read flags: %w", err)
	}
	f.record = generate || record

	switch {
	case len(args) == 1 && f.file != "" && args[0] != f.file:
		return f, fmt.Errorf("test file given twice: %q and --file %q", args[0], f.file)
	case len(args) == 1:
		f.file = args[0]
	case f.file == "":
		return f, fmt.Errorf("missing test file")
	}
	return f, nil
}

// resolveConfig merges flags over the configuration file over defaults.
func resolveConfig(f runFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.Discover(filepath.Dir(f.file))
	}
	if err != nil {
		return nil, err
	}
	if f.compilerExe != "" {
		cfg.CompilerExe = f.compilerExe
	}
	if f.tmpDir != "" {
		cfg.TmpDir = f.tmpDir
	}
	if f.timeout != "" {
		if cfg.Timeout, err = config.ParseTimeout(f.timeout); err != nil {
			return nil, err
		}
	}
	if f.match != "" {
		cfg.Match = f.match
	}
	return cfg, nil
}

func runTest(cmd *cobra.Command, args []string) error {
	flags, err := readRunFlags(cmd, args)
	if err != nil {
		return err
	}
	mode, err := readUIMode(flags.ui)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}
	match, err := verify.ParseMatchMode(cfg.Match)
	if err != nil {
		return err
	}

	current := &activity{}
	cleanup, err := setupTracing(cmd, current.String)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, span := trace.StartSpan(cmd.Context(), trace.ScopeDriver, "peonytest")

	host := platform.Host()
	cwd, err := os.Getwd()
	if err != nil {
		span.End("error")
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	exe, err := cfg.ResolveCompiler(cwd, host)
	if err != nil {
		span.End("error")
		return err
	}

	tst, err := verify.New(verify.Config{
		File:         flags.file,
		Name:         flags.name,
		TmpDir:       cfg.TmpDir,
		CompilerName: cfg.CompilerName,
		CompilerExe:  exe,
		Debug:        flags.debug,
		Match:        match,
		Host:         host,
	})
	if err != nil {
		span.End("error")
		return err
	}
	span.WithExtra("file", tst.File())

	timer := observ.NewTimer()
	opts := verify.RunOptions{Timeout: cfg.Timeout, Timer: timer, Sink: current}
	out := cmd.OutOrStdout()
	started := time.Now()

	var summary verify.Summary
	if shouldUseTUI(mode, flags.debug) {
		var buf bytes.Buffer
		summary, err = runWithUI(ctx, tst.Name(), tst, opts, runner(tst, &buf, flags.record))
		if _, werr := out.Write(buf.Bytes()); werr != nil && err == nil {
			err = werr
		}
		if err != nil {
			span.End("error")
			return err
		}
	} else {
		summary = runner(tst, out, flags.record)(ctx, opts)
	}

	if flags.timings {
		printTimings(cmd.ErrOrStderr(), timer, summary)
	}
	if !flags.noJournal {
		recordRun(cmd, tst.File(), started, flags.record, summary, timer)
	}

	if summary.Failed() {
		span.End(fmt.Sprintf("%d of %d failed", summary.Failures(), len(summary.Commands)))
		return errTestsFailed
	}
	span.End("ok")
	return nil
}

// runner reports to w, in record mode when record is set.
func runner(tst *verify.Test, w io.Writer, record bool) runFunc {
	return func(ctx context.Context, opts verify.RunOptions) verify.Summary {
		if record {
			return tst.GenerateStderr(ctx, w, opts)
		}
		return tst.Run(ctx, w, opts)
	}
}

// recordRun appends the run to the journal. Journal problems are reported
// but never change the verdict.
func recordRun(cmd *cobra.Command, file string, started time.Time, record bool, summary verify.Summary, timer *observ.Timer) {
	j, err := journal.Open(journalApp)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "journal: %v\n", err)
		return
	}
	entry := journal.Entry{
		RunID:    uuid.NewString(),
		Started:  started,
		Record:   record,
		Failed:   summary.Failed(),
		Commands: make([]journal.CommandEntry, 0, len(summary.Commands)),
		Timings:  timer.Report(),
	}
	for _, c := range summary.Commands {
		entry.Commands = append(entry.Commands, journal.CommandEntry{
			Index:   c.Index,
			Command: c.Command,
			Status:  string(c.Result.Status),
			Log:     c.Result.Log,
		})
	}
	if err := j.Append(file, entry); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "journal: %v\n", err)
	}
}
