package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"peonytest/internal/diag"
	"peonytest/internal/directive"
	"peonytest/internal/source"
)

// Config describes one test invocation.
type Config struct {
	// File is the test file; it is made absolute.
	File string

	// Name is the display name (default: file stem).
	Name string

	// TmpDir holds %t paths (default: working directory). It is created
	// when missing.
	TmpDir string

	// CompilerName is the RUN token substituted by CompilerExe.
	CompilerName string

	// CompilerExe is the compiler executable; empty keeps the RUN token.
	CompilerExe string

	// Debug wraps compiler invocations with the host debugger.
	Debug bool

	// Match selects the diagnostic reconciliation strategy.
	Match MatchMode

	// Host overrides the platform RUN guards are checked against.
	Host string
}

// Test is a parsed test file, ready to run.
type Test struct {
	cfg      Config
	commands []directive.RunCommand
	expected []diag.Expected
}

// New loads and parses the test file. Errors are fatal: the file cannot be
// read or its annotations are malformed.
func New(cfg Config) (*Test, error) {
	abs, err := filepath.Abs(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.File, err)
	}
	cfg.File = abs
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	if cfg.TmpDir == "" {
		if cfg.TmpDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	if err := os.MkdirAll(cfg.TmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	f, err := source.Load(abs)
	if err != nil {
		return nil, err
	}
	set, err := directive.Parse(f, directive.Options{
		TestFile:     abs,
		Name:         cfg.Name,
		TmpDir:       cfg.TmpDir,
		CompilerName: cfg.CompilerName,
		CompilerExe:  cfg.CompilerExe,
		Debug:        cfg.Debug,
		Host:         cfg.Host,
	})
	if err != nil {
		return nil, err
	}
	return &Test{cfg: cfg, commands: set.Commands, expected: set.Expected}, nil
}

// Name returns the display name.
func (t *Test) Name() string { return t.cfg.Name }

// File returns the absolute path of the test file.
func (t *Test) File() string { return t.cfg.File }

// Commands returns the RUN commands in source order.
func (t *Test) Commands() []directive.RunCommand { return t.commands }

// Expected returns the expected diagnostics in source order.
func (t *Test) Expected() []diag.Expected { return t.expected }
