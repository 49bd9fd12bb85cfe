package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"peonytest/internal/config"
	"peonytest/internal/journal"
	"peonytest/internal/verify"
)

func newRunCmd(t *testing.T, argv ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "peonytest"}
	registerRunFlags(cmd)
	if err := cmd.ParseFlags(argv); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestReadRunFlagsFile(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		args    []string
		want    string
		wantErr bool
	}{
		{"positional", nil, []string{"a.px"}, "a.px", false},
		{"flag", []string{"--file", "b.px"}, nil, "b.px", false},
		{"both agree", []string{"--file", "a.px"}, []string{"a.px"}, "a.px", false},
		{"both differ", []string{"--file", "b.px"}, []string{"a.px"}, "", true},
		{"missing", nil, nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := readRunFlags(newRunCmd(t, tt.flags...), tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("readRunFlags: %v", err)
			}
			if f.file != tt.want {
				t.Fatalf("file = %q, want %q", f.file, tt.want)
			}
		})
	}
}

func TestReadRunFlagsRecordAlias(t *testing.T) {
	for _, flag := range []string{"--record", "--generate-stderr"} {
		f, err := readRunFlags(newRunCmd(t, flag), []string{"a.px"})
		if err != nil {
			t.Fatalf("readRunFlags: %v", err)
		}
		if !f.record {
			t.Fatalf("%s must enable record mode", flag)
		}
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	toml := "[compiler]\nexe = \"bin/peony\"\n\n[run]\ntimeout = \"9s\"\nmatch = \"aligned\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(toml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	file := filepath.Join(dir, "case.px")

	cfg, err := resolveConfig(runFlags{file: file})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Timeout != 9*time.Second || cfg.Match != "aligned" || cfg.CompilerExe != filepath.Join(dir, "bin", "peony") {
		t.Fatalf("config values not applied: %+v", cfg)
	}

	cfg, err = resolveConfig(runFlags{file: file, timeout: "2", compilerExe: "/x/peony", match: "positional"})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Timeout != 2*time.Second || cfg.Match != "positional" || cfg.CompilerExe != "/x/peony" {
		t.Fatalf("flags must override config: %+v", cfg)
	}

	if _, err := resolveConfig(runFlags{file: file, timeout: "never"}); err == nil {
		t.Fatalf("expected an error for a bad timeout")
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(runFlags{file: filepath.Join(t.TempDir(), "case.px")})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Timeout != config.DefaultTimeout || cfg.CompilerName != config.DefaultCompilerName {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected an error")
	}
	if shouldUseTUI(uiModeAuto, true) {
		t.Fatalf("auto mode must stay off under --debug")
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, versionInfo{Version: "1.2.3"}, true); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "peonytest" || payload.Version != "1.2.3" || payload.GitCommit != "unknown" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestRenderHistory(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	h := &journal.History{
		File: "/t/case.px",
		Entries: []journal.Entry{
			{RunID: "0123456789", Started: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Commands: []journal.CommandEntry{{Index: 0, Command: "peony a", Status: "PASS"}}},
			{RunID: "abc", Failed: true, Record: true, Commands: []journal.CommandEntry{{Index: 0, Command: "peony a", Status: "TIMEOUT"}}},
		},
	}
	var buf bytes.Buffer
	renderHistory(&buf, h, true)
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "abc") || !strings.Contains(lines[1], "FAIL") || !strings.Contains(lines[1], "(record)") {
		t.Fatalf("newest run must come first:\n%s", out)
	}
	if !strings.Contains(lines[3], "01234567 ") || strings.Contains(lines[3], "0123456789") {
		t.Fatalf("run id must be shortened:\n%s", out)
	}
	if !strings.Contains(lines[2], "#0 TIMEOUT  peony a") {
		t.Fatalf("verbose command line missing:\n%s", out)
	}
}

func TestActivityTracksRunningCommand(t *testing.T) {
	var a activity
	if a.String() != "" {
		t.Fatalf("idle activity must be empty")
	}
	a.OnEvent(verify.Event{Index: 2, Phase: verify.PhaseRunning})
	if got := a.String(); got != "cmd#2 running" {
		t.Fatalf("activity = %q", got)
	}
	a.OnEvent(verify.Event{Index: 2, Phase: verify.PhaseDone, Status: verify.StatusPass})
	if a.String() != "" {
		t.Fatalf("activity must clear when the command is done")
	}
}
