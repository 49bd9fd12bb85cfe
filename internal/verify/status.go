package verify

import (
	"fmt"
	"strings"
)

// Status is the outcome of one RUN command.
type Status string

const (
	StatusPass       Status = "PASS"
	StatusFail       Status = "FAIL"
	StatusXPass      Status = "XPASS"
	StatusXFail      Status = "XFAIL"
	StatusTimeout    Status = "TIMEOUT"
	StatusUnresolved Status = "UNRESOLVED"
)

// IsFail reports whether the status counts as a failed test.
func (s Status) IsFail() bool {
	switch s {
	case StatusFail, StatusTimeout, StatusUnresolved:
		return true
	}
	return false
}

// Result is the verdict for one RUN command together with a human-readable
// log explaining it.
type Result struct {
	Status Status
	Log    string
}

// IsFail reports whether the command failed.
func (r Result) IsFail() bool {
	return r.Status.IsFail()
}

// MatchMode selects how actual diagnostics are paired with expected ones.
type MatchMode uint8

const (
	// MatchPositional pairs the i-th expected diagnostic with the i-th actual
	// one. A missing or extra diagnostic shifts every later pair.
	MatchPositional MatchMode = iota
	// MatchAligned pairs diagnostics along a longest common subsequence of
	// their (line, severity, message) keys, so one stray diagnostic does not
	// cascade into a mismatch for every later pair.
	MatchAligned
)

// String returns the string representation of MatchMode.
func (m MatchMode) String() string {
	switch m {
	case MatchPositional:
		return "positional"
	case MatchAligned:
		return "aligned"
	default:
		return "unknown"
	}
}

// ParseMatchMode converts a string to MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "positional":
		return MatchPositional, nil
	case "aligned":
		return MatchAligned, nil
	default:
		return MatchPositional, fmt.Errorf("invalid match mode %q (expected positional|aligned)", s)
	}
}
