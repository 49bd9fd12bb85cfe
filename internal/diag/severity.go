package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote is for notes attached to other diagnostics or standalone remarks.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

// ErrUnknownSeverity is returned by ParseSeverity for anything other than
// note, warning or error.
var ErrUnknownSeverity = errors.New("unknown severity")

// String returns the lower-case spelling used in compiler output.
func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity accepts a severity token in any case, surrounded by any
// amount of whitespace.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "note":
		return SevNote, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	default:
		return SevNote, fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
}
