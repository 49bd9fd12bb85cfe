package diag

import "fmt"

// Expected is a diagnostic announced by a `//~` annotation in a test file.
type Expected struct {
	Severity Severity
	Message  string
	Line     Pos
}

// NewExpected validates the severity token and the line. A set line must be
// at least 1.
func NewExpected(severity, msg string, line Pos) (Expected, error) {
	sev, err := ParseSeverity(severity)
	if err != nil {
		return Expected{}, err
	}
	if line.Set && line.Value < 1 {
		return Expected{}, fmt.Errorf("expected diagnostic line must be positive, got %d", line.Value)
	}
	return Expected{Severity: sev, Message: cleanMessage(msg), Line: line}, nil
}

// Match reports whether d is the diagnostic e announces. The comparison is an
// exact equality on (line, severity, message); an unset line only equals an
// unset line.
func (e Expected) Match(d Diagnostic) bool {
	return e.Line == d.Line && e.Severity == d.Severity && e.Message == d.Message
}

// Key returns the triple Match compares, usable as a map key.
func (e Expected) Key() Key { return Key{Line: e.Line, Severity: e.Severity, Message: e.Message} }

func (e Expected) String() string {
	return fmt.Sprintf("<source>:%s:?: %s: %s", e.Line, e.Severity, e.Message)
}

// Key identifies a diagnostic for matching purposes.
type Key struct {
	Line     Pos
	Severity Severity
	Message  string
}

// Key returns the triple Expected.Match compares.
func (d Diagnostic) Key() Key { return Key{Line: d.Line, Severity: d.Severity, Message: d.Message} }
