package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is one diagnostic parsed from compiler output. It is never
// modified after construction.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	HasFile  bool
	Line     Pos
	Column   Pos
}

// NewDiagnostic validates the severity token and trims the message.
// file is ignored when hasFile is false.
func NewDiagnostic(severity, msg, file string, hasFile bool, line, col Pos) (Diagnostic, error) {
	sev, err := ParseSeverity(severity)
	if err != nil {
		return Diagnostic{}, err
	}
	d := Diagnostic{
		Severity: sev,
		Message:  cleanMessage(msg),
		Line:     line,
		Column:   col,
	}
	if hasFile {
		d.File = file
		d.HasFile = true
	}
	return d, nil
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("<source>:%s:%s: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

func cleanMessage(msg string) string {
	return strings.TrimSpace(msg)
}
