// Package diag defines the diagnostic records compared by the test driver.
//
// # Data model
//
// Diagnostic is what the compiler under test actually printed. It is produced by
// internal/compout from a single line of compiler stderr and carries:
//
//   - Severity: tri-level enum (Note, Warning, Error) defined in severity.go.
//   - Message: trimmed text after the severity token, compared byte for byte.
//   - File, Line, Column: optional location prefix of the line.
//
// Expected is what the test file says the compiler should print. It is produced
// by internal/directive from a `//~` annotation and carries no column: columns
// are never asserted.
//
// Both records render to the same `<source>:line:col: severity: message` shape so
// that failure logs line them up visually; unknown coordinates print as `?`.
//
// # Matching
//
// Expected.Match is an exact equality on (line, severity, message). An expected
// diagnostic without a line only matches an actual diagnostic that also has no
// line; it is not a wildcard.
package diag
