// Package compout turns raw compiler output into diagnostics and a
// path-independent copy of the text that can be diffed against golden files.
package compout

import (
	"regexp"
	"strconv"

	"peonytest/internal/diag"
)

// Placeholder replaces the file component of every recognised diagnostic line.
const Placeholder = "<source>"

// diagnosticRE matches `[<file>:<line>:[<col>:] ]<severity>:<message>` on a
// single line. The severity is any word; only note, warning and error survive
// parseMatch.
var diagnosticRE = regexp.MustCompile(`(?m)^((?P<file>.*?):(?P<line>\d+):((?P<col>\d+):)? )?(?P<severity>\w+):(?P<message>.*)$`)

var (
	groupFile     = diagnosticRE.SubexpIndex("file")
	groupLine     = diagnosticRE.SubexpIndex("line")
	groupCol      = diagnosticRE.SubexpIndex("col")
	groupSeverity = diagnosticRE.SubexpIndex("severity")
	groupMessage  = diagnosticRE.SubexpIndex("message")
)

// span is a half-open byte range [Start, End) in the original output.
type span struct {
	Start, End int
}

// patch replaces one span of the original output.
type patch struct {
	span span
	text string
}

// Parse extracts every diagnostic from output, in order, and returns output
// with each diagnostic's file component replaced by Placeholder. Lines whose
// severity is not note, warning or error are left untouched.
func Parse(output string) (*diag.Bag, string) {
	matches := diagnosticRE.FindAllStringSubmatchIndex(output, -1)
	bag := diag.NewBag(len(matches))
	patches := make([]patch, 0, len(matches))

	for _, m := range matches {
		d, ok := parseMatch(output, m)
		if !ok {
			continue
		}
		bag.Add(d)
		if d.HasFile {
			patches = append(patches, patch{
				span: groupSpan(m, groupFile),
				text: Placeholder,
			})
		}
	}
	return bag, applyPatches(output, patches)
}

// Normalize is Parse without the diagnostics.
func Normalize(output string) string {
	_, text := Parse(output)
	return text
}

// parseMatch builds a diagnostic from one regexp match. It reports false when
// the severity is unknown.
func parseMatch(output string, m []int) (diag.Diagnostic, bool) {
	file, hasFile := group(output, m, groupFile)
	line := coordinate(output, m, groupLine)
	col := coordinate(output, m, groupCol)
	severity, _ := group(output, m, groupSeverity)
	message, _ := group(output, m, groupMessage)

	d, err := diag.NewDiagnostic(severity, message, file, hasFile, line, col)
	if err != nil {
		return diag.Diagnostic{}, false
	}
	return d, true
}

// coordinate parses a line or column group. Values past uint64 leave the
// coordinate unset; the diagnostic itself is kept.
func coordinate(output string, m []int, g int) diag.Pos {
	text, ok := group(output, m, g)
	if !ok {
		return diag.NoPos
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return diag.NoPos
	}
	return diag.At(v)
}

func group(output string, m []int, g int) (string, bool) {
	sp := groupSpan(m, g)
	if sp.Start < 0 {
		return "", false
	}
	return output[sp.Start:sp.End], true
}

func groupSpan(m []int, g int) span {
	return span{Start: m[2*g], End: m[2*g+1]}
}

// applyPatches folds patches, sorted by position and non-overlapping, into a
// new string. Spans refer to the original text; delta carries the total
// length change of the patches already applied.
func applyPatches(text string, patches []patch) string {
	delta := 0
	for _, p := range patches {
		start := p.span.Start + delta
		end := p.span.End + delta
		text = text[:start] + p.text + text[end:]
		delta += len(p.text) - (p.span.End - p.span.Start)
	}
	return text
}
