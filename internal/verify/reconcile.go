package verify

import (
	"strings"

	"peonytest/internal/diag"
)

// findingKind classifies one disagreement between expected and actual
// diagnostics.
type findingKind uint8

const (
	findingMismatch   findingKind = iota + 1 // a pair that does not match
	findingMissing                           // expected, never printed
	findingUnexpected                        // printed, never expected
)

// finding is one reported disagreement. Expected or Actual is nil when the
// kind has no such side.
type finding struct {
	kind     findingKind
	expected *diag.Expected
	actual   *diag.Diagnostic
}

// reconcile compares actual diagnostics with the expected ones and returns
// every disagreement in report order.
func reconcile(mode MatchMode, expected []diag.Expected, actual []diag.Diagnostic) []finding {
	if mode == MatchAligned {
		return reconcileAligned(expected, actual)
	}
	return reconcilePositional(expected, actual)
}

// reconcilePositional pairs diagnostics by index, then reports the surplus of
// the longer list one entry at a time.
func reconcilePositional(expected []diag.Expected, actual []diag.Diagnostic) []finding {
	var out []finding
	n := min(len(expected), len(actual))
	for i := 0; i < n; i++ {
		if !expected[i].Match(actual[i]) {
			out = append(out, finding{kind: findingMismatch, expected: &expected[i], actual: &actual[i]})
		}
	}
	for i := n; i < len(expected); i++ {
		out = append(out, finding{kind: findingMissing, expected: &expected[i]})
	}
	for i := n; i < len(actual); i++ {
		out = append(out, finding{kind: findingUnexpected, actual: &actual[i]})
	}
	return out
}

// reconcileAligned keeps the longest common subsequence of matching
// diagnostics in place. Between two kept pairs, leftovers are paired up as
// mismatches and the surplus reported as missing or unexpected.
func reconcileAligned(expected []diag.Expected, actual []diag.Diagnostic) []finding {
	n, m := len(expected), len(actual)
	// lcs[i][j] is the LCS length of expected[i:] and actual[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case expected[i].Match(actual[j]):
				lcs[i][j] = lcs[i+1][j+1] + 1
			case lcs[i+1][j] >= lcs[i][j+1]:
				lcs[i][j] = lcs[i+1][j]
			default:
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var (
		out        []finding
		pendingExp []int
		pendingAct []int
	)
	flush := func() {
		out = append(out, reconcilePositional(pick(expected, pendingExp), pick(actual, pendingAct))...)
		pendingExp, pendingAct = pendingExp[:0], pendingAct[:0]
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case expected[i].Match(actual[j]) && lcs[i][j] == lcs[i+1][j+1]+1:
			flush()
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			pendingExp = append(pendingExp, i)
			i++
		default:
			pendingAct = append(pendingAct, j)
			j++
		}
	}
	for ; i < n; i++ {
		pendingExp = append(pendingExp, i)
	}
	for ; j < m; j++ {
		pendingAct = append(pendingAct, j)
	}
	flush()
	return out
}

func pick[T any](items []T, idx []int) []T {
	out := make([]T, len(idx))
	for k, i := range idx {
		out[k] = items[i]
	}
	return out
}

// writeFindings renders findings in the log format of the driver.
func writeFindings(b *strings.Builder, findings []finding) {
	for _, f := range findings {
		switch f.kind {
		case findingMismatch:
			b.WriteString("FAIL: Mismatch between compiler diagnostic and expected diagnostic\n")
			b.WriteString("  !> Expected diagnostic:\n")
			b.WriteString("      " + f.expected.String() + "\n")
			b.WriteString("  #> Compiler diagnostic:\n")
			b.WriteString("      " + f.actual.String() + "\n")
		case findingMissing:
			b.WriteString("FAIL: Expected diagnostic not found in compiler output\n")
			b.WriteString("  !> Expected diagnostic:\n")
			b.WriteString("      " + f.expected.String() + "\n")
		case findingUnexpected:
			b.WriteString("FAIL: Unexpected diagnostic from compiler output\n")
			b.WriteString("  #> Compiler diagnostic:\n")
			b.WriteString("      " + f.actual.String() + "\n")
		}
	}
}
