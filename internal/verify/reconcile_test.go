package verify

import (
	"strings"
	"testing"

	"peonytest/internal/diag"
)

func expect(t *testing.T, sev, msg string, line diag.Pos) diag.Expected {
	t.Helper()
	e, err := diag.NewExpected(sev, msg, line)
	if err != nil {
		t.Fatalf("NewExpected: %v", err)
	}
	return e
}

func actual(t *testing.T, sev, msg string, line diag.Pos) diag.Diagnostic {
	t.Helper()
	d, err := diag.NewDiagnostic(sev, msg, "", false, line, diag.NoPos)
	if err != nil {
		t.Fatalf("NewDiagnostic: %v", err)
	}
	return d
}

func countKinds(findings []finding) map[findingKind]int {
	out := make(map[findingKind]int)
	for _, f := range findings {
		out[f.kind]++
	}
	return out
}

func TestReconcilePositionalCounts(t *testing.T) {
	e1 := expect(t, "ERROR", "a", diag.At(1))
	e2 := expect(t, "ERROR", "b", diag.At(2))
	e3 := expect(t, "WARNING", "c", diag.At(3))
	a1 := actual(t, "error", "a", diag.At(1))
	a2 := actual(t, "error", "b", diag.At(2))
	aX := actual(t, "error", "x", diag.At(9))

	tests := []struct {
		name       string
		expected   []diag.Expected
		actual     []diag.Diagnostic
		mismatch   int
		missing    int
		unexpected int
	}{
		{"all match", []diag.Expected{e1, e2}, []diag.Diagnostic{a1, a2}, 0, 0, 0},
		{"nothing", nil, nil, 0, 0, 0},
		{"missing tail", []diag.Expected{e1, e2, e3}, []diag.Diagnostic{a1}, 0, 2, 0},
		{"extra tail", []diag.Expected{e1}, []diag.Diagnostic{a1, a2, aX}, 0, 0, 2},
		{"mismatch plus extra", []diag.Expected{e1, e2}, []diag.Diagnostic{aX, a2, a1}, 1, 0, 1},
		{"cascade", []diag.Expected{e1, e2}, []diag.Diagnostic{a2}, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := countKinds(reconcile(MatchPositional, tt.expected, tt.actual))
			if got[findingMismatch] != tt.mismatch || got[findingMissing] != tt.missing || got[findingUnexpected] != tt.unexpected {
				t.Fatalf("want mismatch=%d missing=%d unexpected=%d, got %v",
					tt.mismatch, tt.missing, tt.unexpected, got)
			}
			n, m := len(tt.expected), len(tt.actual)
			surplus := n - m
			if surplus < 0 {
				surplus = -surplus
			}
			if got[findingMissing]+got[findingUnexpected] != surplus {
				t.Fatalf("surplus entries = %d, want |N-M| = %d", got[findingMissing]+got[findingUnexpected], surplus)
			}
		})
	}
}

func TestUnsetLineMatchesOnlyUnsetLine(t *testing.T) {
	e := expect(t, "ERROR", "boom", diag.NoPos)
	if len(reconcile(MatchPositional, []diag.Expected{e}, []diag.Diagnostic{actual(t, "error", "boom", diag.NoPos)})) != 0 {
		t.Fatalf("unset line should match unset line")
	}
	findings := reconcile(MatchPositional, []diag.Expected{e}, []diag.Diagnostic{actual(t, "error", "boom", diag.At(4))})
	if len(findings) != 1 || findings[0].kind != findingMismatch {
		t.Fatalf("unset line must not match line 4, got %+v", findings)
	}
}

func TestReconcileAlignedAvoidsCascade(t *testing.T) {
	e1 := expect(t, "ERROR", "a", diag.At(1))
	e2 := expect(t, "ERROR", "b", diag.At(2))
	e3 := expect(t, "ERROR", "c", diag.At(3))
	stray := actual(t, "error", "stray", diag.At(1))
	got := []diag.Diagnostic{
		actual(t, "error", "a", diag.At(1)),
		stray,
		actual(t, "error", "b", diag.At(2)),
		actual(t, "error", "c", diag.At(3)),
	}

	positional := reconcile(MatchPositional, []diag.Expected{e1, e2, e3}, got)
	if len(positional) != 3 {
		t.Fatalf("positional: want 3 findings (cascade), got %d", len(positional))
	}

	aligned := reconcile(MatchAligned, []diag.Expected{e1, e2, e3}, got)
	if len(aligned) != 1 || aligned[0].kind != findingUnexpected || aligned[0].actual.Message != "stray" {
		t.Fatalf("aligned: want one unexpected 'stray', got %+v", aligned)
	}
}

func TestReconcileAlignedPairsLeftovers(t *testing.T) {
	e := []diag.Expected{
		expect(t, "ERROR", "a", diag.At(1)),
		expect(t, "ERROR", "b", diag.At(2)),
		expect(t, "ERROR", "c", diag.At(3)),
	}
	got := []diag.Diagnostic{
		actual(t, "error", "a", diag.At(1)),
		actual(t, "error", "B", diag.At(2)),
		actual(t, "error", "c", diag.At(3)),
	}
	findings := reconcile(MatchAligned, e, got)
	if len(findings) != 1 || findings[0].kind != findingMismatch {
		t.Fatalf("want one mismatch, got %+v", findings)
	}
	if findings[0].expected.Message != "b" || findings[0].actual.Message != "B" {
		t.Fatalf("wrong pair: %+v", findings[0])
	}
}

func TestWriteFindings(t *testing.T) {
	e := expect(t, "ERROR", "bad type", diag.At(5))
	a := actual(t, "error", "bad types", diag.At(5))
	var b strings.Builder
	writeFindings(&b, []finding{
		{kind: findingMismatch, expected: &e, actual: &a},
		{kind: findingMissing, expected: &e},
		{kind: findingUnexpected, actual: &a},
	})
	want := "FAIL: Mismatch between compiler diagnostic and expected diagnostic\n" +
		"  !> Expected diagnostic:\n" +
		"      <source>:5:?: error: bad type\n" +
		"  #> Compiler diagnostic:\n" +
		"      <source>:5:?: error: bad types\n" +
		"FAIL: Expected diagnostic not found in compiler output\n" +
		"  !> Expected diagnostic:\n" +
		"      <source>:5:?: error: bad type\n" +
		"FAIL: Unexpected diagnostic from compiler output\n" +
		"  #> Compiler diagnostic:\n" +
		"      <source>:5:?: error: bad types\n"
	if b.String() != want {
		t.Fatalf("unexpected log:\nwant:\n%s\ngot:\n%s", want, b.String())
	}
}
