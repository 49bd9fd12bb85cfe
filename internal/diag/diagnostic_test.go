package diag

import (
	"errors"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"note", SevNote},
		{"  Warning ", SevWarning},
		{"ERROR", SevError},
		{"error\t", SevError},
	}
	for _, tc := range tests {
		got, err := ParseSeverity(tc.in)
		if err != nil {
			t.Fatalf("ParseSeverity(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "info", "fatal", "errors"} {
		if _, err := ParseSeverity(bad); !errors.Is(err, ErrUnknownSeverity) {
			t.Errorf("ParseSeverity(%q) error = %v, want ErrUnknownSeverity", bad, err)
		}
	}
}

func TestNewDiagnosticTrimsMessage(t *testing.T) {
	d, err := NewDiagnostic(" Error", "  bad type \n", "/tmp/a.p", true, At(5), NoPos)
	if err != nil {
		t.Fatalf("NewDiagnostic error: %v", err)
	}
	if d.Severity != SevError || d.Message != "bad type" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if !d.HasFile || d.File != "/tmp/a.p" {
		t.Fatalf("file not recorded: %+v", d)
	}
	if got, want := d.String(), "<source>:5:?: error: bad type"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestMessagesCompareExactly(t *testing.T) {
	// "é" as e + combining acute vs the precomposed code point.
	decomposed, err := NewDiagnostic("error", "cafe\u0301", "", false, NoPos, NoPos)
	if err != nil {
		t.Fatalf("NewDiagnostic error: %v", err)
	}
	exp, err := NewExpected("ERROR", "caf\u00e9", NoPos)
	if err != nil {
		t.Fatalf("NewExpected error: %v", err)
	}
	if decomposed.Message != "cafe\u0301" {
		t.Fatalf("message was rewritten: %q", decomposed.Message)
	}
	if exp.Match(decomposed) {
		t.Fatalf("differently encoded messages must not match: %q vs %q", exp.Message, decomposed.Message)
	}
}

func TestNewExpectedRejectsZeroLine(t *testing.T) {
	if _, err := NewExpected("ERROR", "x", At(0)); err == nil {
		t.Fatalf("expected error for line 0")
	}
	if _, err := NewExpected("BOGUS", "x", At(1)); !errors.Is(err, ErrUnknownSeverity) {
		t.Fatalf("expected ErrUnknownSeverity, got %v", err)
	}
}

func TestExpectedMatchIsExact(t *testing.T) {
	actual := func(line Pos, sev, msg string) Diagnostic {
		d, err := NewDiagnostic(sev, msg, "f", true, line, At(3))
		if err != nil {
			t.Fatalf("NewDiagnostic: %v", err)
		}
		return d
	}
	expected := func(line Pos, sev, msg string) Expected {
		e, err := NewExpected(sev, msg, line)
		if err != nil {
			t.Fatalf("NewExpected: %v", err)
		}
		return e
	}

	tests := []struct {
		name string
		exp  Expected
		act  Diagnostic
		want bool
	}{
		{"same", expected(At(5), "ERROR", "bad type"), actual(At(5), "error", "bad type"), true},
		{"column ignored", expected(At(5), "NOTE", "here"), actual(At(5), "note", "here"), true},
		{"other line", expected(At(5), "ERROR", "bad type"), actual(At(6), "error", "bad type"), false},
		{"other severity", expected(At(5), "WARNING", "bad type"), actual(At(5), "error", "bad type"), false},
		{"plural", expected(At(5), "ERROR", "bad type"), actual(At(5), "error", "bad types"), false},
		{"unset matches unset", expected(NoPos, "ERROR", "x"), actual(NoPos, "error", "x"), true},
		{"unset is not a wildcard", expected(NoPos, "ERROR", "x"), actual(At(9), "error", "x"), false},
		{"set does not match unset", expected(At(9), "ERROR", "x"), actual(NoPos, "error", "x"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.exp.Match(tc.act); got != tc.want {
				t.Fatalf("Match(%s, %s) = %v, want %v", tc.exp, tc.act, got, tc.want)
			}
			if got := tc.exp.Key() == tc.act.Key(); got != tc.want {
				t.Fatalf("Key equality = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpectedString(t *testing.T) {
	e, err := NewExpected("WARNING", " unused ", NoPos)
	if err != nil {
		t.Fatalf("NewExpected: %v", err)
	}
	if got, want := e.String(), "<source>:?:?: warning: unused"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(2)
	if b.HasErrors() {
		t.Fatalf("empty bag reports errors")
	}
	w, _ := NewDiagnostic("warning", "w", "", false, NoPos, NoPos)
	b.Add(w)
	if b.HasErrors() {
		t.Fatalf("warning-only bag reports errors")
	}
	e, _ := NewDiagnostic("error", "e", "", false, NoPos, NoPos)
	b.Add(e)
	if !b.HasErrors() || b.Len() != 2 {
		t.Fatalf("HasErrors=%v Len=%d, want true 2", b.HasErrors(), b.Len())
	}
}
