package platform

import (
	"slices"
	"testing"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		guard, host string
		want        bool
	}{
		{"", Linux, true},
		{"  ", Windows, true},
		{"linux", Linux, true},
		{"LINUX", Linux, true},
		{"lin", Linux, true},
		{"linux", Windows, false},
		{"win32", Windows, true},
		{"Win", Windows, true},
		{"windows", Windows, true},
		{"windows", Linux, false},
		{"darwin", Darwin, true},
		{"linuxx", Linux, false},
	}
	for _, tc := range tests {
		if got := Matches(tc.guard, tc.host); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.guard, tc.host, got, tc.want)
		}
	}
}

func TestFromGOOS(t *testing.T) {
	if got := FromGOOS("windows"); got != Windows {
		t.Errorf("FromGOOS(windows) = %q", got)
	}
	if got := FromGOOS("freebsd"); got != "freebsd" {
		t.Errorf("FromGOOS(freebsd) = %q", got)
	}
}

func TestDebuggerWrap(t *testing.T) {
	argv := []string{"/bin/peony", "-c", "x.p"}

	tests := []struct {
		host string
		want []string
	}{
		{Linux, []string{"gdb", "/bin/peony", "-c", "x.p"}},
		{Windows, []string{"devenv", "/debugexe", "/bin/peony", "-c", "x.p"}},
		{Darwin, []string{"/bin/peony", "-c", "x.p"}},
	}
	for _, tc := range tests {
		got := Debugger(tc.host).Wrap(argv)
		if !slices.Equal(got, tc.want) {
			t.Errorf("Debugger(%q).Wrap = %v, want %v", tc.host, got, tc.want)
		}
	}
	if argv[0] != "/bin/peony" || len(argv) != 3 {
		t.Fatalf("Wrap modified its input: %v", argv)
	}
}

func TestExeSuffix(t *testing.T) {
	if ExeSuffix(Windows) != ".exe" || ExeSuffix(Linux) != "" {
		t.Fatalf("unexpected exe suffixes")
	}
}
