// Package platform answers the two host-dependent questions a test file can
// ask: does a RUN(<platform>) guard apply here, and how is the compiler put
// under a debugger.
package platform

import (
	"runtime"
	"strings"
)

// Host identifiers. Windows is spelled the way existing test suites spell it
// in RUN guards.
const (
	Linux   = "linux"
	Windows = "win32"
	Darwin  = "darwin"
)

// Host returns the identifier of the running operating system.
func Host() string {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a Go GOOS value to a host identifier.
func FromGOOS(goos string) string {
	switch goos {
	case "windows":
		return Windows
	default:
		return goos
	}
}

// Matches reports whether a RUN guard selects host. An empty guard matches
// every host; otherwise the guard, compared case-insensitively, must be a
// prefix of the host identifier. On Windows the GOOS spelling is accepted too.
func Matches(guard, host string) bool {
	guard = strings.ToLower(strings.TrimSpace(guard))
	if guard == "" {
		return true
	}
	if strings.HasPrefix(host, guard) {
		return true
	}
	return host == Windows && strings.HasPrefix("windows", guard)
}

// ExeSuffix returns the executable file suffix for host.
func ExeSuffix(host string) string {
	if host == Windows {
		return ".exe"
	}
	return ""
}
