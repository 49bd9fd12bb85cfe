package platform

// DebuggerKind selects how a command is launched under a debugger.
type DebuggerKind uint8

const (
	// DebuggerNone leaves commands unchanged.
	DebuggerNone DebuggerKind = iota
	// DebuggerGDB prefixes commands with gdb.
	DebuggerGDB
	// DebuggerDevenv launches commands through Visual Studio.
	DebuggerDevenv
)

// String returns the string representation of DebuggerKind.
func (k DebuggerKind) String() string {
	switch k {
	case DebuggerNone:
		return "none"
	case DebuggerGDB:
		return "gdb"
	case DebuggerDevenv:
		return "devenv"
	default:
		return "unknown"
	}
}

// Debugger returns the debugger used on host.
func Debugger(host string) DebuggerKind {
	switch host {
	case Linux:
		return DebuggerGDB
	case Windows:
		return DebuggerDevenv
	default:
		return DebuggerNone
	}
}

// Wrap returns argv prefixed with the debugger launcher. argv is not modified.
func (k DebuggerKind) Wrap(argv []string) []string {
	var prefix []string
	switch k {
	case DebuggerGDB:
		prefix = []string{"gdb"}
	case DebuggerDevenv:
		prefix = []string{"devenv", "/debugexe"}
	default:
		return append([]string(nil), argv...)
	}
	out := make([]string, 0, len(prefix)+len(argv))
	out = append(out, prefix...)
	return append(out, argv...)
}
