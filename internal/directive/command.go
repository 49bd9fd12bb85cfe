package directive

import (
	"path/filepath"
	"strings"
)

// RunCommand is one RUN annotation after platform filtering, placeholder
// substitution and compiler resolution.
type RunCommand struct {
	// Argv is the argument vector; Argv[0] is the program.
	Argv []string

	// Line is the 1-based line of the annotation in the test file.
	Line uint32
}

// String renders the command the way it is shown in status lines and logs.
func (c RunCommand) String() string {
	return strings.Join(c.Argv, " ")
}

// Placeholders understood in RUN commands.
const (
	PlaceholderSource    = "%s" // absolute test file path
	PlaceholderPath      = "%p" // same as %s
	PlaceholderSourceDir = "%S" // directory of the test file
	PlaceholderTemp      = "%t" // fresh unique path under the temp dir, per occurrence
)

// substitute expands placeholders in a raw command. Every %t occurrence gets
// its own value from unique.
func substitute(cmd, testFile string, unique func() string) string {
	cmd = strings.TrimSpace(cmd)
	cmd = strings.ReplaceAll(cmd, PlaceholderSource, testFile)
	cmd = strings.ReplaceAll(cmd, PlaceholderPath, testFile)
	cmd = strings.ReplaceAll(cmd, PlaceholderSourceDir, filepath.Dir(testFile))

	parts := strings.Split(cmd, PlaceholderTemp)
	if len(parts) == 1 {
		return cmd
	}
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteString(unique())
		}
		b.WriteString(part)
	}
	return b.String()
}
