package directive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"peonytest/internal/source"
)

// CommonArgsFile holds compiler arguments shared by every test below the
// directory it lives in, one argument per line.
const CommonArgsFile = "test_common.args"

// CommonArgs collects the contents of every CommonArgsFile between dir and
// the filesystem root, root-most first. The filesystem root itself is not
// consulted. Blank lines are skipped and each line is one argument.
func CommonArgs(dir string) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	var found []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		candidate := filepath.Join(dir, CommonArgsFile)
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		dir = parent
	}
	slices.Reverse(found)

	var args []string
	for _, path := range found {
		// #nosec G304 -- path is built from the test file location
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		for _, line := range strings.Split(source.NormalizeNewlines(string(content)), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				args = append(args, line)
			}
		}
	}
	return args, nil
}
