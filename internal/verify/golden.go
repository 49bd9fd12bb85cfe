package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"peonytest/internal/source"
)

// GoldenPath returns the file holding the recorded stderr of command idx:
// `<stem>.<idx>.stderr`, next to the test file.
func GoldenPath(testFile string, idx int) string {
	stem := strings.TrimSuffix(filepath.Base(testFile), filepath.Ext(testFile))
	return filepath.Join(filepath.Dir(testFile), stem+"."+strconv.Itoa(idx)+".stderr")
}

// loadGolden returns the recorded stderr, or "" when nothing was recorded.
func loadGolden(path string) (string, error) {
	// #nosec G304 -- path is derived from the test file location
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read golden file: %w", err)
	}
	return source.NormalizeNewlines(string(content)), nil
}

// storeGolden replaces the golden file atomically.
func storeGolden(path, content string) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".golden-*")
	if err != nil {
		return fmt.Errorf("failed to create golden file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		// Already renamed on success; only a leftover temp file is removed.
		_ = os.Remove(tmp)
	}()

	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
