package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"peonytest/internal/platform"
)

// RepoRoot returns the work tree root of the git repository containing dir.
// Outside a repository it falls back to dir itself, or to its parent when dir
// is named "test".
func RepoRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	switch {
	case err == nil:
		wt, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("failed to open work tree: %w", err)
		}
		return wt.Filesystem.Root(), nil
	case errors.Is(err, git.ErrRepositoryNotExists):
		if filepath.Base(abs) == "test" {
			return filepath.Dir(abs), nil
		}
		return abs, nil
	default:
		return "", fmt.Errorf("failed to open repository at %s: %w", abs, err)
	}
}

// FindCompiler probes root/<search[i]>/<name><exe suffix> in order and
// returns the first regular file found.
func FindCompiler(root, name string, search []string, host string) (string, bool) {
	exe := name + platform.ExeSuffix(host)
	for _, dir := range search {
		candidate := filepath.Join(root, filepath.FromSlash(dir), exe)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// ResolveCompiler returns the configured executable, or the first compiler
// found under the repository root of cwd. An empty result means the RUN
// token is used as-is and resolved through PATH.
func (c *Config) ResolveCompiler(cwd, host string) (string, error) {
	if c.CompilerExe != "" {
		return c.CompilerExe, nil
	}
	root, err := RepoRoot(cwd)
	if err != nil {
		return "", err
	}
	if exe, ok := FindCompiler(root, c.CompilerName, c.Search, host); ok {
		return exe, nil
	}
	return "", nil
}
