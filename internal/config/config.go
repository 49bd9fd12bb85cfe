// Package config loads peonytest.toml and locates the compiler under test.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file looked up from the test
// file directory upwards.
const FileName = "peonytest.toml"

// Default values used when neither flags nor the configuration file set them.
const (
	DefaultCompilerName = "peony"
	DefaultTimeout      = 5 * time.Second
	DefaultMatch        = "positional"
)

// DefaultSearch lists the build directories probed for the compiler,
// relative to the repository root, in order.
var DefaultSearch = []string{
	"out/build/x86-debug",
	"out/build/x86-release",
	"out/build/x64-debug",
	"out/build/x64-release",
}

// Duration is a time.Duration written as a Go duration string ("5s") or a
// number of seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseTimeout(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// ParseTimeout accepts "1.5" (seconds) or a Go duration ("1500ms").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty timeout")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	d, err := time.ParseDuration(s + "s")
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return d, nil
}

type fileConfig struct {
	Compiler compilerSection `toml:"compiler"`
	Run      runSection      `toml:"run"`
}

type compilerSection struct {
	Name   string   `toml:"name"`
	Exe    string   `toml:"exe"`
	Search []string `toml:"search"`
}

type runSection struct {
	Timeout Duration `toml:"timeout"`
	TmpDir  string   `toml:"tmp_dir"`
	Match   string   `toml:"match"`
}

// Config is the resolved configuration. Paths are absolute.
type Config struct {
	// Path is the configuration file, empty when none was found.
	Path string

	CompilerName string
	CompilerExe  string
	Search       []string
	Timeout      time.Duration
	TmpDir       string
	Match        string
}

// Default returns the configuration used without a configuration file.
func Default() *Config {
	return &Config{
		CompilerName: DefaultCompilerName,
		Search:       append([]string(nil), DefaultSearch...),
		Timeout:      DefaultTimeout,
		Match:        DefaultMatch,
	}
}

// Find looks for FileName in startDir and its ancestors.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration governing startDir. Without a
// configuration file it returns Default().
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path. Relative paths inside the file are resolved against its
// directory; unset keys keep their defaults.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	var fc fileConfig
	meta, err := toml.DecodeFile(abs, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", abs, undecoded[0].String())
	}

	cfg := Default()
	cfg.Path = abs
	root := filepath.Dir(abs)

	if meta.IsDefined("compiler", "name") {
		if strings.TrimSpace(fc.Compiler.Name) == "" {
			return nil, fmt.Errorf("%s: [compiler].name is empty", abs)
		}
		cfg.CompilerName = strings.TrimSpace(fc.Compiler.Name)
	}
	if fc.Compiler.Exe != "" {
		cfg.CompilerExe = resolve(root, fc.Compiler.Exe)
	}
	if meta.IsDefined("compiler", "search") {
		cfg.Search = fc.Compiler.Search
	}
	if meta.IsDefined("run", "timeout") {
		cfg.Timeout = fc.Run.Timeout.Duration
	}
	if fc.Run.TmpDir != "" {
		cfg.TmpDir = resolve(root, fc.Run.TmpDir)
	}
	if meta.IsDefined("run", "match") {
		cfg.Match = fc.Run.Match
	}
	return cfg, nil
}

func resolve(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
