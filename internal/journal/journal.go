// Package journal keeps a short on-disk history of runs per test file.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"peonytest/internal/observ"
)

// Current schema version - increment when the History format changes.
const schemaVersion uint16 = 1

// MaxEntries is the number of runs kept per test file.
const MaxEntries = 20

// Journal stores run histories under a cache directory. Thread-safe.
type Journal struct {
	mu  sync.RWMutex
	dir string
}

// CommandEntry is the recorded verdict of one RUN command.
type CommandEntry struct {
	Index   int    `msgpack:"index"`
	Command string `msgpack:"command"`
	Status  string `msgpack:"status"`
	Log     string `msgpack:"log,omitempty"`
}

// Entry is one invocation of the driver on a test file.
type Entry struct {
	RunID    string         `msgpack:"run_id"`
	Started  time.Time      `msgpack:"started"`
	Record   bool           `msgpack:"record"`
	Failed   bool           `msgpack:"failed"`
	Commands []CommandEntry `msgpack:"commands"`
	Timings  observ.Report  `msgpack:"timings"`
}

// History is every kept entry for one test file, oldest first.
type History struct {
	Schema  uint16  `msgpack:"schema"`
	File    string  `msgpack:"file"`
	Entries []Entry `msgpack:"entries"`
}

// Open returns the journal at $XDG_CACHE_HOME/<app>/runs (or ~/.cache).
func Open(app string) (*Journal, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app, "runs"))
}

// OpenDir returns a journal rooted at dir, creating it when missing.
func OpenDir(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}
	return &Journal{dir: dir}, nil
}

func (j *Journal) pathFor(testFile string) string {
	sum := sha256.Sum256([]byte(testFile))
	return filepath.Join(j.dir, hex.EncodeToString(sum[:])+".mp")
}

// Append adds entry to the history of testFile, dropping the oldest entries
// beyond MaxEntries.
func (j *Journal) Append(testFile string, entry Entry) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	h, _, err := j.read(testFile)
	if err != nil {
		// An unreadable history is replaced rather than blocking the run.
		h = &History{}
	}
	h.Schema = schemaVersion
	h.File = testFile
	h.Entries = append(h.Entries, entry)
	if extra := len(h.Entries) - MaxEntries; extra > 0 {
		h.Entries = h.Entries[extra:]
	}
	return j.write(testFile, h)
}

// Load returns the history of testFile. ok is false when nothing was
// recorded or the schema is outdated.
func (j *Journal) Load(testFile string) (*History, bool, error) {
	if j == nil {
		return nil, false, nil
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.read(testFile)
}

func (j *Journal) read(testFile string) (*History, bool, error) {
	f, err := os.Open(j.pathFor(testFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var h History
	if err := msgpack.NewDecoder(f).Decode(&h); err != nil {
		return nil, false, fmt.Errorf("failed to decode journal: %w", err)
	}
	if h.Schema != schemaVersion {
		return &History{}, false, nil
	}
	return &h, true, nil
}

func (j *Journal) write(testFile string, h *History) error {
	p := j.pathFor(testFile)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(h); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}
