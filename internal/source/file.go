package source

import (
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// Load reads a file from disk, normalizes CRLF/BOM, and builds its line index.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return newFile(path, content, flags)
}

// NewVirtual builds a File from in-memory content. Content is used verbatim.
func NewVirtual(name string, content []byte) (*File, error) {
	return newFile(name, content, FileVirtual)
}

func newFile(path string, content []byte, flags FileFlags) (*File, error) {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return nil, fmt.Errorf("%s: file too large: %w", path, err)
	}
	return &File{
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	}, nil
}

// Text returns the content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// LineOf returns the 1-based line containing byte offset off: one plus the
// number of newlines strictly before off. Offsets past the end resolve to the
// last line.
func (f *File) LineOf(off int) uint32 {
	if off <= 0 {
		return 1
	}
	o, err := safecast.Conv[uint32](off)
	if err != nil {
		o = ^uint32(0)
	}
	before := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= o })
	line, err := safecast.Conv[uint32](before + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return line
}
