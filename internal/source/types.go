package source

// FileFlags encodes metadata about a loaded test file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures the content of one test file plus a newline index used to
// turn byte offsets into line numbers.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Flags   FileFlags
}
