package directive

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every Error. A malformed test file is not a test
// failure: the file cannot be run at all.
var ErrMalformed = errors.New("malformed test file")

// Error reports an unusable annotation. Line is 1-based; 0 means the problem
// concerns the file as a whole.
type Error struct {
	Path string
	Line uint32
	Msg  string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

func (e *Error) Unwrap() error { return ErrMalformed }

func malformed(path string, line uint32, format string, args ...any) *Error {
	return &Error{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
}
