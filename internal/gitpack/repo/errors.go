package repo

import "fmt"

// ErrNotADirectory is returned by Insert when a path segment already
// names a blob: a file can never be silently demoted into a directory.
type ErrNotADirectory struct {
	Segment string
}

func (e *ErrNotADirectory) Error() string {
	return fmt.Sprintf("repo: path segment %q is a file, not a directory", e.Segment)
}

// IsErrNotADirectory reports whether err is an *ErrNotADirectory.
func IsErrNotADirectory(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrNotADirectory)
	return ok
}
