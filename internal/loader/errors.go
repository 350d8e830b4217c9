package loader

import (
	"errors"
	"io/fs"
)

// ErrNoInput is returned when Load is called without any paths.
var ErrNoInput = errors.New("no log files given")

// FileNotFoundError reports a path, or a glob pattern with no matches, that
// does not exist on disk.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return "File not found: " + e.Path
}

// Unwrap lets callers test with errors.Is(err, fs.ErrNotExist).
func (e *FileNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}
