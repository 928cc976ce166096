package storage

import (
	"context"
	"io"
	"os"
)

// Source opens image inputs.
type Source interface {
	// Open returns a reader for path. A missing path is a not_found error,
	// reported before anything is read.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Name() string
}

// Sink persists encoded outputs.
type Sink interface {
	// Save writes everything from r to path and returns the byte count.
	Save(ctx context.Context, path string, r io.Reader) (int64, error)
	Name() string
}

// Exists reports whether path exists and whether it is a directory.
func Exists(path string) (isDir bool, exists bool, err error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return info.IsDir(), true, nil
}
