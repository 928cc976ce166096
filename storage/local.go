package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/leeforge/iconkit/errors"
)

// LocalProvider reads and writes files on the local filesystem. Relative
// paths resolve against basePath when it is set.
type LocalProvider struct {
	basePath string
	perm     os.FileMode
}

// NewLocalProvider creates a local provider rooted at basePath ("" for the
// working directory). Unlike an upload store it never creates directories:
// output parents must already exist.
func NewLocalProvider(basePath string) *LocalProvider {
	return &LocalProvider{
		basePath: basePath,
		perm:     0o644,
	}
}

func (p *LocalProvider) resolve(path string) string {
	if p.basePath == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.basePath, path)
}

// Open checks the file exists before opening it.
func (p *LocalProvider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewCanceled(err)
	}

	fullPath := p.resolve(path)
	isDir, exists, err := Exists(fullPath)
	if err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeDecodeFailure, fmt.Sprintf("cannot stat %s", path)).
			WithDetail("path", path)
	}
	if !exists {
		return nil, apperrors.NewNotFound("input", path)
	}
	if isDir {
		return nil, apperrors.NewInvalid("input", path, "is a directory")
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeDecodeFailure, fmt.Sprintf("cannot open %s", path)).
			WithDetail("path", path)
	}
	return f, nil
}

// Save writes r to path. The parent directory must exist. Data goes to a
// temporary file in the same directory that is renamed over path only once
// fully written, so a failed write leaves any existing file untouched.
func (p *LocalProvider) Save(ctx context.Context, path string, r io.Reader) (size int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.NewCanceled(err)
	}

	fullPath := p.resolve(path)
	dir := filepath.Dir(fullPath)
	isDir, exists, statErr := Exists(dir)
	if statErr != nil {
		return 0, apperrors.NewWriteFailure(path, statErr)
	}
	if !exists || !isDir {
		return 0, apperrors.NewWriteFailure(path, fmt.Errorf("directory %s does not exist", dir))
	}

	tmp, err := os.CreateTemp(dir, ".iconkit-*")
	if err != nil {
		return 0, apperrors.NewWriteFailure(path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	size, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, p.perm)
	}
	if err == nil {
		err = os.Rename(tmpPath, fullPath)
	}
	if err != nil {
		return size, apperrors.NewWriteFailure(path, err)
	}
	return size, nil
}

func (p *LocalProvider) Name() string {
	return "local"
}

var (
	_ Source = (*LocalProvider)(nil)
	_ Sink   = (*LocalProvider)(nil)
)
