// Package fsutil provides the file system primitives behind plainedit:
// reads with change-detection metadata, atomic writes, and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")
)

// FileInfo records the state of a file when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [32]byte
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}

// ReadFile reads path and returns its content with the metadata needed to
// detect later modification.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) (bool, error) {
	stat, err := os.Stat(path)
	switch {
	case err == nil:
		return !stat.IsDir(), nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, classify(path, err)
	}
}

// CheckModified reports whether the file changed since info was taken.
// A deleted file counts as modified. Size and modification time are
// compared first; the content hash settles the rest.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, classify(info.Path, err)
	}
	if stat.Size() != info.Size || !stat.ModTime().Equal(info.ModTime) {
		return true, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, classify(info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}
