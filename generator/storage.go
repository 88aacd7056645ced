package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Storage is the long-term storage backend beneath a Tree.
//
// Paths are project-relative and slash-separated. ReadText returns an error
// satisfying errors.Is(err, fs.ErrNotExist) when path is absent. WriteText
// creates parent directories as needed. DeleteFile of an absent path is a no-op.
type Storage interface {
	Exists(path string) (bool, error)
	ReadText(path string) (string, error)
	WriteText(path, text string) error
	DeleteFile(path string) error
}

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// FSStorage implements Storage on an afero filesystem rooted at a base directory.
// The root is enforced by afero.BasePathFs, so no call can reach outside it.
type FSStorage struct {
	fs afero.Fs
}

// NewFSStorage roots fsys at base.
func NewFSStorage(fsys afero.Fs, base string) *FSStorage {
	return &FSStorage{fs: afero.NewBasePathFs(fsys, base)}
}

// NewOSStorage returns storage over the real filesystem rooted at base.
func NewOSStorage(base string) *FSStorage {
	return NewFSStorage(afero.NewOsFs(), base)
}

func (s *FSStorage) Exists(path string) (bool, error) {
	ok, err := afero.Exists(s.fs, filepath.FromSlash(path))
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return ok, nil
}

func (s *FSStorage) ReadText(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, filepath.FromSlash(path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// WriteText writes through a temp file in the target directory and renames it
// into place, so a failed write never leaves a truncated file behind.
func (s *FSStorage) WriteText(path, text string) error {
	name := filepath.FromSlash(path)
	dir := filepath.Dir(name)

	if err := s.fs.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	mode := fs.FileMode(defaultFileMode)
	if info, err := s.fs.Stat(name); err == nil {
		if info.IsDir() {
			return fmt.Errorf("cannot write %s: is a directory", path)
		}
		mode = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(s.fs, dir, ".theo-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(text); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := s.fs.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	committed = true
	return nil
}

func (s *FSStorage) DeleteFile(path string) error {
	if err := s.fs.Remove(filepath.FromSlash(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

// Glob returns the files under the root matching a doublestar pattern.
func (s *FSStorage) Glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(afero.NewIOFS(s.fs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	return matches, nil
}
