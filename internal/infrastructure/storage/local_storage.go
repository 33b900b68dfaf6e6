package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// LocalObjectStorage keeps files under a directory that the HTTP server
// exposes at baseURL.
type LocalObjectStorage struct {
	fs      afero.Fs
	baseURL string
}

// NewLocalObjectStorage roots the store at dir, creating it if needed
func NewLocalObjectStorage(dir, baseURL string) (*LocalObjectStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return NewLocalObjectStorageFs(afero.NewBasePathFs(afero.NewOsFs(), dir), baseURL), nil
}

// NewLocalObjectStorageFs wraps an existing filesystem; tests pass an
// in-memory one.
func NewLocalObjectStorageFs(fs afero.Fs, baseURL string) *LocalObjectStorage {
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalObjectStorage{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put writes the object to a temporary file and renames it into place
func (s *LocalObjectStorage) Put(_ context.Context, key string, r io.Reader, size int64, _ string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp := key + ".part"
	if size >= 0 {
		r = io.LimitReader(r, size)
	}
	if err := afero.WriteReader(s.fs, tmp, r); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := s.fs.Rename(tmp, key); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

// Delete removes the object
func (s *LocalObjectStorage) Delete(_ context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether the object is stored
func (s *LocalObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	key, err := CleanKey(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, key)
}

// URL joins the public base URL and the key
func (s *LocalObjectStorage) URL(_ context.Context, key string) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

var _ ObjectStorage = (*LocalObjectStorage)(nil)
