// Package storage stores uploaded files and hands out URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted in StorageConfig.Backend
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

var (
	// ErrObjectNotFound is returned when a key does not exist
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for empty keys and keys escaping the store root
	ErrInvalidKey = errors.New("invalid storage key")
)

// ObjectStorage is a flat key/value file store
type ObjectStorage interface {
	// Put stores size bytes read from r under key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key; a missing key yields ErrObjectNotFound
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is stored
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns a URL the public site can fetch key from
	URL(ctx context.Context, key string) (string, error)
}

// New builds the backend selected by cfg.Backend
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendLocal:
		return NewLocalObjectStorage(cfg.LocalDir, cfg.PublicBaseURL)
	case BackendS3:
		s, err := NewS3ObjectStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// CleanKey normalizes key to a relative slash path and rejects keys that
// are empty or climb out of the store.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
