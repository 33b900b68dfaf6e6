// Package upload stores files for the public site and hands back their URLs.
package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Upload error codes
const (
	CodeFileTooLarge          = "FILE_TOO_LARGE"
	CodeDisallowedContentType = "DISALLOWED_CONTENT_TYPE"
	CodeContentTypeMismatch   = "CONTENT_TYPE_MISMATCH"
)

// sniffLen is how many bytes http.DetectContentType looks at
const sniffLen = 512

// Input describes one uploaded file
type Input struct {
	Filename    string
	ContentType string // as declared by the client, may be empty
	Size        int64
	Body        io.Reader
}

// Result is returned after a successful upload
type Result struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Service validates uploads and writes them to object storage
type Service struct {
	store        storage.ObjectStorage
	maxSize      int64
	allowedTypes map[string]bool
	now          func() time.Time
	logger       *zap.Logger
}

// NewService creates an upload service limited by cfg
func NewService(store storage.ObjectStorage, cfg config.StorageConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &Service{
		store:        store,
		maxSize:      cfg.MaxUploadSize,
		allowedTypes: allowed,
		now:          time.Now,
		logger:       logger,
	}
}

// MaxSize returns the configured upload limit in bytes
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload checks size and content type, then stores the file under a fresh key
func (s *Service) Upload(ctx context.Context, in Input) (*Result, error) {
	if in.Body == nil || in.Size == 0 {
		return nil, shared.InvalidInput("file is empty")
	}
	if s.maxSize > 0 && in.Size > s.maxSize {
		return nil, shared.NewDomainError(CodeFileTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.maxSize))
	}

	br := bufio.NewReaderSize(in.Body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	contentType, err := s.resolveContentType(in.ContentType, in.Filename, head)
	if err != nil {
		return nil, err
	}

	key := s.generateKey(in.Filename)
	if err := s.store.Put(ctx, key, br, in.Size, contentType); err != nil {
		s.logger.Error("Failed to store upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	url, err := s.store.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	s.logger.Info("File uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("size", in.Size))

	return &Result{Key: key, URL: url, Size: in.Size, ContentType: contentType}, nil
}

// Delete removes a stored file
func (s *Service) Delete(ctx context.Context, key string) error {
	err := s.store.Delete(ctx, key)
	switch {
	case err == nil:
		s.logger.Info("File deleted", zap.String("key", key))
		return nil
	case errors.Is(err, storage.ErrObjectNotFound):
		return shared.NotFound("file")
	case errors.Is(err, storage.ErrInvalidKey):
		return shared.InvalidInput("invalid file key")
	default:
		return err
	}
}

// resolveContentType trusts the sniffed type over the declared one. Text
// formats such as CSV sniff as text/plain, so for those the declared or
// extension-derived type is kept when it is still textual.
func (s *Service) resolveContentType(declared, filename string, head []byte) (string, error) {
	sniffed := baseType(http.DetectContentType(head))
	claimed := baseType(declared)
	if claimed == "" || claimed == "application/octet-stream" {
		claimed = baseType(mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))))
	}

	contentType := sniffed
	if strings.HasPrefix(sniffed, "text/") && strings.HasPrefix(claimed, "text/") {
		contentType = claimed
	}
	if !s.allowedTypes[contentType] {
		return "", shared.NewDomainError(CodeDisallowedContentType,
			fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if claimed != "" && claimed != contentType && !strings.HasPrefix(claimed, "text/") {
		return "", shared.NewDomainError(CodeContentTypeMismatch,
			fmt.Sprintf("file content is %q but was declared as %q", contentType, claimed))
	}
	return contentType, nil
}

// generateKey lays files out as uploads/{yyyy}/{mm}/{uuid}{ext}
func (s *Service) generateKey(filename string) string {
	now := s.now().UTC()
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, " /\\") {
		ext = ""
	}
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), ext)
}

func baseType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(mediaType)
}
