package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dms/backend/internal/domain/document"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a stored document does not exist
var ErrObjectNotFound = errors.New("stored document not found")

// DocumentStorage keeps generated PDFs under opaque keys
type DocumentStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// BuildKey lays out stored documents as {kind}/{yyyy}/{mm}/{code}-{id}.pdf
func BuildKey(kind document.Kind, code string, id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%s-%s.pdf", kind, at.Year(), int(at.Month()), document.SafeCode(code), id)
}

// FileSystemStorage stores PDFs below a base directory
type FileSystemStorage struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemStorage creates the base directory if needed
func NewFileSystemStorage(basePath string, logger *zap.Logger) (*FileSystemStorage, error) {
	if basePath == "" {
		basePath = "./data/documents"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", basePath), err)
	}
	return &FileSystemStorage{basePath: basePath, logger: logger.Named("fs_storage")}, nil
}

// Put writes the document atomically through a temp file
func (s *FileSystemStorage) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if len(data) == 0 {
		return NewRenderError(ErrCodeStorageFailed, "document is empty", nil)
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}

	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "failed to write document", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return NewRenderError(ErrCodeStorageFailed, "failed to move document into place", err)
	}

	s.logger.Debug("document stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Open returns a reader over the stored document
func (s *FileSystemStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeNotFound, "document not found", ErrObjectNotFound)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open document", err)
	}
	return f, nil
}

// Delete removes a stored document; a missing file is not an error
func (s *FileSystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete document", err)
	}
	return nil
}

// resolve maps a key to a path that stays inside the base directory
func (s *FileSystemStorage) resolve(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) || containsDotDot(key) {
		s.logger.Warn("blocked invalid storage key", zap.String("key", key))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid storage key", nil)
	}
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(filepath.Join(absBase, filepath.FromSlash(key)))
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve document path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked", zap.String("key", key))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid storage key", nil)
	}
	return absPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}

var _ DocumentStorage = (*FileSystemStorage)(nil)
