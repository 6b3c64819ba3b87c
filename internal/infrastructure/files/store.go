// Package files provides upload storage for document images.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"gims/internal/core/apperror"
	"gims/pkg/logger"
)

// allowedExtensions maps accepted upload extensions to served MIME types.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// MaxUploadSize caps uploads at 10 MiB.
const MaxUploadSize = 10 << 20

// Store saves uploads under a base directory with generated names.
// Stored paths are relative to the base directory so the directory can
// move between environments.
type Store struct {
	baseDir string
}

// NewStore creates a file store rooted at baseDir, creating it if
// missing.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes the upload and returns its stored relative path.
// The original filename only contributes its extension; the stored
// name is generated.
func (s *Store) Save(ctx context.Context, originalName string, size int64, r io.Reader) (string, error) {
	if size > MaxUploadSize {
		return "", apperror.NewValidation("file too large").
			WithDetail("maxBytes", MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperror.NewValidation("unsupported file type").
			WithDetail("extension", ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(s.baseDir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	// The reader is capped one byte past the limit so an oversized
	// stream is detected instead of silently truncated.
	written, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > MaxUploadSize {
		os.Remove(dst)
		return "", apperror.NewValidation("file too large").
			WithDetail("maxBytes", MaxUploadSize)
	}

	logger.Debug(ctx, "file stored", "name", name, "size", size)
	return name, nil
}

// Resolve maps a stored path to an absolute filesystem path and its
// MIME type. Rejects anything that escapes the base directory.
func (s *Store) Resolve(storedPath string) (string, string, error) {
	clean := filepath.Clean(storedPath)
	if clean != filepath.Base(clean) {
		return "", "", apperror.NewValidation("invalid file path").
			WithDetail("path", storedPath)
	}

	contentType, ok := allowedExtensions[strings.ToLower(filepath.Ext(clean))]
	if !ok {
		return "", "", apperror.NewValidation("unsupported file type").
			WithDetail("path", storedPath)
	}

	abs := filepath.Join(s.baseDir, clean)
	if _, err := os.Stat(abs); err != nil {
		return "", "", apperror.NewNotFound("file", storedPath)
	}
	return abs, contentType, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(ctx context.Context, storedPath string) error {
	abs, _, err := s.Resolve(storedPath)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	logger.Debug(ctx, "file removed", "path", storedPath)
	return nil
}
