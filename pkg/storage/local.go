package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ObjectStore abstracts S3-compatible and local disk storage
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// LocalStore stores objects on the local filesystem. Used in development
// when no S3-compatible storage is configured.
type LocalStore struct {
	rootDir string
	baseURL string // e.g. http://localhost:8080/uploads
}

// NewLocalStore creates a filesystem-backed object store
func NewLocalStore(rootDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes the object under rootDir
func (s *LocalStore) Upload(_ context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	path := filepath.Join(s.rootDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, body)
	if err != nil {
		return nil, fmt.Errorf("write object: %w", err)
	}
	if size > 0 && written != size {
		return nil, fmt.Errorf("short write: got %d bytes, expected %d", written, size)
	}

	return &UploadResult{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		ContentType: contentType,
		Size:        written,
	}, nil
}

// Delete removes the object file
func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.rootDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetPresignedURL returns the public URL; local files need no signing
func (s *LocalStore) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return s.baseURL + "/" + key, nil
}
