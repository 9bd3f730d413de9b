package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
)

// StorageService saves uploaded files. When a GCS bucket is configured
// objects go there; otherwise files land in a local directory served by the
// app (dev mode).
type StorageService struct {
	client    *storage.Client
	bucket    string
	uploadDir string
}

// Global storage service instance
var Storage *StorageService

// InitStorage sets up the storage backend. A missing bucket name is not an
// error; the service falls back to local disk.
func InitStorage(bucket, uploadDir string) error {
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	if bucket == "" {
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			return fmt.Errorf("create upload dir: %w", err)
		}
		logger.L.Info("storage: using local directory", "dir", uploadDir)
		Storage = &StorageService{uploadDir: uploadDir}
		return nil
	}

	client, err := storage.NewClient(context.Background())
	if err != nil {
		logger.L.Warn("storage: gcs unavailable, falling back to local disk", "error", err)
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			return fmt.Errorf("create upload dir: %w", err)
		}
		Storage = &StorageService{uploadDir: uploadDir}
		return nil
	}

	logger.L.Info("storage: using gcs bucket", "bucket", bucket)
	Storage = &StorageService{client: client, bucket: bucket, uploadDir: uploadDir}
	return nil
}

// Save writes the file under the given key and returns a URL the client can
// fetch it from
func (s *StorageService) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	if s.client != nil {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
		if _, err := io.Copy(w, r); err != nil {
			w.Close()
			return "", fmt.Errorf("write object %s: %w", key, err)
		}
		if err := w.Close(); err != nil {
			return "", fmt.Errorf("close object %s: %w", key, err)
		}
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
	}

	dst := filepath.Join(s.uploadDir, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", key, err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return "/" + filepath.ToSlash(dst), nil
}

// Delete removes a stored object. Missing objects are not an error.
func (s *StorageService) Delete(ctx context.Context, key string) error {
	if s.client != nil {
		err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
		if err != nil && err != storage.ErrObjectNotExist {
			return fmt.Errorf("delete object %s: %w", key, err)
		}
		return nil
	}

	err := os.Remove(filepath.Join(s.uploadDir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
