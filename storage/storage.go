// Package storage stages uploaded documents until the ingestion worker
// forwards them to the document backend
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"nyayasetu-web/config"

	"github.com/google/uuid"
)

// Storage holds staged upload bodies
type Storage interface {
	// Put stores a file and returns its storage path
	Put(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Open retrieves a staged file by storage path
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a staged file. Missing files are not an error
	Delete(ctx context.Context, storagePath string) error
}

// Type names a storage backend
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// New creates the storage backend selected by cfg
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch Type(cfg.Type) {
	case TypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// stagingPath builds a unique, filesystem-safe key for a staged file
func stagingPath(fileID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_").Replace(base)

	id := fileID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, base, ext)
}
