package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/domain/claim"
)

// UploadPolicy constrains supporting-document uploads
type UploadPolicy struct {
	MaxSizeBytes int64
	AllowedTypes map[string]string // extension -> media type
}

// DefaultUploadPolicy allows the standard document and image types up to 5 MB
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxSizeBytes: 5 * 1024 * 1024,
		AllowedTypes: map[string]string{
			".pdf":  "application/pdf",
			".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".png":  "image/png",
		},
	}
}

// Check validates a filename and size against the policy without touching disk
func (p UploadPolicy) Check(originalName string, sizeBytes int64) (mediaType string, err error) {
	if sizeBytes > p.MaxSizeBytes {
		return "", fmt.Errorf("%w: file is %d bytes, limit is %d", claim.ErrStorageRejected, sizeBytes, p.MaxSizeBytes)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	mediaType, ok := p.AllowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: file type %q is not allowed", claim.ErrStorageRejected, ext)
	}
	return mediaType, nil
}

// LocalDocumentStore implements port.DocumentStore on the local filesystem
type LocalDocumentStore struct {
	baseDir string
	policy  UploadPolicy
	logger  *zap.Logger
}

// NewLocalDocumentStore creates a store rooted at baseDir
func NewLocalDocumentStore(baseDir string, policy UploadPolicy, logger *zap.Logger) *LocalDocumentStore {
	return &LocalDocumentStore{baseDir: baseDir, policy: policy, logger: logger}
}

// Save validates the upload against the policy and writes it under a unique
// generated filename inside the base directory.
func (s *LocalDocumentStore) Save(ctx context.Context, originalName string, content []byte) (*claim.Document, error) {
	mediaType, err := s.policy.Check(originalName, int64(len(content)))
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(originalName))
	fullPath := filepath.Join(s.baseDir, name)

	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		s.logger.Error("Failed to create upload directory", zap.String("dir", s.baseDir), zap.Error(err))
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write document", zap.String("path", fullPath), zap.Error(err))
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	s.logger.Debug("Document saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)),
		zap.String("media_type", mediaType))

	return &claim.Document{
		Path:      fullPath,
		SizeBytes: int64(len(content)),
		MediaType: mediaType,
	}, nil
}

// validatePath rejects paths that resolve outside the base directory
func (s *LocalDocumentStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("%w: path escapes upload directory", claim.ErrStorageRejected)
	}
	return nil
}

var _ port.DocumentStore = (*LocalDocumentStore)(nil)
