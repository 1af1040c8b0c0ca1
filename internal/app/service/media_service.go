package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"blog_api/internal/common"
	"blog_api/internal/platform/storage"

	"github.com/gosimple/slug"
)

// Sniffed MIME types accepted for avatar uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type MediaService struct {
	blobs storage.BlobStore
}

func NewMediaService(blobs storage.BlobStore) *MediaService {
	return &MediaService{blobs: blobs}
}

// Upload validates the bytes against the image allow-list and writes them
// under a generated collision-resistant name: a unix timestamp prefix plus
// the slugged original name. Nothing is written when validation fails.
func (s *MediaService) Upload(ctx context.Context, originalName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &common.ValidationError{Fields: map[string]string{
			"file0": "this field is required",
		}}
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", &common.ValidationError{Fields: map[string]string{
			"file0": "must be a jpeg, png or gif image",
		}}
	}

	filename := generateFilename(originalName)
	if err := s.blobs.Put(ctx, filename, data, contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return filename, nil
}

// GetImage returns the raw bytes and content type for a stored avatar.
func (s *MediaService) GetImage(ctx context.Context, filename string) ([]byte, string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return nil, "", common.ErrNotFound
	}

	exists, err := s.blobs.Exists(ctx, filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check image existence: %w", err)
	}
	if !exists {
		return nil, "", common.ErrNotFound
	}

	data, err := s.blobs.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", common.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

func generateFilename(originalName string) string {
	base := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "image"
	}
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), stem, ext)
}
