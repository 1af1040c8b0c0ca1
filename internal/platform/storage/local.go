package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type localBlobStore struct {
	root string
}

// NewLocalBlobStore stores blobs as plain files under root, creating the
// directory if needed. Keys are expected to be bare filenames; anything
// containing a path separator is rejected upstream.
func NewLocalBlobStore(root string) (BlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating root %s: %w", root, err)
	}
	return &localBlobStore{root: root}, nil
}

func (s *localBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := os.WriteFile(filepath.Join(s.root, key), data, 0o644); err != nil {
		return fmt.Errorf("storage: writing %s: %w", key, err)
	}
	return nil
}

func (s *localBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("storage: reading %s: %w", key, err)
	}
	return data, nil
}

func (s *localBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return true, nil
}
