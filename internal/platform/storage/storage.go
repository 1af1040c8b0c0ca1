// Package storage provides the blob store the media operations write
// uploaded avatars to. Two implementations exist: a local-disk store for
// development and an S3-compatible store for deployments.
package storage

import "context"

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
