// Package blobstore keeps small keyed JSON blobs, the server-side counterpart
// of a browser's local storage. Every write replaces the whole value.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no value is stored under the key.
var ErrNotFound = errors.New("blob not found")

// Store is a durable key/value store for whole-document blobs.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
