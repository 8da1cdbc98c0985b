package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound means no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Object is a read handle plus the exact byte length. Body streams straight
// from the backing store; callers must Close it even on partial reads.
type Object struct {
	Body io.ReadCloser
	Size int64
}

// Store is the read-only view of the media store. Keys are hierarchical,
// tenant-first: {tenant}/{hls|originals|thumbs}/..., populated out-of-band
// by the upload pipeline and never written by the gateway.
type Store interface {
	Get(ctx context.Context, key string) (Object, error)
}
