package service

import (
	"context"
	"io"
)

// AssetStore persists binary image assets. Paths are built by pkg/keys and
// always carry the tenant username; the store itself is deliberately dumb and
// never invents a path on its own.
type AssetStore interface {
	Store(ctx context.Context, path string, file io.Reader) error
	Delete(ctx context.Context, path string) error
}
