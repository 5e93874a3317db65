// Package store registers artifacts into a content-addressed store.
package store

import (
	"context"
	"fmt"
)

// Store registers a file under its SHA-1 digest. Add must be idempotent.
type Store interface {
	Add(ctx context.Context, path, sha1 string) error
	Name() string
}

// Kinds of store backends
const (
	KindNix = "nix"
	KindDir = "dir"
)

// New returns the store backend named by kind
func New(kind, dir string) (Store, error) {
	switch kind {
	case KindNix, "":
		return NewNixStore(""), nil
	case KindDir:
		if dir == "" {
			return nil, fmt.Errorf("store %q needs a directory", kind)
		}
		return NewDirStore(dir), nil
	default:
		return nil, fmt.Errorf("unknown store %q (expected %s or %s)", kind, KindNix, KindDir)
	}
}
