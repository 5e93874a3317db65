package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/mvnlock/internal/utils"
	"github.com/sirupsen/logrus"
)

// DirStore keeps artifacts in a local directory laid out as sha1/<xx>/<digest>
type DirStore struct {
	root string
}

// NewDirStore creates a directory-backed store rooted at root
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Name returns the backend name
func (s *DirStore) Name() string {
	return KindDir
}

// PathFor returns where an artifact with the given digest is stored
func (s *DirStore) PathFor(sha1 string) string {
	shard := sha1
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.root, "sha1", shard, sha1)
}

// Add copies path into the store unless an entry for sha1 already exists
func (s *DirStore) Add(ctx context.Context, path, sha1 string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sha1) != 40 {
		return fmt.Errorf("invalid sha1 %q for %s", sha1, path)
	}

	dst := s.PathFor(sha1)
	if _, err := os.Stat(dst); err == nil {
		logrus.Debugf("Store already holds %s", sha1)
		return nil
	}

	if err := utils.CopyFile(path, dst); err != nil {
		return fmt.Errorf("failed to copy %s into store: %w", path, err)
	}
	return nil
}
