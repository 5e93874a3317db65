package store

import (
	"context"
	"path/filepath"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RegisterAll adds every artifact below root to st with at most jobs
// concurrent calls. Artifacts sharing a digest are added once. The artifact
// slice is not modified, so its order is unaffected by completion order.
func RegisterAll(ctx context.Context, st Store, root string, artifacts []models.TrackedArtifact, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}

	seen := make(map[string]bool, len(artifacts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, artifact := range artifacts {
		if seen[artifact.SHA1] {
			continue
		}
		seen[artifact.SHA1] = true

		g.Go(func() error {
			path := filepath.Join(root, filepath.FromSlash(artifact.Path))
			if err := st.Add(ctx, path, artifact.SHA1); err != nil {
				return &models.LockError{
					Type: models.ErrStoreAdd,
					Path: artifact.Path,
					Err:  err,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logrus.Infof("Registered %d artifacts in %s store", len(seen), st.Name())
	return nil
}
