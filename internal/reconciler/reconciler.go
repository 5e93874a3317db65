// Package reconciler walks a populated local artifact cache and recovers, for
// every tracked artifact, its on-disk file, source repository and SHA-1.
package reconciler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/scanner"
	"github.com/ralt/mvnlock/internal/store"
	"github.com/ralt/mvnlock/internal/utils"
	"github.com/sirupsen/logrus"
)

// Reconciler turns marker files under a cache root into tracked artifacts
type Reconciler struct {
	scanner scanner.Scanner
	store   store.Store

	// NoAdd disables registration of artifacts into the store
	NoAdd bool
	// Verify recomputes each artifact's SHA-1 and compares it to the digest file
	Verify bool
	// Jobs bounds parallel store registration
	Jobs int
}

// New creates a reconciler. st may be nil when NoAdd is set.
func New(sc scanner.Scanner, st store.Store) *Reconciler {
	return &Reconciler{
		scanner: sc,
		store:   st,
		Jobs:    1,
	}
}

// Reconcile returns the tracked artifacts of the cache rooted at root, in
// marker path order and marker line order, and registers them in the store.
func (r *Reconciler) Reconcile(ctx context.Context, root string) ([]models.TrackedArtifact, error) {
	markers, err := r.scanner.Scan(ctx, root, scanner.HasSuffix(MarkerSuffix))
	if err != nil {
		return nil, &models.LockError{
			Type: models.ErrFileOp,
			Path: root,
			Err:  err,
		}
	}

	logrus.Infof("Found %d repository marker files", len(markers))

	var artifacts []models.TrackedArtifact
	for _, marker := range markers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		found, err := r.reconcileMarker(root, marker)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, found...)
	}

	logrus.Infof("Tracked %d artifacts", len(artifacts))

	if r.NoAdd {
		return artifacts, nil
	}
	if r.store == nil {
		return nil, models.NewError(models.ErrInvalidConfig, "", "no store configured for artifact registration")
	}

	if err := store.RegisterAll(ctx, r.store, root, artifacts, r.Jobs); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (r *Reconciler) reconcileMarker(root string, marker scanner.ScannedFile) ([]models.TrackedArtifact, error) {
	f, err := os.Open(marker.Path)
	if err != nil {
		logrus.Warnf("Skipping unreadable marker %s: %v", marker.RelPath, err)
		return nil, nil
	}
	index, err := ParseMarker(f)
	f.Close()
	if err != nil {
		logrus.Warnf("Skipping unreadable marker %s: %v", marker.RelPath, err)
		return nil, nil
	}

	dir := filepath.Dir(marker.Path)
	listing, err := listArtifacts(dir)
	if err != nil {
		return nil, &models.LockError{
			Type: models.ErrFileOp,
			Path: dir,
			Err:  fmt.Errorf("failed to list directory: %w", err),
		}
	}

	var artifacts []models.TrackedArtifact
	for _, entry := range index.Entries {
		if entry.Repository == "" {
			logrus.Debugf("Skipping %s: no remote repository recorded", entry.Filename)
			continue
		}
		if isBookkeeping(entry.Filename) {
			continue
		}

		name, found, err := ResolveRealName(entry.Filename, listing)
		if err != nil {
			return nil, &models.LockError{
				Type: models.ErrUnresolvedSnapshot,
				Path: marker.RelPath,
				Err:  err,
			}
		}
		if !found {
			logrus.Warnf("Skipping %s listed in %s: file not on disk", entry.Filename, marker.RelPath)
			continue
		}
		if name != entry.Filename {
			logrus.Debugf("Resolved snapshot %s -> %s", entry.Filename, name)
		}

		artifact, err := r.track(root, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		artifact.Repository = entry.Repository
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

func (r *Reconciler) track(root, path string) (models.TrackedArtifact, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return models.TrackedArtifact{}, &models.LockError{Type: models.ErrFileOp, Path: path, Err: err}
	}
	rel = filepath.ToSlash(rel)

	digest, ok, err := ReadDigest(path)
	if err != nil {
		return models.TrackedArtifact{}, &models.LockError{
			Type: models.ErrMissingDigest,
			Path: rel,
			Err:  fmt.Errorf("cannot read digest file: %w", err),
		}
	}
	if !ok {
		return models.TrackedArtifact{}, models.NewError(models.ErrMissingDigest, rel, "digest file holds no SHA-1")
	}

	if r.Verify {
		sum, err := utils.CalculateSHA1(path)
		if err != nil {
			return models.TrackedArtifact{}, &models.LockError{Type: models.ErrFileOp, Path: rel, Err: err}
		}
		if sum != digest {
			return models.TrackedArtifact{}, models.NewError(models.ErrDigestMismatch, rel, "recorded %s, computed %s", digest, sum)
		}
	}

	return models.TrackedArtifact{Path: rel, SHA1: digest}, nil
}

// listArtifacts returns the sorted regular file names in dir, excluding marker and digest files
func listArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || isBookkeeping(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isBookkeeping(name string) bool {
	return strings.HasSuffix(name, MarkerSuffix) || strings.HasSuffix(name, DigestSuffix)
}
