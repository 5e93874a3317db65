// Package metadata collects remote repository metadata documents from a cache.
package metadata

import (
	"context"
	"os"
	"path"
	"regexp"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/scanner"
	"github.com/sirupsen/logrus"
)

// DefaultLocalRepoID is the id the build tool uses for its local pseudo-repository
const DefaultLocalRepoID = "local"

var metadataName = regexp.MustCompile(`^maven-metadata-(.*)\.xml$`)

// RepositoryID extracts <id> from a maven-metadata-<id>.xml file name
func RepositoryID(name string) (string, bool) {
	m := metadataName.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Aggregator gathers metadata documents under a cache root
type Aggregator struct {
	scanner     scanner.Scanner
	localRepoID string
}

// NewAggregator creates an aggregator that skips documents of localRepoID
func NewAggregator(sc scanner.Scanner, localRepoID string) *Aggregator {
	if localRepoID == "" {
		localRepoID = DefaultLocalRepoID
	}
	return &Aggregator{scanner: sc, localRepoID: localRepoID}
}

// Collect returns every remote metadata document under root, sorted by path
func (a *Aggregator) Collect(ctx context.Context, root string) ([]models.MetadataDocument, error) {
	files, err := a.scanner.Scan(ctx, root, func(name string) bool {
		_, ok := RepositoryID(name)
		return ok
	})
	if err != nil {
		return nil, &models.LockError{Type: models.ErrFileOp, Path: root, Err: err}
	}

	metas := make([]models.MetadataDocument, 0, len(files))
	for _, f := range files {
		id, _ := RepositoryID(path.Base(f.RelPath))
		if id == "" || id == a.localRepoID {
			logrus.Debugf("Skipping metadata %s", f.RelPath)
			continue
		}

		content, err := os.ReadFile(f.Path)
		if err != nil {
			logrus.Warnf("Skipping unreadable metadata %s: %v", f.RelPath, err)
			continue
		}

		metas = append(metas, models.MetadataDocument{
			Path:    path.Dir(f.RelPath),
			Content: string(content),
		})
	}

	logrus.Infof("Collected %d metadata documents", len(metas))
	return metas, nil
}
