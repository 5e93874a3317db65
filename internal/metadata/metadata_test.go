package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRepositoryID(t *testing.T) {
	id, ok := RepositoryID("maven-metadata-central.xml")
	assert.True(t, ok)
	assert.Equal(t, "central", id)

	id, ok = RepositoryID("maven-metadata-.xml")
	assert.True(t, ok)
	assert.Empty(t, id)

	_, ok = RepositoryID("maven-metadata.xml")
	assert.False(t, ok)
	_, ok = RepositoryID("maven-metadata-central.xml.sha1")
	assert.False(t, ok)
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	central := "<?xml version=\"1.0\"?>\n<metadata>\n  <groupId>org</groupId>\n</metadata>\n"
	writeFile(t, root, "org/lib/maven-metadata-central.xml", central)
	writeFile(t, root, "org/lib/maven-metadata-central.xml.sha1", "ignored")
	writeFile(t, root, "org/lib/maven-metadata-local.xml", "<metadata/>")
	writeFile(t, root, "org/lib/maven-metadata-.xml", "<metadata/>")
	writeFile(t, root, "aaa/maven-metadata-snapshots.xml", "<metadata/>")

	metas, err := NewAggregator(scanner.NewFileSystemScanner(), "").Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []models.MetadataDocument{
		{Path: "aaa", Content: "<metadata/>"},
		{Path: "org/lib", Content: central},
	}, metas)
}

func TestCollectCustomLocalID(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "org/lib/maven-metadata-local.xml", "<metadata/>")
	writeFile(t, root, "org/lib/maven-metadata-internal.xml", "<metadata/>")

	metas, err := NewAggregator(scanner.NewFileSystemScanner(), "internal").Collect(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, metas, 1)
}

func TestCollectEmpty(t *testing.T) {
	metas, err := NewAggregator(scanner.NewFileSystemScanner(), "").Collect(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, metas)
}
