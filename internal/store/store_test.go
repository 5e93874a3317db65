package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sha1Hello = "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"

func TestNew(t *testing.T) {
	st, err := New(KindNix, "")
	require.NoError(t, err)
	assert.Equal(t, KindNix, st.Name())

	st, err = New(KindDir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, KindDir, st.Name())

	_, err = New(KindDir, "")
	assert.Error(t, err)

	_, err = New("s3", "")
	assert.ErrorContains(t, err, "unknown store")
}

func TestDirStoreAddIsIdempotent(t *testing.T) {
	src := filepath.Join(t.TempDir(), "lib-1.0.jar")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	root := t.TempDir()
	st := NewDirStore(root)
	require.NoError(t, st.Add(context.Background(), src, sha1Hello))
	require.NoError(t, st.Add(context.Background(), src, sha1Hello))

	dst := st.PathFor(sha1Hello)
	assert.Equal(t, filepath.Join(root, "sha1", "aa", sha1Hello), dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDirStoreRejectsBadDigest(t *testing.T) {
	st := NewDirStore(t.TempDir())
	assert.Error(t, st.Add(context.Background(), "/nonexistent", "abc"))
}

func TestNixStoreReportsFailure(t *testing.T) {
	st := NewNixStore(filepath.Join(t.TempDir(), "no-such-nix-store"))
	err := st.Add(context.Background(), "/tmp/x", sha1Hello)
	assert.Error(t, err)
}

type countingStore struct {
	mu      sync.Mutex
	calls   map[string]int
	active  int32
	maxSeen int32
	failOn  string
}

func (s *countingStore) Add(_ context.Context, path, sha1 string) error {
	n := atomic.AddInt32(&s.active, 1)
	defer atomic.AddInt32(&s.active, -1)
	for {
		prev := atomic.LoadInt32(&s.maxSeen)
		if n <= prev || atomic.CompareAndSwapInt32(&s.maxSeen, prev, n) {
			break
		}
	}

	s.mu.Lock()
	s.calls[sha1]++
	s.mu.Unlock()

	if sha1 == s.failOn {
		return errors.New("rejected " + filepath.Base(path))
	}
	return nil
}

func (s *countingStore) Name() string { return "counting" }

func TestRegisterAll(t *testing.T) {
	artifacts := []models.TrackedArtifact{
		{Path: "a/a.jar", SHA1: "1111111111111111111111111111111111111111"},
		{Path: "b/b.jar", SHA1: "2222222222222222222222222222222222222222"},
		{Path: "a/a.jar", SHA1: "1111111111111111111111111111111111111111"},
		{Path: "c/c.jar", SHA1: "3333333333333333333333333333333333333333"},
	}
	snapshot := append([]models.TrackedArtifact(nil), artifacts...)

	st := &countingStore{calls: map[string]int{}}
	require.NoError(t, RegisterAll(context.Background(), st, "/cache", artifacts, 2))

	assert.Len(t, st.calls, 3)
	for sha1, n := range st.calls {
		assert.Equal(t, 1, n, "sha1 %s", sha1)
	}
	assert.LessOrEqual(t, st.maxSeen, int32(2))
	assert.Equal(t, snapshot, artifacts, "artifact order must not change")
}

func TestRegisterAllPropagatesFailure(t *testing.T) {
	artifacts := []models.TrackedArtifact{
		{Path: "a/a.jar", SHA1: "1111111111111111111111111111111111111111"},
		{Path: "b/b.jar", SHA1: "2222222222222222222222222222222222222222"},
	}

	st := &countingStore{calls: map[string]int{}, failOn: "2222222222222222222222222222222222222222"}
	err := RegisterAll(context.Background(), st, "/cache", artifacts, 0)
	require.Error(t, err)
	assert.True(t, models.IsErrorType(err, models.ErrStoreAdd))
	assert.ErrorContains(t, err, "b/b.jar")
}
