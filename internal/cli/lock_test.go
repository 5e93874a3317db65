package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ralt/mvnlock/internal/lockfile"
	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/signer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sha1Hello = "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fixture struct {
	root        string
	projectFile string
	cacheDir    string
	output      string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		root:        root,
		projectFile: filepath.Join(root, "effective.json"),
		cacheDir:    filepath.Join(root, "m2"),
		output:      filepath.Join(root, "out", "mvn-lock.json"),
	}

	writeFile(t, f.projectFile, `[
  {"groupId": "com.example", "artifactId": "app", "version": "1.0",
   "build": {"directory": "`+filepath.ToSlash(root)+`/src/target"},
   "repositories": [{"id": "central", "url": "https://first.example.com"}]},
  {"groupId": "com.example", "artifactId": "core", "version": "1.0",
   "build": {"directory": "`+filepath.ToSlash(root)+`/src/core/target"},
   "repositories": [{"id": "central", "url": "https://repo.maven.apache.org/maven2"}],
   "pluginRepositories": [{"id": "plugins", "url": "https://plugins.example.com"}]}
]`)

	writeFile(t, filepath.Join(f.cacheDir, "org/lib/1.0/_remote.repositories"), "#NOTE\nlib-1.0.jar>central=\n")
	writeFile(t, filepath.Join(f.cacheDir, "org/lib/1.0/lib-1.0.jar"), "hello")
	writeFile(t, filepath.Join(f.cacheDir, "org/lib/1.0/lib-1.0.jar.sha1"), sha1Hello)
	writeFile(t, filepath.Join(f.cacheDir, "org/lib/maven-metadata-central.xml"), "<metadata>\n  <versioning/>\n</metadata>\n")
	writeFile(t, filepath.Join(f.cacheDir, "org/lib/maven-metadata-local.xml"), "<metadata/>")

	return f
}

func (f fixture) args(extra ...string) []string {
	args := []string{
		"lock",
		"--project-file", f.projectFile,
		"--cache-dir", f.cacheDir,
		"--project-root", filepath.Join(f.root, "src"),
		"--output", f.output,
	}
	return append(args, extra...)
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func readLock(t *testing.T, path string) *models.LockDocument {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := lockfile.Decode(data)
	require.NoError(t, err)
	return doc
}

func TestLockEndToEnd(t *testing.T) {
	f := newFixture(t)
	storeDir := filepath.Join(f.root, "store")
	depsFile := filepath.Join(f.root, "deps.json")
	writeFile(t, depsFile, `{"url": "https://repo.maven.apache.org/maven2/org/lib/1.0/lib-1.0.jar"}`)

	require.NoError(t, run(t, f.args("--store", "dir", "--store-dir", storeDir, "--deps-file", depsFile, "--verify")...))

	doc := readLock(t, f.output)
	assert.Equal(t, "app-1.0", doc.Name)
	assert.Equal(t, "com.example", doc.GroupID)
	assert.Equal(t, []models.ModuleRecord{
		{Name: "app-1.0", GroupID: "com.example", ArtifactID: "app", Version: "1.0", Path: "."},
		{Name: "core-1.0", GroupID: "com.example", ArtifactID: "core", Version: "1.0", Path: "./core"},
	}, doc.Submodules)
	assert.Equal(t, models.RemoteRepoMap{
		"central": "https://repo.maven.apache.org/maven2",
		"plugins": "https://plugins.example.com",
	}, doc.Remotes)
	assert.Equal(t, []models.MetadataDocument{
		{Path: "org/lib", Content: "<metadata>\n  <versioning/>\n</metadata>\n"},
	}, doc.Metas)

	require.Len(t, doc.Deps, 2)
	assert.JSONEq(t, `{"url": "https://repo.maven.apache.org/maven2/org/lib/1.0/lib-1.0.jar"}`, string(doc.Deps[0]))
	assert.JSONEq(t, `{"path": "org/lib/1.0/lib-1.0.jar", "sha1": "`+sha1Hello+`"}`, string(doc.Deps[1]))

	assert.FileExists(t, filepath.Join(storeDir, "sha1", "aa", sha1Hello))
}

func TestLockIsByteIdenticalAcrossRuns(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, run(t, f.args("--no-add")...))
	first, err := os.ReadFile(f.output)
	require.NoError(t, err)

	require.NoError(t, run(t, f.args("--no-add")...))
	second, err := os.ReadFile(f.output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLockSigned(t *testing.T) {
	f := newFixture(t)

	entity, err := openpgp.NewEntity("mvnlock", "", "lock@example.com", nil)
	require.NoError(t, err)
	var key bytes.Buffer
	w, err := armor.Encode(&key, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())
	keyFile := filepath.Join(f.root, "key.asc")
	writeFile(t, keyFile, key.String())

	require.NoError(t, run(t, f.args("--no-add", "--gpg-key", keyFile)...))

	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	sig, err := os.ReadFile(f.output + lockfile.SignatureSuffix)
	require.NoError(t, err)
	pub, err := os.ReadFile(f.output + lockfile.PublicKeySuffix)
	require.NoError(t, err)
	require.NoError(t, signer.VerifyDetached(pub, data, sig))

	require.NoError(t, run(t, f.args("--no-add")...))
	assert.NoFileExists(t, f.output+lockfile.SignatureSuffix)
	assert.NoFileExists(t, f.output+lockfile.PublicKeySuffix)
}

func TestLockFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.cacheDir, "org/lib/1.0/lib-1.0.jar.sha1")))

	err := run(t, f.args("--no-add")...)
	require.Error(t, err)
	assert.True(t, models.IsErrorType(err, models.ErrMissingDigest), "got %v", err)
	assert.NoFileExists(t, f.output)
}

func TestLockConfigFromEnvironment(t *testing.T) {
	f := newFixture(t)
	t.Setenv("MVNLOCK_NO_ADD", "true")
	t.Setenv("MVNLOCK_OUTPUT", filepath.Join(f.root, "env-lock.json"))

	require.NoError(t, run(t, "lock",
		"--project-file", f.projectFile,
		"--cache-dir", f.cacheDir,
	))
	assert.FileExists(t, filepath.Join(f.root, "env-lock.json"))
}

func TestLockConfigFile(t *testing.T) {
	f := newFixture(t)
	configFile := filepath.Join(f.root, "mvnlock.yaml")
	writeFile(t, configFile, "project-file: "+f.projectFile+"\n"+
		"cache-dir: "+f.cacheDir+"\n"+
		"output: "+f.output+"\n"+
		"no-add: true\n")

	require.NoError(t, run(t, "lock", "--config", configFile))
	assert.FileExists(t, f.output)
}

func TestLockValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing project file", []string{"lock", "--cache-dir", f.cacheDir}},
		{"missing cache dir", []string{"lock", "--project-file", f.projectFile}},
		{"cache dir is a file", []string{"lock", "--project-file", f.projectFile, "--cache-dir", f.projectFile}},
		{"dir store without directory", f.args("--store", "dir")},
		{"unknown store", f.args("--store", "s3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, tt.args...)
			require.Error(t, err)
			assert.True(t, models.IsErrorType(err, models.ErrInvalidConfig), "got %v", err)
		})
	}
}
