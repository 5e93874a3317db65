// Package lockfile assembles, validates and writes the canonical lock document.
package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/signer"
	"github.com/ralt/mvnlock/internal/utils"
	"github.com/sirupsen/logrus"
)

// DefaultLockfileName is the default output file name
const DefaultLockfileName = "mvn-lock.json"

// SignatureSuffix is appended to the lock file path for its detached signature
const SignatureSuffix = ".asc"

// PublicKeySuffix is appended to the lock file path for the signer's public key
const PublicKeySuffix = ".pub"

// Inputs gathers the results of every earlier pipeline stage
type Inputs struct {
	Root      models.Coordinates
	Modules   []models.ModuleRecord
	Deps      []json.RawMessage
	Artifacts []models.TrackedArtifact
	Metas     []models.MetadataDocument
	Remotes   models.RemoteRepoMap
}

// Assemble merges the pipeline results into one lock document. Tracked
// artifacts follow the supplied dependency fragments in deps.
func Assemble(in Inputs) (*models.LockDocument, error) {
	fragments, err := ArtifactFragments(in.Artifacts)
	if err != nil {
		return nil, models.NewError(models.ErrInvalidOutput, "", "failed to encode artifacts: %v", err)
	}

	doc := &models.LockDocument{
		Name:       in.Root.ArtifactID + "-" + in.Root.Version,
		GroupID:    in.Root.GroupID,
		ArtifactID: in.Root.ArtifactID,
		Version:    in.Root.Version,
		Submodules: append([]models.ModuleRecord{}, in.Modules...),
		Deps:       append(append([]json.RawMessage{}, in.Deps...), fragments...),
		Metas:      append([]models.MetadataDocument{}, in.Metas...),
		Remotes:    models.RemoteRepoMap{},
	}
	for id, url := range in.Remotes {
		doc.Remotes[id] = url
	}

	return doc, nil
}

// Encode serializes doc, re-parses the bytes to confirm they are well formed
// and that metadata content survived, then re-serializes with sorted object keys.
func Encode(doc *models.LockDocument) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, models.NewError(models.ErrInvalidOutput, "", "failed to serialize lock document: %v", err)
	}

	var back models.LockDocument
	if err := json.Unmarshal(raw, &back); err != nil {
		return nil, models.NewError(models.ErrInvalidOutput, "", "lock document does not re-parse: %v", err)
	}
	if len(doc.Metas) != len(back.Metas) || (len(doc.Metas) > 0 && !reflect.DeepEqual(doc.Metas, back.Metas)) {
		return nil, models.NewError(models.ErrInvalidOutput, "", "metadata content changed across serialization")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, models.NewError(models.ErrInvalidOutput, "", "lock document does not re-parse: %v", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return nil, models.NewError(models.ErrInvalidOutput, "", "failed to canonicalize lock document: %v", err)
	}

	return buf.Bytes(), nil
}

// Decode parses a lock file
func Decode(data []byte) (*models.LockDocument, error) {
	var doc models.LockDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode lock file: %w", err)
	}
	return &doc, nil
}

type output struct {
	path string
	data []byte
}

// Write encodes doc and atomically replaces path with it. With a non-nil
// signer an armored detached signature is written to path+".asc" and the
// signer's public key to path+".pub". Every file is staged before any is
// renamed, and the lock file is renamed last. Without a signer, signature
// files left by an earlier signed run are removed.
func Write(path string, doc *models.LockDocument, s signer.Signer) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	outputs := []output{{path, data}}

	if s != nil {
		signature, err := s.SignDetached(data)
		if err != nil {
			return &models.LockError{Type: models.ErrSigning, Path: path, Err: err}
		}
		publicKey, err := s.GetPublicKey()
		if err != nil {
			return &models.LockError{
				Type: models.ErrSigning,
				Path: path,
				Err:  fmt.Errorf("failed to export public key: %w", err),
			}
		}
		outputs = append(outputs,
			output{path + SignatureSuffix, signature},
			output{path + PublicKeySuffix, publicKey},
		)
	}

	staged := make([]*utils.StagedFile, 0, len(outputs))
	defer func() {
		for _, f := range staged {
			f.Discard()
		}
	}()
	for _, out := range outputs {
		f, err := utils.StageFile(out.path, out.data, 0644)
		if err != nil {
			return &models.LockError{
				Type: models.ErrFileOp,
				Path: out.path,
				Err:  fmt.Errorf("failed to stage file: %w", err),
			}
		}
		staged = append(staged, f)
	}

	if s == nil {
		for _, stale := range []string{path + SignatureSuffix, path + PublicKeySuffix} {
			if err := utils.RemoveIfExists(stale); err != nil {
				return &models.LockError{
					Type: models.ErrFileOp,
					Path: stale,
					Err:  fmt.Errorf("failed to remove stale signature file: %w", err),
				}
			}
		}
	}

	// Sidecars first so a failed rename leaves the previous lock file in place
	for i := len(staged) - 1; i >= 0; i-- {
		f := staged[i]
		if err := f.Commit(); err != nil {
			return &models.LockError{
				Type: models.ErrFileOp,
				Path: f.Path(),
				Err:  fmt.Errorf("failed to write file: %w", err),
			}
		}
		logrus.Infof("Wrote %s", f.Path())
	}

	logrus.Infof("Lock file is %d bytes", len(data))
	return nil
}
