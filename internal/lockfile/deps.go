package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/utils"
)

// LoadDeps reads the raw dependency list produced by the build-description
// evaluator. The file is either a JSON array or one JSON fragment per line.
func LoadDeps(path string) ([]json.RawMessage, error) {
	data, err := utils.ReadInput(path)
	if err != nil {
		return nil, &models.LockError{
			Type: models.ErrFileOp,
			Path: path,
			Err:  fmt.Errorf("failed to read dependency list: %w", err),
		}
	}

	deps, err := ParseDeps(data)
	if err != nil {
		return nil, &models.LockError{Type: models.ErrMalformedDescriptor, Path: path, Err: err}
	}
	return deps, nil
}

// ParseDeps splits a dependency list into fragments without interpreting them.
// The list is a JSON array or a stream of fragments separated by whitespace
// or commas.
func ParseDeps(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var deps []json.RawMessage
		if err := json.Unmarshal(trimmed, &deps); err != nil {
			return nil, fmt.Errorf("invalid dependency array: %w", err)
		}
		return deps, nil
	}

	var deps []json.RawMessage
	rest := trimmed
	for n := 1; ; n++ {
		rest = bytes.TrimLeft(rest, " \t\r\n,")
		if len(rest) == 0 {
			break
		}

		dec := json.NewDecoder(bytes.NewReader(rest))
		var fragment json.RawMessage
		if err := dec.Decode(&fragment); err != nil {
			return nil, fmt.Errorf("fragment %d is not valid JSON: %w", n, err)
		}
		deps = append(deps, fragment)
		rest = rest[dec.InputOffset():]
	}
	return deps, nil
}

// ArtifactFragments renders tracked artifacts as {"path","sha1"} dependency fragments
func ArtifactFragments(artifacts []models.TrackedArtifact) ([]json.RawMessage, error) {
	deps := make([]json.RawMessage, 0, len(artifacts))
	for _, a := range artifacts {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		deps = append(deps, raw)
	}
	return deps, nil
}
