package store

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

const defaultNixStoreBinary = "nix-store"

// NixStore adds files to the Nix store as fixed-output paths
type NixStore struct {
	binary string
}

// NewNixStore creates a Nix store backend. An empty binary uses nix-store from PATH.
func NewNixStore(binary string) *NixStore {
	if binary == "" {
		binary = defaultNixStoreBinary
	}
	return &NixStore{binary: binary}
}

// Name returns the backend name
func (s *NixStore) Name() string {
	return KindNix
}

// Add runs nix-store --add-fixed sha1 on path
func (s *NixStore) Add(ctx context.Context, path, sha1 string) error {
	//nolint:gosec // path comes from the scanned cache tree
	cmd := exec.CommandContext(ctx, s.binary, "--add-fixed", "sha1", path)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return fmt.Errorf("%s failed for %s (sha1 %s): %w: %s", s.binary, path, sha1, err, stderr)
	}

	logrus.Debugf("Added %s as %s", path, strings.TrimSpace(string(output)))
	return nil
}
