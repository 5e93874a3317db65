package utils

import (
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a file from src to dst
func CopyFile(src, dst string) error {
	// Create destination directory if it doesn't exist
	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	// Copy through a sibling temp file so readers never see a partial entry
	tmp, err := os.CreateTemp(dstDir, filepath.Base(dst)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, srcFile); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, dst)
}

// StagedFile is data written to a temp file next to its target, waiting to be
// renamed into place
type StagedFile struct {
	tmp  string
	path string
}

// StageFile writes data to a synced temp file in the directory of path.
// Nothing at path changes until Commit.
func StageFile(path string, data []byte, perm os.FileMode) (*StagedFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return nil, err
	}
	staged := &StagedFile{tmp: tmp.Name(), path: path}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		staged.Discard()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		staged.Discard()
		return nil, err
	}

	return staged, nil
}

// Path returns the target path
func (s *StagedFile) Path() string {
	return s.path
}

// Commit renames the temp file over the target
func (s *StagedFile) Commit() error {
	return os.Rename(s.tmp, s.path)
}

// Discard removes the temp file. It is a no-op after a successful Commit.
func (s *StagedFile) Discard() {
	os.Remove(s.tmp)
}

// RemoveIfExists removes path, ignoring a missing file
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
