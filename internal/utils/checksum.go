package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
)

// CalculateSHA1 returns the hex SHA-1 of a file's content
func CalculateSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
