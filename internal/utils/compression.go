package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/ralt/mvnlock/internal/scanner"
	"github.com/ulikunitz/xz"
)

// GzipDecompress decompresses gzip data
func GzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// XzDecompress decompresses xz data
func XzDecompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(r)
}

// Decompress returns data unchanged unless it starts with a known compression header
func Decompress(data []byte) ([]byte, error) {
	switch scanner.DetectCompression(data) {
	case scanner.CompressionGzip:
		return GzipDecompress(data)
	case scanner.CompressionXz:
		return XzDecompress(data)
	default:
		return data, nil
	}
}

// ReadInput reads a file and transparently decompresses it
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return out, nil
}
