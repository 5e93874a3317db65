package scanner

import "context"

// Compression represents the compression format of an input file
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXz
)

// String returns the string representation of Compression
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionXz:
		return "xz"
	default:
		return "none"
	}
}

// ScannedFile represents a file found during scanning
type ScannedFile struct {
	Path    string // Absolute path
	RelPath string // Path relative to the scanned root, slash separated
}

// MatchFunc decides whether a file name is collected by a scan
type MatchFunc func(name string) bool

// Scanner interface for collecting files under a cache root
type Scanner interface {
	// Scan recursively collects matching files, sorted by relative path
	Scan(ctx context.Context, root string, match MatchFunc) ([]ScannedFile, error)
}

// HasSuffix returns a MatchFunc accepting names ending in suffix
func HasSuffix(suffix string) MatchFunc {
	return func(name string) bool {
		return len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix
	}
}
