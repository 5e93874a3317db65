package scanner

import "bytes"

// Magic bytes for compressed input detection
var (
	gzipMagic = []byte{0x1F, 0x8B}
	xzMagic   = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
)

// DetectCompression determines the compression format from the leading bytes of data
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXz
	default:
		return CompressionNone
	}
}
