package reconciler

import (
	"os"
	"regexp"
	"strings"
)

var sha1Token = regexp.MustCompile(`(?:^|[^0-9a-fA-F])([0-9a-fA-F]{40})(?:$|[^0-9a-fA-F])`)

// ExtractSHA1 returns the first standalone 40-character hex token in content, lower-cased
func ExtractSHA1(content string) (string, bool) {
	m := sha1Token.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// ReadDigest reads the digest file that accompanies path
func ReadDigest(path string) (string, bool, error) {
	data, err := os.ReadFile(path + DigestSuffix)
	if err != nil {
		return "", false, err
	}
	digest, ok := ExtractSHA1(string(data))
	return digest, ok, nil
}
