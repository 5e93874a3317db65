package reconciler

import (
	"bufio"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// MarkerSuffix is the file name suffix of repository marker files
const MarkerSuffix = ".repositories"

// DigestSuffix is the file name suffix of SHA-1 digest files
const DigestSuffix = ".sha1"

// MarkerEntry binds one artifact file name to the repository that supplied it
type MarkerEntry struct {
	Filename   string
	Repository string
}

// MarkerIndex is the parsed content of one marker file, in line order
type MarkerIndex struct {
	Entries []MarkerEntry
	byName  map[string]int
}

// ParseMarker reads "filename>repositoryId=" lines. Comments and lines
// without a '>' separator are skipped. A repeated file name keeps its first
// position and takes the last repository id.
func ParseMarker(r io.Reader) (*MarkerIndex, error) {
	index := &MarkerIndex{byName: make(map[string]int)}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest, ok := strings.Cut(line, ">")
		if !ok || name == "" {
			logrus.Debugf("Skipping unrecognized marker line %q", line)
			continue
		}
		repo, _, _ := strings.Cut(rest, "=")
		repo = strings.TrimSpace(repo)

		if i, seen := index.byName[name]; seen {
			index.Entries[i].Repository = repo
			continue
		}
		index.byName[name] = len(index.Entries)
		index.Entries = append(index.Entries, MarkerEntry{Filename: name, Repository: repo})
	}

	return index, sc.Err()
}
