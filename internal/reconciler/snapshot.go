package reconciler

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const snapshotToken = "-SNAPSHOT."

// timestampPattern is the qualifier a remote snapshot carries on disk in place
// of "SNAPSHOT": yyyyMMdd.HHmmss-buildNumber.
const timestampPattern = `\d{8}\.\d{6}-\d+`

// IsSnapshot reports whether filename names a snapshot artifact
func IsSnapshot(filename string) bool {
	return strings.Contains(filename, snapshotToken)
}

// ResolveRealName maps a marker entry file name to the file present in the
// directory listing. Non-snapshot names resolve to themselves when present.
// A snapshot name resolves to its single timestamp-qualified variant, or to the
// literal -SNAPSHOT. file when no qualified variant exists. found is false when
// no file on disk corresponds to the name. Only a snapshot with more than one
// qualified variant is an error.
func ResolveRealName(filename string, listing []string) (resolved string, found bool, err error) {
	present := make(map[string]bool, len(listing))
	for _, name := range listing {
		present[name] = true
	}

	if !IsSnapshot(filename) {
		return filename, present[filename], nil
	}

	idx := strings.LastIndex(filename, snapshotToken)
	prefix := filename[:idx]
	ext := filename[idx+len(snapshotToken):]
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "-" + timestampPattern + `\.` + regexp.QuoteMeta(ext) + "$")

	var candidates []string
	for _, name := range listing {
		if re.MatchString(name) {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)

	switch {
	case len(candidates) == 1:
		return candidates[0], true, nil
	case len(candidates) > 1:
		return "", false, fmt.Errorf("%s matches %d timestamped files: %s", filename, len(candidates), strings.Join(candidates, ", "))
	case present[filename]:
		return filename, true, nil
	default:
		return "", false, nil
	}
}
