package git

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Head is the symbolic revision of the checked-out branch
const Head = "HEAD"

var objectIDPattern = regexp.MustCompile(`(?i)^[a-f0-9]{5,40}$`)

// IsObjectID reports whether s looks like a full or abbreviated object id
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// IsValidRevision reports whether revision names a branch or tag of the
// repository at repoPath, is an object id, or is HEAD. The check never starts git.
func IsValidRevision(repoPath, revision string) bool {
	if !isSafeRefName(revision) {
		return false
	}
	if revision == Head || IsObjectID(revision) {
		return true
	}

	return isRegularFile(filepath.Join(repoPath, "refs", "heads", filepath.FromSlash(revision))) ||
		isRegularFile(filepath.Join(repoPath, "refs", "tags", filepath.FromSlash(revision)))
}

// isSafeRefName rejects tokens git would read as an option or a range, and
// anything that could walk out of refs/
func isSafeRefName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "\x00\\") {
		return false
	}
	return !strings.HasPrefix(name, "/")
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
