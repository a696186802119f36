package format

import (
	"strings"
)

var pathReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// SanitizeForPath replaces characters that are problematic in file paths
// Replaces: / \ : * ? " < > | with -
func SanitizeForPath(name string) string {
	return pathReplacer.Replace(name)
}

// RepoNameFromURL returns the last path segment of a git URL without a
// trailing ".git". Returns "" when the URL has no usable segment.
func RepoNameFromURL(url string) string {
	url = strings.TrimSpace(url)
	url = strings.TrimRight(url, "/\\")
	url = strings.TrimSuffix(url, ".git")

	// git@github.com:owner/repo and C:\path\repo
	idx := strings.LastIndexAny(url, "/\\:")
	name := url[idx+1:]

	if name == "." || name == ".." {
		return ""
	}
	return name
}
