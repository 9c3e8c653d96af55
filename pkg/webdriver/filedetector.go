package webdriver

import (
	"os"
	"strings"
)

// FileDetector decides whether the arguments to Element.SendKeys name a
// local file that should be uploaded first.
type FileDetector interface {
	// LocalFile returns the local path, or "" when keys are plain text.
	LocalFile(keys ...string) string
}

// LocalFileDetector treats the joined keys as a path and matches regular
// files only.
type LocalFileDetector struct{}

func (LocalFileDetector) LocalFile(keys ...string) string {
	path := strings.Join(keys, "")
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return path
}

// UselessFileDetector never uploads.
type UselessFileDetector struct{}

func (UselessFileDetector) LocalFile(...string) string { return "" }
