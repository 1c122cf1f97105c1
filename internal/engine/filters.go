package engine

import "strings"

// Directories that hold third-party or generated code. Skipped only when
// default excludes are enabled, since hostile code often hides there.
var defaultExcludeDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	".next":            true,
	".nuxt":            true,
}

// suffixes treated as generated bundles when default excludes are enabled
var defaultExcludeFileSuffixes = []string{
	".min.js",
	".bundle.js",
	".chunk.js",
	".d.ts",
}

// isDefaultExcluded reports whether any directory segment of relPath or its
// file suffix is on the default exclude lists.
func isDefaultExcluded(relPath string) bool {
	parts := strings.Split(relPath, "/")
	for _, dir := range parts[:len(parts)-1] {
		if defaultExcludeDirs[dir] || dir == ".git" {
			return true
		}
	}
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(relPath, s) {
			return true
		}
	}
	return false
}
