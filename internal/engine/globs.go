package engine

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// globFilter holds the include and exclude lists of a Config, parsed once
// per scanner.
type globFilter struct {
	include []string
	exclude []string
}

func newGlobFilter(cfg Config) globFilter {
	return globFilter{
		include: parseGlobsList(cfg.IncludeGlobs),
		exclude: parseGlobsList(cfg.ExcludeGlobs),
	}
}

// allows applies the include list as a positive filter when it is set, then
// subtracts the exclude list. A glob matches either the whole relative path
// or its base name.
func (g globFilter) allows(relPath string) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	if len(g.include) > 0 && !matchAny(rp, g.include) {
		return false
	}
	return !matchAny(rp, g.exclude)
}

// parseGlobsList splits a comma-separated list. Each glob is kept both as
// written and with any leading "./" or "**/" removed.
func parseGlobsList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if bare := trimGlobPrefix(p); bare != p {
			out = append(out, bare)
		}
	}
	return out
}

func matchAny(rp string, globs []string) bool {
	base := path.Base(rp)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rp); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
