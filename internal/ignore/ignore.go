package ignore

import (
	"os"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName is the ignore file read from the root of a scanned source.
const FileName = ".gitpatrolignore"

// Matcher decides whether a root-relative path is excluded from a scan.
type Matcher struct {
	gi *gitignore.GitIgnore
}

// Parse compiles gitignore-style content. Blank lines and comments are
// ignored.
func Parse(content string) Matcher {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	return Matcher{gi: gitignore.CompileIgnoreLines(lines...)}
}

// Load reads and compiles the ignore file at path. On error the returned
// matcher matches nothing.
func Load(path string) (Matcher, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Matcher{}, err
	}
	return Parse(string(b)), nil
}

// Match reports whether p is ignored.
func (m Matcher) Match(p string) bool {
	if m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(p)
}
