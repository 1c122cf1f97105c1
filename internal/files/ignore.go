package files

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitpatrol/gitpatrol/internal/ignore"
)

// AppendIgnore ensures each pattern is present in the ignore file at
// root, creating the file if missing. Patterns already listed are skipped.
// It returns the patterns actually written.
func AppendIgnore(root string, patterns ...string) ([]string, error) {
	path := filepath.Join(root, ignore.FileName)
	existing := map[string]bool{}
	var tail byte = '\n'
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(bytes.NewReader(b))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		if len(b) > 0 {
			tail = b[len(b)-1]
		}
	}
	var added []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || existing[p] {
			continue
		}
		existing[p] = true
		added = append(added, p)
	}
	if len(added) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var buf strings.Builder
	if tail != '\n' {
		buf.WriteByte('\n')
	}
	for _, p := range added {
		buf.WriteString(p + "\n")
	}
	if _, err := f.WriteString(buf.String()); err != nil {
		return nil, err
	}
	return added, nil
}

// DefaultGeneratedIgnores returns bundler output patterns that routinely
// trip the detector without being hand-written code.
func DefaultGeneratedIgnores() []string {
	return []string{
		"*.min.js",
		"*.bundle.js",
		"*.chunk.js",
		"*.map",
		"dist/",
		"build/",
		"node_modules/",
	}
}
