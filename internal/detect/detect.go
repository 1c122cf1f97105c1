package detect

import (
	"iter"
	"strings"
	"unicode/utf8"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/gitpatrol/gitpatrol/internal/types"
)

// Analyze evaluates content line by line and returns whether any line is
// suspicious together with one finding per suspicious line. Lines carrying a
// safe marker are never reported. A line is suspicious when at least two
// indicators match, or when it is minified and at least one matches.
func Analyze(content, path string) (bool, []types.Finding) {
	var findings []types.Finding
	lineNo := 0
	for line := range splitLines(content) {
		lineNo++
		if containsAny(line, safePatterns[:]) {
			continue
		}
		minified := len(line) > MaxLineLength
		matched := matchPatterns(line)
		if len(matched) >= 2 || (minified && len(matched) >= 1) {
			findings = append(findings, types.Finding{
				Path:     path,
				Line:     lineNo,
				Length:   len(line),
				Patterns: matched,
				Minified: minified,
				Excerpt:  excerpt(line),
				Hash:     fingerprint(path, line),
			})
		}
	}
	return len(findings) > 0, findings
}

// IsSourceFile reports whether path has one of the analyzed extensions.
func IsSourceFile(path string) bool {
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsLarge reports whether content exceeds MaxFileSize.
func IsLarge(content string) bool {
	return len(content) > MaxFileSize
}

func matchPatterns(line string) []string {
	var matched []string
	for _, p := range suspiciousPatterns {
		if strings.Contains(line, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func containsAny(line string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

// splitLines yields lines terminated by "\n" or "\r\n". A final terminator
// does not produce an extra empty line.
func splitLines(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(s) > 0 {
			var line string
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				line, s = strings.TrimSuffix(s[:i], "\r"), s[i+1:]
			} else {
				line, s = s, ""
			}
			if !yield(line) {
				return
			}
		}
	}
}

func excerpt(line string) string {
	if len(line) <= excerptLen {
		return line
	}
	cut := excerptLen
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "…"
}

func fingerprint(path, line string) string {
	return fastHash([]byte(path + "\x00" + line))
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
