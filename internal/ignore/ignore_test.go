package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "node_modules/\n*.min.js\n# comment\n\nvendor/jquery.js\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js": true,
		"dist/app.min.js":           true,
		"vendor/jquery.js":          true,
		"src/app.js":                false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestLoad_MissingFileMatchesNothing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected error for missing ignore file")
	}
	if m.Match("anything.js") {
		t.Fatal("zero matcher must not match")
	}
}

func TestParse_CRLF(t *testing.T) {
	m := Parse("generated/\r\n*.bundle.js\r\n")
	if !m.Match("generated/x.js") || !m.Match("a/b.bundle.js") {
		t.Fatal("expected CRLF content to compile")
	}
}
