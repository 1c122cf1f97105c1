package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gitpatrol/gitpatrol/internal/ignore"
)

func TestAppendIgnore_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ignore.FileName)
	added, err := AppendIgnore(dir, "dist/")
	if err != nil {
		t.Fatalf("AppendIgnore: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("expected one pattern added, got %v", added)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "dist/\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
	added, err = AppendIgnore(dir, "dist/", " dist/ ")
	if err != nil {
		t.Fatalf("AppendIgnore second: %v", err)
	}
	if len(added) != 0 {
		t.Fatalf("expected nothing added, got %v", added)
	}
	b2, _ := os.ReadFile(p)
	if strings.Count(string(b2), "dist/") != 1 {
		t.Fatalf("expected single occurrence, got: %q", string(b2))
	}
}

func TestAppendIgnore_AddsMissingNewline(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ignore.FileName)
	if err := os.WriteFile(p, []byte("vendor/"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := AppendIgnore(dir, "*.min.js"); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "vendor/\n*.min.js\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
	m, err := ignore.Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("lib/app.min.js") || !m.Match("vendor/x.js") {
		t.Fatalf("expected written patterns to be honoured by the matcher")
	}
}

func TestDefaultGeneratedIgnores(t *testing.T) {
	items := DefaultGeneratedIgnores()
	want1, want2 := "*.min.js", "node_modules/"
	found1, found2 := false, false
	for _, it := range items {
		if it == want1 {
			found1 = true
		}
		if it == want2 {
			found2 = true
		}
	}
	if !found1 || !found2 {
		t.Fatalf("expected default ignores to contain %q and %q, got: %#v", want1, want2, items)
	}
}
