package engine

import "testing"

func TestGlobFilter_Allows(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		include string
		exclude string
		want    bool
	}{
		{"no globs", "src/a.js", "", "", true},
		{"include match", "src/a.js", "src/**", "", true},
		{"include miss", "test/a.js", "src/**", "", false},
		{"include basename", "deep/dir/a.ts", "*.ts", "", true},
		{"exclude wins", "src/gen/a.js", "src/**", "**/gen/**", false},
		{"exclude list", "fixtures/a.js", "", " spec/**, fixtures/** ", false},
		{"leading dot slash", "lib/a.js", "./lib/**", "", true},
	}
	for _, tc := range cases {
		g := newGlobFilter(Config{IncludeGlobs: tc.include, ExcludeGlobs: tc.exclude})
		if got := g.allows(tc.path); got != tc.want {
			t.Fatalf("%s: allows(%q)=%v want %v", tc.name, tc.path, got, tc.want)
		}
	}
}

func TestParseGlobsList(t *testing.T) {
	got := parseGlobsList(" ./lib/**, ,**/gen/*.js,src/** ")
	want := []string{"./lib/**", "lib/**", "**/gen/*.js", "gen/*.js", "src/**"}
	if len(got) != len(want) {
		t.Fatalf("parseGlobsList=%q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parseGlobsList=%q want %q", got, want)
		}
	}
	if parseGlobsList("") != nil {
		t.Fatal("empty list should parse to nil")
	}
}

func TestIsDefaultExcluded(t *testing.T) {
	cases := map[string]bool{
		"node_modules/x/index.js": true,
		"a/dist/b.js":             true,
		".git/hooks/x.js":         true,
		"src/app.min.js":          true,
		"types/index.d.ts":        true,
		".github/actions/a.js":    false,
		"src/app.js":              false,
		"dist.js":                 false,
	}
	for p, want := range cases {
		if got := isDefaultExcluded(p); got != want {
			t.Fatalf("isDefaultExcluded(%q)=%v want %v", p, got, want)
		}
	}
}
