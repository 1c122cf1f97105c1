package connector

import (
	"archive/zip"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRepo serves a minimal subset of the GitHub contents API.
type fakeRepo struct {
	mu       sync.Mutex
	files    map[string]string
	status   map[string]int // forced status per path ("" is the root)
	body     map[string]string
	large    map[string]bool // served with encoding "none" unless asked for raw
	pageSize int
	auth     []string
	agents   []string
	accepts  []string
}

func newFakeRepo(files map[string]string) *fakeRepo {
	return &fakeRepo{files: files, status: map[string]int{}, body: map[string]string{}, large: map[string]bool{}}
}

func (f *fakeRepo) dirEntries(dir string) ([]contentEntry, bool) {
	seen := map[string]bool{}
	var out []contentEntry
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	exists := dir == ""
	for p := range f.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		exists = true
		rest := strings.TrimPrefix(p, prefix)
		name, _, isDir := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		typ := "file"
		if isDir {
			typ = "dir"
		}
		out = append(out, contentEntry{Name: name, Path: prefix + name, Type: typ})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, exists
}

func (f *fakeRepo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.agents = append(f.agents, r.Header.Get("User-Agent"))
	f.accepts = append(f.accepts, r.Header.Get("Accept"))
	f.mu.Unlock()

	const base = "/repos/octo/demo/contents"
	if !strings.HasPrefix(r.URL.Path, base) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	p := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, base), "/")
	if code, ok := f.status[p]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(f.body[p]))
		return
	}
	if content, ok := f.files[p]; ok && f.large[p] {
		if r.Header.Get("Accept") == acceptRaw {
			_, _ = w.Write([]byte(content))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "", "encoding": "none", "size": len(content)})
		return
	}
	if content, ok := f.files[p]; ok {
		enc := base64.StdEncoding.EncodeToString([]byte(content))
		// GitHub wraps encoded content every 60 characters.
		var b strings.Builder
		for len(enc) > 60 {
			b.WriteString(enc[:60])
			b.WriteString("\n")
			enc = enc[60:]
		}
		b.WriteString(enc)
		_ = json.NewEncoder(w).Encode(map[string]string{"content": b.String(), "encoding": "base64"})
		return
	}
	entries, ok := f.dirEntries(p)
	if !ok {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	if f.pageSize > 0 && len(entries) > f.pageSize {
		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			page = int(v[0] - '0')
		}
		start := (page - 1) * f.pageSize
		end := min(start+f.pageSize, len(entries))
		if end < len(entries) {
			next := "http://" + r.Host + r.URL.Path + "?page=" + string(rune('0'+page+1))
			w.Header().Set("Link", `<`+next+`>; rel="next", <http://example.invalid>; rel="last"`)
		}
		entries = entries[start:end]
	}
	_ = json.NewEncoder(w).Encode(entries)
}

func newTestGitHub(t *testing.T, repo *fakeRepo, opts ...Option) *GitHub {
	t.Helper()
	t.Setenv(DefaultTokenEnv, "")
	srv := httptest.NewServer(repo)
	t.Cleanup(srv.Close)
	all := append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	g, err := NewGitHub("https://github.com/octo/demo", all...)
	require.NoError(t, err)
	return g
}

func collect(t *testing.T, c Connector) ([]string, error) {
	t.Helper()
	var out []string
	for p, err := range c.Enumerate(context.Background()) {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

type zipEntry struct {
	name string
	body string
}

func writeZip(t *testing.T, entries []zipEntry) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "src.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}
