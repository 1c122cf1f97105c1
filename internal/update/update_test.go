package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	t.Setenv("CI", "")
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client(), CacheDir: t.TempDir()}
}

func TestCheck_SkippedInCI(t *testing.T) {
	t.Setenv("CI", "1")
	c := &Checker{URL: "http://127.0.0.1:0", Client: http.DefaultClient}
	latest, newer, err := c.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.False(t, newer)
}

func TestIsNewer(t *testing.T) {
	assert.True(t, IsNewer("v1.3.0", "1.2.9"))
	assert.False(t, IsNewer("1.2.3", "v1.2.3"))
	assert.False(t, IsNewer("1.2.0", "1.2.1"))
	assert.False(t, IsNewer("1.2.0", "dev"))
	assert.False(t, IsNewer("", "1.0.0"))
}

func TestCheck_FetchesAndCaches(t *testing.T) {
	calls := 0
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "gitpatrol-updater", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode(map[string]string{"tag_name": "v9.9.9"})
	})

	latest, newer, err := c.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "v9.9.9", latest)
	assert.True(t, newer)

	_, _, err = c.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second check should hit the cache")
}

func TestCheck_UsesCacheWhenFresh(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected network call")
	})
	b, _ := json.Marshal(cache{LastChecked: time.Now(), Latest: "1.2.3"})
	require.NoError(t, os.WriteFile(filepath.Join(c.CacheDir, cacheFileName), b, 0644))

	latest, newer, err := c.Check(context.Background(), "1.2.2")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", latest)
	assert.True(t, newer)
}

func TestCheck_StaleCacheSurvivesServerError(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	b, _ := json.Marshal(cache{LastChecked: time.Now().Add(-48 * time.Hour), Latest: "2.0.0"})
	require.NoError(t, os.WriteFile(filepath.Join(c.CacheDir, cacheFileName), b, 0644))

	latest, newer, err := c.Check(context.Background(), "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest)
	assert.False(t, newer)
}

func TestCheck_ServerErrorWithoutCache(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, _, err := c.Check(context.Background(), "1.0.0")
	assert.Error(t, err)
}
