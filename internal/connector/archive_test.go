package connector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_EnumerateVerbatim(t *testing.T) {
	p := writeZip(t, []zipEntry{
		{name: "src/"},
		{name: "src/index.js", body: "a"},
		{name: "README.md", body: "b"},
	})
	a, err := NewArchive(p)
	require.NoError(t, err)
	defer a.Close()

	var got []string
	for name, err := range a.Enumerate(context.Background()) {
		require.NoError(t, err)
		got = append(got, name)
	}
	assert.Equal(t, []string{"src/", "src/index.js", "README.md"}, got)
}

func TestArchive_Fetch(t *testing.T) {
	p := writeZip(t, []zipEntry{
		{name: "src/index.js", body: "var a = 1;"},
		{name: "blob.js", body: "\xff\xfe"},
	})
	a, err := NewArchive(p)
	require.NoError(t, err)
	defer a.Close()

	got, err := a.Fetch(context.Background(), "src/index.js")
	require.NoError(t, err)
	assert.Equal(t, "var a = 1;", got)

	_, err = a.Fetch(context.Background(), "index.js")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = a.Fetch(context.Background(), "blob.js")
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestArchive_ConcurrentEnumerateAndFetch(t *testing.T) {
	var entries []zipEntry
	for i := 0; i < 50; i++ {
		entries = append(entries, zipEntry{name: fmt.Sprintf("lib/m%02d.js", i), body: fmt.Sprintf("export const v = %d\n", i)})
	}
	a, err := NewArchive(writeZip(t, entries))
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	errs := make(chan error, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n := 0
		for _, err := range a.Enumerate(ctx) {
			if err != nil {
				errs <- err
				return
			}
			n++
		}
		if n != len(entries) {
			errs <- fmt.Errorf("enumerated %d entries, want %d", n, len(entries))
		}
	}()
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(entries); i += 4 {
				got, err := a.Fetch(ctx, entries[i].name)
				if err != nil {
					errs <- err
					return
				}
				if got != entries[i].body {
					errs <- fmt.Errorf("%s: got %q", entries[i].name, got)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestArchive_HasManifestAnyDepth(t *testing.T) {
	with := writeZip(t, []zipEntry{{name: "pkg/package.json", body: "{}"}})
	a, err := NewArchive(with)
	require.NoError(t, err)
	defer a.Close()
	ok, err := a.HasManifest(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	without := writeZip(t, []zipEntry{{name: "index.js", body: "x"}})
	b, err := NewArchive(without)
	require.NoError(t, err)
	defer b.Close()
	ok, err = b.HasManifest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArchive_ClosedHandle(t *testing.T) {
	p := writeZip(t, []zipEntry{{name: "a.js", body: "x"}})
	a, err := NewArchive(p)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	_, err = a.Fetch(context.Background(), "a.js")
	assert.ErrorIs(t, err, ErrArchiveClosed)

	var gotErr error
	for _, err := range a.Enumerate(context.Background()) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, ErrArchiveClosed)
}

func TestNewArchive_NotAZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fake.zip")
	require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0o644))
	_, err := NewArchive(p)
	var ce *ConstructionError
	assert.ErrorAs(t, err, &ce)
}
