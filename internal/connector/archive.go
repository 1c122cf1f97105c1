package connector

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
	"unicode/utf8"
)

// Archive reads entries from a zip file. The open handle is shared between
// enumeration and fetches, so every access goes through mu.
type Archive struct {
	path        string
	mu          sync.Mutex
	zr          *zip.ReadCloser
	hasManifest bool
}

// NewArchive opens the zip file at path. Manifest presence is determined
// once, at open time.
func NewArchive(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ConstructionError{Target: path, Err: err}
	}
	a := &Archive{path: path, zr: zr}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ManifestFile) {
			a.hasManifest = true
			break
		}
	}
	return a, nil
}

func (a *Archive) Kind() Kind { return KindArchive }

// Enumerate yields entry names verbatim, directory markers included. The
// lock is held only while one name is read.
func (a *Archive) Enumerate(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i := 0; ; i++ {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			name, ok, err := a.entryName(i)
			if err != nil {
				yield("", err)
				return
			}
			if !ok {
				return
			}
			if !yield(name, nil) {
				return
			}
		}
	}
}

func (a *Archive) entryName(i int) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.zr == nil {
		return "", false, ErrArchiveClosed
	}
	if i >= len(a.zr.File) {
		return "", false, nil
	}
	return a.zr.File[i].Name, true, nil
}

// Fetch reads the entry whose name equals path exactly.
func (a *Archive) Fetch(_ context.Context, path string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.zr == nil {
		return "", ErrArchiveClosed
	}
	for _, f := range a.zr.File {
		if f.Name != path {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrEntryNotFound)
}

// HasManifest reports whether any entry name ends in package.json.
func (a *Archive) HasManifest(_ context.Context) (bool, error) {
	return a.hasManifest, nil
}

// Close releases the archive handle. Later operations fail with
// ErrArchiveClosed.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.zr == nil {
		return nil
	}
	err := a.zr.Close()
	a.zr = nil
	return err
}
