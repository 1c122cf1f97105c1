package connector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Folder reads files from a directory on the local filesystem.
type Folder struct {
	root string
}

// NewFolder returns a connector rooted at dir. dir must exist and be a
// directory.
func NewFolder(dir string) (*Folder, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &ConstructionError{Target: dir, Err: err}
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, &ConstructionError{Target: dir, Err: err}
	}
	// The root itself may be a link; entries below it are not followed.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if !st.IsDir() {
		return nil, &ConstructionError{Target: dir, Err: fmt.Errorf("not a directory")}
	}
	return &Folder{root: abs}, nil
}

// Root returns the absolute directory the connector reads from.
func (f *Folder) Root() string { return f.root }

func (f *Folder) Kind() Kind { return KindFolder }

// Enumerate walks the tree lazily. Unreadable entries are skipped and
// symbolic links are not followed.
func (f *Folder) Enumerate(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				logrus.WithFields(logrus.Fields{"path": p, "error": err}).Debug("skipping unreadable entry")
				if d != nil && d.IsDir() && p != f.root {
					return filepath.SkipDir
				}
				return nil
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(f.root, p)
			if err != nil {
				return nil
			}
			if !yield(filepath.ToSlash(rel), nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// Fetch reads root/path. I/O errors are returned unchanged.
func (f *Folder) Fetch(_ context.Context, path string) (string, error) {
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}
	b, err := os.ReadFile(filepath.Join(f.root, local))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	return string(b), nil
}

// HasManifest reports whether package.json exists at the root.
func (f *Folder) HasManifest(_ context.Context) (bool, error) {
	_, err := os.Stat(filepath.Join(f.root, ManifestFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (f *Folder) Close() error { return nil }
