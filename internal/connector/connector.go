package connector

import (
	"context"
	"iter"
)

// ManifestFile is the project manifest whose presence a connector reports.
const ManifestFile = "package.json"

// Kind identifies the source behind a connector.
type Kind string

const (
	KindFolder  Kind = "folder"
	KindArchive Kind = "archive"
	KindGitHub  Kind = "github"
)

// Connector is a uniform, read-only view over a source tree. Paths are
// root-relative and use forward slashes.
type Connector interface {
	// Enumerate lazily yields every file path in the source. A non-nil
	// error ends the sequence.
	Enumerate(ctx context.Context) iter.Seq2[string, error]
	// Fetch returns the UTF-8 text content of one file.
	Fetch(ctx context.Context, path string) (string, error)
	// HasManifest reports whether the source contains a package.json.
	HasManifest(ctx context.Context) (bool, error)
	Kind() Kind
	Close() error
}
