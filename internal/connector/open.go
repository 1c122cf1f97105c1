package connector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Options configures the connector chosen by Open. Remote settings are
// ignored for local targets.
type Options struct {
	APIURL       string
	Token        string
	TokenEnv     string
	ListWorkers  int
	QueueSize    int
	StrictRemote bool
}

// IsRemote reports whether target is a repository URL rather than a path.
func IsRemote(target string) bool {
	return strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "http://")
}

// Open picks a connector for target: a URL selects GitHub, a directory
// selects Folder and a file with a .zip extension selects Archive.
func Open(_ context.Context, target string, opts Options) (Connector, error) {
	if IsRemote(target) {
		var o []Option
		if opts.APIURL != "" {
			o = append(o, WithBaseURL(opts.APIURL))
		}
		if opts.TokenEnv != "" {
			o = append(o, WithTokenEnv(opts.TokenEnv))
		}
		if opts.Token != "" {
			o = append(o, WithToken(opts.Token))
		}
		o = append(o,
			WithListWorkers(opts.ListWorkers),
			WithQueueSize(opts.QueueSize),
			WithStrictListing(opts.StrictRemote),
		)
		return NewGitHub(target, o...)
	}
	st, err := os.Stat(target)
	if err != nil {
		return nil, &ConstructionError{Target: target, Err: err}
	}
	if st.IsDir() {
		return NewFolder(target)
	}
	if filepath.Ext(target) == ".zip" {
		return NewArchive(target)
	}
	return nil, &ConstructionError{Target: target, Err: ErrUnsupportedTarget}
}
