package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Metadata identifies the checkout a local scan ran against.
type Metadata struct {
	Repo   string // owner/name when the origin is recognisable, else the raw URL
	Commit string
	Branch string
}

// RepoMetadata reads origin, HEAD and branch for the repository containing
// root. Parent directories are searched for .git. Fields that cannot be
// determined are left empty; the error is non-nil only when no repository
// is found.
func RepoMetadata(root string) (Metadata, error) {
	if strings.ContainsRune(root, 0) {
		return Metadata{}, fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid path %q: %w", root, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Metadata{}, err
	}

	var md Metadata
	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			md.Repo = shortRepo(urls[0])
		}
	}
	if head, err := repo.Head(); err == nil {
		md.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
	}
	return md, nil
}

// shortRepo reduces common GitHub remote forms to owner/name.
func shortRepo(u string) string {
	s := strings.TrimSuffix(strings.TrimSpace(u), ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	if i := strings.Index(s, "github.com:"); i >= 0 {
		return s[i+len("github.com:"):]
	}
	return s
}
