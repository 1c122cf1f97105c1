package connector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL reports a remote target that does not name owner/repo.
	ErrInvalidURL = errors.New("invalid GitHub URL format, expected: https://github.com/owner/repo")
	// ErrNotFound reports a missing remote repository or path.
	ErrNotFound = errors.New("repository or path not found")
	// ErrRateLimited reports exhausted remote API quota.
	ErrRateLimited = errors.New("GitHub API rate limit exceeded, set GITHUB_TOKEN to raise the limit")
	// ErrAccessDenied reports a remote resource that exists but is forbidden.
	ErrAccessDenied = errors.New("access denied")
	// ErrNoContent reports a remote file response without a content field.
	ErrNoContent = errors.New("no content in file response")
	// ErrInvalidEncoding reports content that is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")
	// ErrEntryNotFound reports an archive entry that does not exist.
	ErrEntryNotFound = errors.New("file not found in archive")
	// ErrArchiveClosed reports use of an archive after Close.
	ErrArchiveClosed = errors.New("archive is closed")
	// ErrNoFiles reports a remote walk that discovered no files at all.
	ErrNoFiles = errors.New("no files found in repository")
	// ErrUnsupportedTarget reports a target that is neither a directory, a zip file nor a URL.
	ErrUnsupportedTarget = errors.New("path must be either a directory or a zip file")
)

// ConstructionError reports an invalid target detected while creating a
// connector, before any scanning starts.
type ConstructionError struct {
	Target string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Target, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// APIError carries a non-success remote response that has no more specific
// classification.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %d - %s", e.StatusCode, e.Body)
}
