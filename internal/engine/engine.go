package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gitpatrol/gitpatrol/internal/connector"
	"github.com/gitpatrol/gitpatrol/internal/detect"
	"github.com/gitpatrol/gitpatrol/internal/ignore"
	"github.com/gitpatrol/gitpatrol/internal/types"
	"github.com/sirupsen/logrus"
)

// Stage is the scanner's position in its per-file loop.
type Stage int

const (
	StageIdle Stage = iota
	StageEnumerating
	StageFetching
	StageAnalyzing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageEnumerating:
		return "enumerating"
	case StageFetching:
		return "fetching"
	case StageAnalyzing:
		return "analyzing"
	case StageDone:
		return "done"
	default:
		return "idle"
	}
}

// Config controls which files are analyzed and how failures are handled.
type Config struct {
	IncludeGlobs    string
	ExcludeGlobs    string
	DefaultExcludes bool
	// IgnoreFile is fetched from the source root; empty disables it.
	IgnoreFile string
	// KeepGoing skips files whose content cannot be fetched instead of
	// aborting the scan. Enumeration errors stay fatal.
	KeepGoing bool
	DryRun    bool
	Progress  func(stage Stage, path string)
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{IgnoreFile: ignore.FileName}
}

// Scanner drives one connector through enumerate, fetch and analyze.
type Scanner struct {
	conn  connector.Connector
	cfg   Config
	globs globFilter
	log   *logrus.Entry
}

// New returns a scanner over conn. The scanner does not close conn.
func New(conn connector.Connector, cfg Config) *Scanner {
	return &Scanner{
		conn:  conn,
		cfg:   cfg,
		globs: newGlobFilter(cfg),
		log:   logrus.WithField("source", string(conn.Kind())),
	}
}

// Scan runs to completion or to the first fatal error. On error the partial
// result gathered so far is returned alongside it.
func (s *Scanner) Scan(ctx context.Context) (types.Result, error) {
	start := time.Now()
	res := types.Result{Kind: string(s.conn.Kind())}

	if ok, err := s.conn.HasManifest(ctx); err == nil {
		res.HasManifest = ok
	} else {
		s.log.WithError(err).Warn("manifest check failed")
	}
	ign := s.loadIgnore(ctx)

	s.progress(StageEnumerating, "")
	for p, err := range s.conn.Enumerate(ctx) {
		if err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("enumerate: %w", err)
		}
		res.FilesSeen++
		if !s.selected(p, ign) {
			continue
		}
		if s.cfg.DryRun {
			res.Planned = append(res.Planned, p)
			continue
		}

		s.progress(StageFetching, p)
		content, err := s.conn.Fetch(ctx, p)
		if err != nil {
			if s.cfg.KeepGoing && ctx.Err() == nil && !errors.Is(err, connector.ErrRateLimited) {
				s.log.WithFields(logrus.Fields{"path": p, "error": err}).Warn("skipping file")
				res.FilesSkipped++
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p, err))
				continue
			}
			res.Duration = time.Since(start)
			return res, fmt.Errorf("fetch %s: %w", p, err)
		}

		s.progress(StageAnalyzing, p)
		if detect.IsLarge(content) {
			res.LargeFiles = append(res.LargeFiles, p)
		}
		found, findings := detect.Analyze(content, p)
		res.FilesScanned++
		if found {
			res.Suspicious = true
			res.Findings = append(res.Findings, findings...)
		}
	}
	s.progress(StageDone, "")
	s.log.WithFields(logrus.Fields{
		"seen":     res.FilesSeen,
		"scanned":  res.FilesScanned,
		"findings": len(res.Findings),
	}).Debug("scan complete")
	res.Duration = time.Since(start)
	return res, nil
}

func (s *Scanner) selected(p string, ign ignore.Matcher) bool {
	if !detect.IsSourceFile(p) {
		return false
	}
	if s.cfg.DefaultExcludes && isDefaultExcluded(p) {
		return false
	}
	if !s.globs.allows(p) {
		return false
	}
	return !ign.Match(p)
}

// loadIgnore reads the ignore file through the connector so it works for
// every source. A missing or unreadable file means no rules.
func (s *Scanner) loadIgnore(ctx context.Context) ignore.Matcher {
	if s.cfg.IgnoreFile == "" {
		return ignore.Matcher{}
	}
	content, err := s.conn.Fetch(ctx, s.cfg.IgnoreFile)
	if err != nil {
		s.log.WithError(err).Debug("no ignore file")
		return ignore.Matcher{}
	}
	return ignore.Parse(content)
}

func (s *Scanner) progress(stage Stage, path string) {
	if s.cfg.Progress != nil {
		s.cfg.Progress(stage, path)
	}
}
