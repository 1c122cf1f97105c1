package core

import (
	"context"

	"github.com/gitpatrol/gitpatrol/internal/connector"
	"github.com/gitpatrol/gitpatrol/internal/detect"
	"github.com/gitpatrol/gitpatrol/internal/engine"
	"github.com/gitpatrol/gitpatrol/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Finding = types.Finding
type Result = types.Result
type ScanConfig = engine.Config
type SourceOptions = connector.Options

// Options combines how the source is opened with how it is scanned.
type Options struct {
	Source SourceOptions
	Scan   ScanConfig
}

// DefaultOptions returns the settings the CLI uses when nothing is
// configured.
func DefaultOptions() Options {
	return Options{Scan: engine.DefaultConfig()}
}

// ScanContent analyzes one file's text. path is recorded in findings and is
// not read.
func ScanContent(content, path string) (bool, []Finding) {
	return detect.Analyze(content, path)
}

// ScanTarget opens target (a directory, a .zip file or a GitHub URL), scans
// it and closes it. On error the partial result is returned as well.
func ScanTarget(ctx context.Context, target string, opts Options) (Result, error) {
	conn, err := connector.Open(ctx, target, opts.Source)
	if err != nil {
		return Result{Source: target}, err
	}
	defer conn.Close()
	res, err := engine.New(conn, opts.Scan).Scan(ctx)
	res.Source = target
	return res, err
}

// SuspiciousPatterns lists the indicators the detector looks for.
func SuspiciousPatterns() []string { return detect.SuspiciousPatterns() }
