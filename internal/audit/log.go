package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gitpatrol/gitpatrol/internal/types"
)

// DefaultFileName is used when no explicit audit log path is configured.
const DefaultFileName = ".gitpatrol_audit.jsonl"

type ScanRecord struct {
	Timestamp     time.Time        `json:"timestamp"`
	ScanID        string           `json:"scan_id"`
	Source        string           `json:"source"`
	Kind          string           `json:"kind"`
	Repo          string           `json:"repo,omitempty"`
	Commit        string           `json:"commit,omitempty"`
	Branch        string           `json:"branch,omitempty"`
	Suspicious    bool             `json:"suspicious"`
	TotalFindings int              `json:"total_findings"`
	NewFindings   int              `json:"new_findings"`
	Baselined     int              `json:"baselined_count"`
	PatternCounts map[string]int   `json:"pattern_counts"`
	Minified      int              `json:"minified"`
	FilesScanned  int              `json:"files_scanned"`
	FilesSkipped  int              `json:"files_skipped,omitempty"`
	Duration      string           `json:"duration"`
	BaselineFile  string           `json:"baseline_file,omitempty"`
	TopFindings   []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Patterns []string `json:"patterns"`
	Minified bool     `json:"minified,omitempty"`
}

// AuditLog appends one JSON record per scan to a local file.
type AuditLog struct {
	logPath string
}

// NewAuditLog logs to path when set. Otherwise the log lives under dir,
// inside .git when dir is a repository checkout.
func NewAuditLog(dir, path string) *AuditLog {
	if path != "" {
		return &AuditLog{logPath: path}
	}
	logPath := filepath.Join(dir, DefaultFileName)
	gitDir := filepath.Join(dir, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "gitpatrol_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns records newest first. Reading stops at the first
// malformed record.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", time.Now().UnixNano())
	}
	if dir := filepath.Dir(a.logPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create audit log dir: %w", err)
		}
	}
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// CreateScanRecord summarizes a scan. newFindings is what remains after
// baseline filtering; only the first ten are kept as TopFindings.
func CreateScanRecord(res types.Result, newFindings []types.Finding, baselineFile string) ScanRecord {
	patternCounts := make(map[string]int)
	minified := 0
	for _, f := range res.Findings {
		for _, p := range f.Patterns {
			patternCounts[p]++
		}
		if f.Minified {
			minified++
		}
	}

	topFindings := make([]FindingSummary, 0, 10)
	for i, f := range newFindings {
		if i >= 10 {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Path:     f.Path,
			Line:     f.Line,
			Patterns: f.Patterns,
			Minified: f.Minified,
		})
	}

	return ScanRecord{
		Timestamp:     time.Now(),
		Source:        res.Source,
		Kind:          res.Kind,
		Suspicious:    res.Suspicious,
		TotalFindings: len(res.Findings),
		NewFindings:   len(newFindings),
		Baselined:     len(res.Findings) - len(newFindings),
		PatternCounts: patternCounts,
		Minified:      minified,
		FilesScanned:  res.FilesScanned,
		FilesSkipped:  res.FilesSkipped,
		Duration:      res.Duration.String(),
		BaselineFile:  baselineFile,
		TopFindings:   topFindings,
	}
}
