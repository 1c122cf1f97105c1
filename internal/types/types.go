package types

import "time"

// Finding describes one suspicious line: where it is, how long it is, which
// suspicious patterns matched (in pattern-table order) and whether the line
// is long enough to be considered minified.
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Length   int      `json:"length"`
	Patterns []string `json:"patterns"`
	Minified bool     `json:"minified"`
	Excerpt  string   `json:"excerpt,omitempty"`     // Leading bytes of the line, for display only
	Hash     string   `json:"fingerprint,omitempty"` // Stable identity of path+line text, used by baselines
}

// Result aggregates the outcome of scanning one source.
type Result struct {
	Suspicious   bool          `json:"suspicious"`
	Findings     []Finding     `json:"findings"`
	Source       string        `json:"source,omitempty"`
	Kind         string        `json:"kind,omitempty"`
	HasManifest  bool          `json:"has_manifest"`
	FilesSeen    int           `json:"files_seen"`
	FilesScanned int           `json:"files_scanned"`
	FilesSkipped int           `json:"files_skipped"`
	LargeFiles   []string      `json:"large_files,omitempty"`
	Planned      []string      `json:"planned,omitempty"` // Paths selected during a dry run
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}
