package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// MarshalFindings writes findings as an indented JSON array ordered by path
// and line. The caller's slice is not reordered. A nil slice is written as [].
func MarshalFindings(w io.Writer, findings []Finding) error {
	out := make([]Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Line < out[j].Line
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// UnmarshalFindings reads a single JSON array of findings as written by
// MarshalFindings. JSON null decodes to an empty list. Entries without a
// path or with a line below 1 are rejected.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	dec := json.NewDecoder(r)
	var fs []Finding
	if err := dec.Decode(&fs); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode findings: trailing data after array")
	}
	for i, f := range fs {
		if f.Path == "" || f.Line < 1 {
			return nil, fmt.Errorf("finding %d: missing path or line", i)
		}
	}
	if fs == nil {
		fs = []Finding{}
	}
	return fs, nil
}
