package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gitpatrol/gitpatrol/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLoc        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Properties          map[string]any    `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int           `json:"startLine"`
	Snippet   *sarifMessage `json:"snippet,omitempty"`
}

const (
	ruleMinified = "GP001"
	rulePatterns = "GP002"
)

var sarifRules = []sarifRule{
	{ID: ruleMinified, Name: "minified-obfuscation", ShortDescription: sarifMessage{Text: "Overlong line containing an obfuscation indicator"}},
	{ID: rulePatterns, Name: "obfuscation-patterns", ShortDescription: sarifMessage{Text: "Line combining several obfuscation indicators"}},
}

// WriteSARIF writes findings as SARIF 2.1.0 to the provided writer.
func WriteSARIF(w io.Writer, findings []types.Finding, version string) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "gitpatrol",
			Version:        version,
			InformationURI: "https://github.com/gitpatrol/gitpatrol",
			Rules:          sarifRules,
		}},
		Results: []sarifResult{},
	}
	for _, f := range findings {
		rule, idx, level := rulePatterns, 1, "warning"
		if f.Minified {
			rule, idx, level = ruleMinified, 0, "error"
		}
		var snippet *sarifMessage
		if f.Excerpt != "" {
			snippet = &sarifMessage{Text: f.Excerpt}
		}
		res := sarifResult{
			RuleID:    rule,
			RuleIndex: idx,
			Level:     level,
			Message:   sarifMessage{Text: "Suspicious code: " + strings.Join(f.Patterns, ", ")},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region:           sarifRegion{StartLine: f.Line, Snippet: snippet},
				},
			}},
			Properties: map[string]any{"patterns": f.Patterns, "length": f.Length},
		}
		if f.Hash != "" {
			res.PartialFingerprints = map[string]string{"lineHash/v1": f.Hash}
		}
		run.Results = append(run.Results, res)
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
