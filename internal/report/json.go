package report

import (
	"encoding/json"
	"io"

	"github.com/gitpatrol/gitpatrol/internal/types"
)

// WriteJSON writes the full scan result. Findings is always an array.
func WriteJSON(w io.Writer, res types.Result) error {
	if res.Findings == nil {
		res.Findings = []types.Finding{}
	}
	sortFindings(res.Findings)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
