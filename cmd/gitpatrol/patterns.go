package gitpatrol

import (
	"fmt"
	"strings"

	"github.com/gitpatrol/gitpatrol/internal/detect"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the indicators and exemptions the detector uses",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Suspicious patterns:")
			for _, p := range detect.SuspiciousPatterns() {
				fmt.Fprintf(w, "  %s\n", p)
			}
			fmt.Fprintln(w, "Safe patterns (line is never flagged):")
			for _, p := range detect.SafePatterns() {
				fmt.Fprintf(w, "  %s\n", p)
			}
			fmt.Fprintf(w, "Analyzed extensions: %s\n", strings.Join(detect.SourceExtensions(), " "))
			fmt.Fprintf(w, "A line is flagged with 2 or more patterns, or 1 pattern when longer than %d bytes.\n", detect.MaxLineLength)
		},
	}
	rootCmd.AddCommand(cmd)
}
