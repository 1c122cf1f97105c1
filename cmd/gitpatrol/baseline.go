package gitpatrol

import (
	"fmt"

	"github.com/gitpatrol/gitpatrol/internal/report"
	"github.com/gitpatrol/gitpatrol/pkg/core"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var output string
	update := &cobra.Command{
		Use:   "update [target]",
		Short: "Accept every current finding of target (default .)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			gcfg, lcfg := loadConfigs(configRoot(target))
			path := pickString(output, lcfg.Baseline, gcfg.Baseline)
			if path == "" {
				path = report.DefaultBaselineFile
			}
			res, err := core.ScanTarget(cmd.Context(), target, buildOptions(gcfg, lcfg))
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(path, res.Findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings accepted in %s\n", len(res.Findings), path)
			return nil
		},
	}
	update.Flags().StringVarP(&output, "output", "o", "", "baseline file to write (default "+report.DefaultBaselineFile+")")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
