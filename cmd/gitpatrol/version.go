package gitpatrol

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the GitPatrol version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gitpatrol", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update gitpatrol to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := selfUpdate()
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			if v == version {
				fmt.Fprintln(cmd.OutOrStdout(), "gitpatrol is up to date:", v)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated to", v)
			return nil
		},
	})
}
