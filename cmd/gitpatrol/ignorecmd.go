package gitpatrol

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gitpatrol/gitpatrol/internal/files"
	"github.com/gitpatrol/gitpatrol/internal/ignore"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{Use: "ignore", Short: "Manage the " + ignore.FileName + " file"}

	var root string
	var generated bool
	add := &cobra.Command{
		Use:   "add [pattern...]",
		Short: "Append gitignore-style patterns to " + ignore.FileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if generated {
				patterns = append(patterns, files.DefaultGeneratedIgnores()...)
			}
			if len(patterns) == 0 {
				return errors.New("no patterns given (pass patterns or --generated)")
			}
			added, err := files.AppendIgnore(root, patterns...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintln(w, "All patterns already present.")
				return nil
			}
			for _, p := range added {
				fmt.Fprintln(w, "added", p)
			}
			return nil
		},
	}
	add.Flags().StringVarP(&root, "path", "p", ".", "directory holding the ignore file")
	add.Flags().BoolVar(&generated, "generated", false, "add common bundler output patterns")

	var checkRoot string
	check := &cobra.Command{
		Use:   "check path...",
		Short: "Report which paths " + ignore.FileName + " excludes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ignore.Load(filepath.Join(checkRoot, ignore.FileName))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range args {
				verdict := "kept"
				if m.Match(filepath.ToSlash(p)) {
					verdict = "ignored"
				}
				fmt.Fprintf(w, "%-8s %s\n", verdict, p)
			}
			return nil
		},
	}
	check.Flags().StringVarP(&checkRoot, "path", "p", ".", "directory holding the ignore file")

	cmd.AddCommand(add, check)
	rootCmd.AddCommand(cmd)
}
