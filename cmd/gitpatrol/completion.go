package gitpatrol

import (
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var completionGenerators = map[string]func(w io.Writer) error{
	"bash":       func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":        func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
}

func completionShells() []string {
	shells := make([]string, 0, len(completionGenerators))
	for s := range completionGenerators {
		shells = append(shells, s)
	}
	sort.Strings(shells)
	return shells
}

func init() {
	cmd := &cobra.Command{
		Use:                   "completion shell",
		Short:                 "Print a shell completion script for gitpatrol",
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.OutOrStdout())
		},
		Example: `  source <(gitpatrol completion bash)
  gitpatrol completion zsh > "${fpath[1]}/_gitpatrol"
  gitpatrol completion fish > ~/.config/fish/completions/gitpatrol.fish`,
	}
	rootCmd.AddCommand(cmd)
}
