package gitpatrol

import (
	"fmt"
	"os"
	"strings"

	"github.com/gitpatrol/gitpatrol/internal/config"
	"github.com/gitpatrol/gitpatrol/internal/connector"
	"github.com/gitpatrol/gitpatrol/internal/ignore"
	"github.com/gitpatrol/gitpatrol/internal/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgOutput          string
	cfgInclude         string
	cfgExclude         string
	cfgFormat          string
	cfgKeepGoing       bool
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgListWorkers     int
	cfgForce           bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .gitpatrol.yml with the given defaults",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".gitpatrol.yml", "output file path")
	initCmd.Flags().StringVar(&cfgInclude, "include", "", "comma-separated include globs")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().StringVar(&cfgFormat, "format", "text", "default output format")
	initCmd.Flags().BoolVar(&cfgKeepGoing, "keep-going", false, "skip unreadable files by default")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "skip dependency and build output folders")
	initCmd.Flags().IntVar(&cfgListWorkers, "list-workers", 4, "concurrent remote directory listings")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}
	if !formats[cfgFormat] {
		return fmt.Errorf("unsupported format %q", cfgFormat)
	}
	fc := config.FileConfig{
		Include:         optStrPtr(cfgInclude),
		Exclude:         optStrPtr(cfgExclude),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		KeepGoing:       boolPtr(cfgKeepGoing),
		NoColor:         boolPtr(cfgNoColor),
		Format:          strPtr(cfgFormat),
		IgnoreFile:      strPtr(ignore.FileName),
		Baseline:        strPtr(report.DefaultBaselineFile),
		Remote: &config.RemoteConfig{
			TokenEnv:    strPtr(connector.DefaultTokenEnv),
			ListWorkers: intPtr(cfgListWorkers),
		},
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func boolPtr(v bool) *bool { return &v }
