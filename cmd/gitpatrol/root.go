package gitpatrol

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gitpatrol/gitpatrol/internal/config"
	"github.com/gitpatrol/gitpatrol/internal/logging"
	"github.com/gitpatrol/gitpatrol/internal/tui"
	"github.com/spf13/cobra"
)

var (
	flagNoColor       bool
	flagLogLevel      string
	flagLogFile       string
	flagNoUpdateCheck bool

	version = "0.1.0"

	logCloser io.Closer
)

// rootCmd is the base Cobra command for the GitPatrol CLI.
var rootCmd = &cobra.Command{
	Use:   "gitpatrol",
	Short: "Detect obfuscated JavaScript in source trees",
	Long: "GitPatrol scans a local folder, a zip archive or a GitHub repository for " +
		"JavaScript and TypeScript lines that combine obfuscation indicators.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// exitError carries a non-error exit status, such as a suspicious verdict,
// out of a command so Execute can apply it.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

var errSuspicious = &exitError{code: 1}

// Execute runs the GitPatrol CLI. It should be called by the main package.
func Execute() {
	err := rootCmd.Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(2)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "diagnostic log level: debug|info|warn|error (default warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append diagnostics to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}

// setupLogging applies CLI and global settings. scan re-applies it once the
// repo-local config is known.
func setupLogging(_ *cobra.Command, _ []string) error {
	var gcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	return initLogging(gcfg, config.FileConfig{})
}

func initLogging(gcfg, lcfg config.FileConfig) error {
	level := pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel)
	if level == "" {
		level = "warn"
	}
	file := pickString(flagLogFile, lcfg.LogFile, gcfg.LogFile)
	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
	if logCloser != nil {
		_ = logCloser.Close()
	}
	c, err := logging.Init(level, file, !noColor && tui.Enabled(os.Stderr))
	logCloser = c
	return err
}
