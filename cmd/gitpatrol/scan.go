package gitpatrol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gitpatrol/gitpatrol/internal/audit"
	"github.com/gitpatrol/gitpatrol/internal/config"
	"github.com/gitpatrol/gitpatrol/internal/connector"
	"github.com/gitpatrol/gitpatrol/internal/git"
	"github.com/gitpatrol/gitpatrol/internal/report"
	"github.com/gitpatrol/gitpatrol/internal/tui"
	"github.com/gitpatrol/gitpatrol/internal/types"
	"github.com/gitpatrol/gitpatrol/internal/update"
	"github.com/gitpatrol/gitpatrol/pkg/core"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagPath            string
	flagURL             string
	flagFormat          string
	flagInclude         string
	flagExclude         string
	flagDefaultExcludes bool
	flagKeepGoing       bool
	flagDryRun          bool
	flagListWorkers     int
	flagQueueSize       int
	flagStrictRemote    bool
	flagAPIURL          string
	flagTokenEnv        string
	flagTimeout         time.Duration
	flagBaseline        string
	flagAuditLog        string
	flagIgnoreFile      string
	flagNoProgress      bool
)

var formats = map[string]bool{"text": true, "table": true, "json": true, "sarif": true}

func init() {
	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Scan a folder, zip archive or GitHub repository",
		Long: "Scan analyzes every .js, .ts, .jsx and .tsx file of the target. The target is " +
			"a directory, a .zip file or a https://github.com/owner/repo URL, given " +
			"positionally or with --path / --url.",
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "directory or .zip file to scan")
	cmd.Flags().StringVarP(&flagURL, "url", "u", "", "GitHub repository URL to scan")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: text|table|json|sarif (default text)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", false, "skip dependency and build output folders (node_modules, dist, ...)")
	cmd.Flags().BoolVar(&flagKeepGoing, "keep-going", false, "skip files that cannot be fetched instead of aborting")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the files that would be analyzed without fetching them")
	cmd.Flags().IntVar(&flagListWorkers, "list-workers", 0, "concurrent directory listings for remote repositories (default 1)")
	cmd.Flags().IntVar(&flagQueueSize, "queue-size", 0, "remote paths buffered ahead of the scanner (default 32)")
	cmd.Flags().BoolVar(&flagStrictRemote, "strict-remote", false, "abort when any remote directory listing fails")
	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "GitHub API base URL (GitHub Enterprise)")
	cmd.Flags().StringVar(&flagTokenEnv, "token-env", "", "environment variable holding the GitHub token (default GITHUB_TOKEN)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "abort the scan after this long (e.g. 2m)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file of accepted findings (default "+report.DefaultBaselineFile+")")
	cmd.Flags().StringVar(&flagAuditLog, "audit-log", "", "append a JSON record of this scan to the given file")
	cmd.Flags().StringVar(&flagIgnoreFile, "ignore-file", "", "ignore file read from the source root (default .gitpatrolignore)")
	cmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable the progress spinner")
}

// resolveTarget accepts exactly one of a positional target, --url or
// --path, falling back to the current directory.
func resolveTarget(cmd *cobra.Command, args []string) (string, error) {
	given := 0
	target := flagPath
	if cmd.Flags().Changed("path") {
		given++
	}
	if flagURL != "" {
		given++
		target = flagURL
	}
	if len(args) == 1 {
		given++
		target = args[0]
	}
	if given > 1 {
		return "", errors.New("specify only one of --path, --url or a positional target")
	}
	return target, nil
}

// configRoot is where repo-local config is looked up for target.
func configRoot(target string) string {
	if connector.IsRemote(target) {
		return "."
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

// loadConfigs returns the global and repo-local configs; missing files
// yield zero values.
func loadConfigs(root string) (gcfg, lcfg config.FileConfig) {
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	}
	return gcfg, lcfg
}

// buildOptions resolves CLI > local > global into scan options.
func buildOptions(gcfg, lcfg config.FileConfig) core.Options {
	opts := core.DefaultOptions()
	lr, gr := lcfg.GetRemote(), gcfg.GetRemote()
	opts.Source = core.SourceOptions{
		APIURL:       pickString(flagAPIURL, lr.APIURL, gr.APIURL),
		TokenEnv:     pickString(flagTokenEnv, lr.TokenEnv, gr.TokenEnv),
		ListWorkers:  pickInt(flagListWorkers, lr.ListWorkers, gr.ListWorkers),
		QueueSize:    pickInt(flagQueueSize, lr.QueueSize, gr.QueueSize),
		StrictRemote: pickBool(flagStrictRemote, lr.Strict, gr.Strict),
	}
	opts.Scan.IncludeGlobs = pickString(flagInclude, lcfg.Include, gcfg.Include)
	opts.Scan.ExcludeGlobs = pickString(flagExclude, lcfg.Exclude, gcfg.Exclude)
	opts.Scan.DefaultExcludes = pickBool(flagDefaultExcludes, lcfg.DefaultExcludes, gcfg.DefaultExcludes)
	opts.Scan.KeepGoing = pickBool(flagKeepGoing, lcfg.KeepGoing, gcfg.KeepGoing)
	opts.Scan.DryRun = flagDryRun
	if f := pickString(flagIgnoreFile, lcfg.IgnoreFile, gcfg.IgnoreFile); f != "" {
		opts.Scan.IgnoreFile = f
	}
	return opts
}

func runScan(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget(cmd, args)
	if err != nil {
		return err
	}
	gcfg, lcfg := loadConfigs(configRoot(target))
	if err := initLogging(gcfg, lcfg); err != nil {
		return err
	}

	format := pickString(flagFormat, lcfg.Format, gcfg.Format)
	if format == "" {
		format = "text"
	}
	if !formats[format] {
		return fmt.Errorf("unsupported format %q (want text, table, json or sarif)", format)
	}
	human := format == "text" || format == "table"
	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
	opts := buildOptions(gcfg, lcfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	timeout := pickDuration(flagTimeout, lcfg.Timeout, gcfg.Timeout)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stderr := cmd.ErrOrStderr()
	if human && !flagNoUpdateCheck {
		checkForUpdate(ctx, stderr)
	}

	var progress *tui.Progress
	logsToSpinner := false
	if human && !flagNoProgress && tui.Enabled(os.Stderr) {
		progress = tui.StartProgress(os.Stderr)
		opts.Scan.Progress = progress.Report
		if logrus.StandardLogger().Out == os.Stderr {
			logrus.SetOutput(progress)
			logsToSpinner = true
		}
	}
	log := logrus.WithField("target", target)
	log.WithFields(logrus.Fields{
		"include":    opts.Scan.IncludeGlobs,
		"exclude":    opts.Scan.ExcludeGlobs,
		"keep_going": opts.Scan.KeepGoing,
	}).Debug("starting scan")
	res, err := core.ScanTarget(ctx, target, opts)
	if progress != nil {
		progress.Stop()
		if logsToSpinner {
			logrus.SetOutput(os.Stderr)
		}
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("scan timed out after %s: %w", timeout, err)
		}
		return fmt.Errorf("scan %s: %w", target, err)
	}
	for _, e := range res.Errors {
		fmt.Fprintln(stderr, "warning: skipped", e)
	}

	out := cmd.OutOrStdout()
	if opts.Scan.DryRun {
		return writeDryRun(out, format, res)
	}

	baselinePath := pickString(flagBaseline, lcfg.Baseline, gcfg.Baseline)
	if baselinePath == "" {
		baselinePath = report.DefaultBaselineFile
	}
	base, err := report.LoadBaseline(baselinePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not read baseline")
	}
	newFindings := report.FilterNewFindings(res.Findings, base)
	if newFindings == nil {
		newFindings = []types.Finding{}
	}

	popts := report.OptionsFromResult(res, noColor)
	popts.Baselined = len(res.Findings) - len(newFindings)
	switch format {
	case "sarif":
		if err := report.WriteSARIF(out, newFindings, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case "json":
		shown := res
		shown.Findings = newFindings
		shown.Suspicious = len(newFindings) > 0
		if err := report.WriteJSON(out, shown); err != nil {
			return err
		}
	case "table":
		report.PrintTable(out, newFindings, popts)
	default:
		report.PrintText(out, newFindings, popts)
	}

	if auditPath := pickString(flagAuditLog, lcfg.AuditLog, gcfg.AuditLog); auditPath != "" {
		record := audit.CreateScanRecord(res, newFindings, baselinePath)
		if res.Kind == string(connector.KindFolder) {
			if md, err := git.RepoMetadata(target); err == nil {
				record.Repo, record.Commit, record.Branch = md.Repo, md.Commit, md.Branch
			}
		}
		if err := audit.NewAuditLog(".", auditPath).LogScan(record); err != nil {
			log.WithError(err).Warn("audit log not written")
		}
	}

	if len(newFindings) > 0 {
		return errSuspicious
	}
	return nil
}

func writeDryRun(w io.Writer, format string, res types.Result) error {
	if format == "json" {
		return report.WriteJSON(w, res)
	}
	for _, p := range res.Planned {
		fmt.Fprintln(w, p)
	}
	fmt.Fprintf(w, "%d of %d files would be analyzed\n", len(res.Planned), res.FilesSeen)
	return nil
}

func checkForUpdate(ctx context.Context, w io.Writer) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	latest, newer, err := update.NewChecker().Check(ctx, version)
	if err != nil {
		logrus.WithError(err).Debug("update check failed")
		return
	}
	if newer {
		fmt.Fprintf(w, "(new version available: %s)  run 'gitpatrol update' to upgrade\n", latest)
	}
}
