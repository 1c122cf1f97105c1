package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/gitpatrol/gitpatrol/internal/detect"
	"github.com/gitpatrol/gitpatrol/internal/types"
	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor      bool
	Source       string
	Kind         string
	HasManifest  bool
	Duration     time.Duration
	FilesSeen    int
	FilesScanned int
	FilesSkipped int
	LargeFiles   []string
	Baselined    int
}

// OptionsFromResult fills the summary fields of PrintOptions from res.
func OptionsFromResult(res types.Result, noColor bool) PrintOptions {
	return PrintOptions{
		NoColor:      noColor,
		Source:       res.Source,
		Kind:         res.Kind,
		HasManifest:  res.HasManifest,
		Duration:     res.Duration,
		FilesSeen:    res.FilesSeen,
		FilesScanned: res.FilesScanned,
		FilesSkipped: res.FilesSkipped,
		LargeFiles:   res.LargeFiles,
	}
}

var (
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

type painter struct{ noColor bool }

func (p painter) paint(s lipgloss.Style, text string) string {
	if p.noColor {
		return text
	}
	return s.Render(text)
}

func sortFindings(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path == findings[j].Path {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Path < findings[j].Path
	})
}

// PrintText writes one block per finding followed by a verdict and summary.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sortFindings(findings)
	p := painter{noColor: opts.NoColor}
	printHeader(w, p, opts)
	for _, f := range findings {
		fmt.Fprintf(w, "\n  %s\n", p.paint(warnStyle, "WARNING: Suspicious code detected"))
		fmt.Fprintf(w, "  %s %s\n", p.paint(labelStyle, "File:"), p.paint(valueStyle, f.Path))
		fmt.Fprintf(w, "  %s %s\n", p.paint(labelStyle, "Line:"), p.paint(valueStyle, strconv.Itoa(f.Line)))
		if f.Minified {
			fmt.Fprintf(w, "    %s\n", p.paint(alertStyle, fmt.Sprintf("Minified/obfuscated code (length: %d chars)", f.Length)))
		}
		if len(f.Patterns) > 0 {
			fmt.Fprintf(w, "    %s %s\n", p.paint(alertStyle, "Suspicious patterns:"), strings.Join(f.Patterns, ", "))
		}
		if f.Excerpt != "" {
			excerpt := f.Excerpt
			if !opts.NoColor {
				excerpt = highlightLine(excerpt, f.Path)
			}
			fmt.Fprintf(w, "    > %s\n", excerpt)
		}
		fmt.Fprintln(w, p.paint(dimStyle, strings.Repeat("─", 50)))
	}
	printVerdict(w, p, len(findings) > 0)
	printFooter(w, p, findings, opts)
}

// PrintTable renders findings as a bordered table.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sortFindings(findings)
	p := painter{noColor: opts.NoColor}
	printHeader(w, p, opts)
	if len(findings) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header("PATH", "LINE", "LENGTH", "MINIFIED", "PATTERNS")
		for _, f := range findings {
			minified := ""
			if f.Minified {
				minified = "yes"
			}
			_ = table.Append([]string{f.Path, strconv.Itoa(f.Line), strconv.Itoa(f.Length), minified, strings.Join(f.Patterns, " ")})
		}
		_ = table.Render()
	}
	printVerdict(w, p, len(findings) > 0)
	printFooter(w, p, findings, opts)
}

func printHeader(w io.Writer, p painter, opts PrintOptions) {
	if opts.Source == "" {
		return
	}
	fmt.Fprintf(w, "%s %s", p.paint(labelStyle, "Analyzing "+kindLabel(opts.Kind)+":"), p.paint(valueStyle, opts.Source))
	if opts.HasManifest {
		fmt.Fprintf(w, " %s", p.paint(dimStyle, "(package.json present)"))
	}
	fmt.Fprintln(w)
	for _, lf := range opts.LargeFiles {
		fmt.Fprintf(w, "%s %s exceeds %d bytes\n", p.paint(warnStyle, "note:"), lf, detect.MaxFileSize)
	}
}

func printVerdict(w io.Writer, p painter, suspicious bool) {
	fmt.Fprintln(w)
	if suspicious {
		fmt.Fprintf(w, "Analysis result: %s\n", p.paint(badStyle, "Suspicious patterns detected"))
		return
	}
	fmt.Fprintf(w, "Analysis result: %s\n", p.paint(okStyle, "No suspicious patterns found"))
}

func printFooter(w io.Writer, p painter, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	minified := 0
	for _, f := range findings {
		if f.Minified {
			minified++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (minified: %d)\n", len(findings), minified)
	if opts.Baselined > 0 {
		fmt.Fprintf(w, "Baselined: %d\n", opts.Baselined)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d of %d\n", opts.FilesScanned, opts.FilesSeen)
	}
	if opts.FilesSkipped > 0 {
		fmt.Fprintf(w, "%s %d files could not be fetched\n", p.paint(warnStyle, "Skipped:"), opts.FilesSkipped)
	}
}

func kindLabel(kind string) string {
	switch kind {
	case "archive":
		return "zip file"
	case "github":
		return "GitHub repository"
	default:
		return "folder"
	}
}

func highlightLine(line string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return line
	}

	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimRight(buf.String(), "\n")
}
