package detect

// Pattern tables are fixed at build time. Callers get copies so the tables
// stay immutable for the life of the process.
var suspiciousPatterns = [...]string{
	"_0x",
	"eval(",
	`\x`,
	"base64",
	"fromCharCode",
	"unescape(",
}

var safePatterns = [...]string{
	"!function(e,t)",
	"/*! ",
	"(function(f)",
}

const (
	// MaxLineLength is the byte length above which a line counts as minified.
	MaxLineLength = 500
	// MaxFileSize is the size above which a file is reported as large.
	// It never gates analysis.
	MaxFileSize = 1 << 20
	// excerptLen bounds the line prefix kept on a finding for display.
	excerptLen = 160
)

// sourceExtensions are matched as case-sensitive suffixes.
var sourceExtensions = [...]string{".js", ".ts", ".jsx", ".tsx"}

// SuspiciousPatterns returns the obfuscation indicators in evaluation order.
func SuspiciousPatterns() []string {
	out := make([]string, len(suspiciousPatterns))
	copy(out, suspiciousPatterns[:])
	return out
}

// SafePatterns returns the allow-list markers of known-benign bundler output.
func SafePatterns() []string {
	out := make([]string, len(safePatterns))
	copy(out, safePatterns[:])
	return out
}

// SourceExtensions returns the file suffixes that are analyzed.
func SourceExtensions() []string {
	out := make([]string, len(sourceExtensions))
	copy(out, sourceExtensions[:])
	return out
}
