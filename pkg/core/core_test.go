package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gitpatrol/gitpatrol/internal/connector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanContent(t *testing.T) {
	ok, findings := ScanContent("var s = eval(String.fromCharCode(72, 105));\n", "a.js")
	require.True(t, ok)
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"eval(", "fromCharCode"}, findings[0].Patterns)

	ok, findings = ScanContent("console.log('hello')\n", "a.js")
	assert.False(t, ok)
	assert.Empty(t, findings)
}

func TestScanTarget_Folder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.js"), []byte("var a = 1;\nunescape(atob(base64Blob));\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("eval( fromCharCode"), 0o644))

	res, err := ScanTarget(context.Background(), dir, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Suspicious)
	assert.Equal(t, dir, res.Source)
	assert.Equal(t, "folder", res.Kind)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, 2, res.Findings[0].Line)
}

func TestScanTarget_UnsupportedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err := ScanTarget(context.Background(), p, DefaultOptions())
	assert.ErrorIs(t, err, connector.ErrUnsupportedTarget)
}

func TestFindingsJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

	_, findings := ScanContent("_0x1f = eval(x)\n", "b.ts")
	buf.Reset()
	require.NoError(t, MarshalFindings(&buf, findings))
	back, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, findings, back)
}

func TestMarshalFindings_OrdersByPathAndLine(t *testing.T) {
	in := []Finding{
		{Path: "b.js", Line: 2},
		{Path: "a.js", Line: 9},
		{Path: "a.js", Line: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, in))
	assert.Equal(t, "b.js", in[0].Path, "input must not be reordered")

	back, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	require.Len(t, back, 3)
	assert.Equal(t, "a.js", back[0].Path)
	assert.Equal(t, 3, back[0].Line)
	assert.Equal(t, 9, back[1].Line)
	assert.Equal(t, "b.js", back[2].Path)
}

func TestUnmarshalFindings_Rejects(t *testing.T) {
	back, err := UnmarshalFindings(strings.NewReader("null"))
	require.NoError(t, err)
	assert.Empty(t, back)

	for name, in := range map[string]string{
		"not an array":  `{"path":"a.js"}`,
		"trailing data": `[] []`,
		"missing path":  `[{"line":1}]`,
		"zero line":     `[{"path":"a.js","line":0}]`,
	} {
		_, err := UnmarshalFindings(strings.NewReader(in))
		assert.Error(t, err, name)
	}
}
