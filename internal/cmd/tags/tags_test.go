package tags

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

const annotated = `{\rtf1 <$Scr_Ps::4>Hello <$Scr_Cs::2>\b world\b0 <!$Scr_Cs::2> end}`

func writeDoc(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.rtf")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestRunTags_List(t *testing.T) {
	var out bytes.Buffer
	opts := &tagsOptions{output: "plain", noColor: true, stdout: &out}

	require.NoError(t, runTags(writeDoc(t, annotated), opts))

	got := out.String()
	assert.Contains(t, got, "paragraph")
	assert.Contains(t, got, "character")
	assert.Contains(t, got, "open")
	assert.Contains(t, got, "close")
	assert.Contains(t, got, "4")
	assert.Contains(t, got, "2")
}

func TestRunTags_ListEmpty(t *testing.T) {
	var out bytes.Buffer
	opts := &tagsOptions{output: "table", noColor: true, stdout: &out}

	require.NoError(t, runTags(writeDoc(t, `{\rtf1 no markers here}`), opts))
	assert.Contains(t, out.String(), "No annotation markers found.")
}

func TestStripMarkers(t *testing.T) {
	result, removed, err := stripMarkers(annotated)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	plain, err := rtf.ToPlainText(result)
	require.NoError(t, err)
	assert.Equal(t, "Hello world end", plain)

	// Formatting survives the strip.
	doc, err := rtf.Decode(result)
	require.NoError(t, err)
	require.Len(t, doc.Paragraphs, 1)
	assert.Equal(t, []rtf.StyleSpan{{Attr: rtf.AttrBold, Start: 6, End: 11}}, doc.Paragraphs[0].Spans)
}

func TestStripMarkers_NoMarkers(t *testing.T) {
	src := `{\rtf1 clean already}`
	result, removed, err := stripMarkers(src)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, src, result)
}

func TestRunTags_StripInPlace(t *testing.T) {
	path := writeDoc(t, annotated)

	var msgs bytes.Buffer
	opts := &tagsOptions{strip: true, output: "table", noColor: true, stdout: &msgs}
	require.NoError(t, runTags(path, opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	plain, err := rtf.ToPlainText(string(data))
	require.NoError(t, err)
	assert.Equal(t, "Hello world end", plain)
	assert.Contains(t, msgs.String(), "Removed 3 marker(s)")
}

func TestRunTags_StripToStdout(t *testing.T) {
	path := writeDoc(t, annotated)

	var result bytes.Buffer
	opts := &tagsOptions{strip: true, out: "-", output: "table", noColor: true, resultOut: &result, stdout: &bytes.Buffer{}}
	require.NoError(t, runTags(path, opts))

	plain, err := rtf.ToPlainText(result.String())
	require.NoError(t, err)
	assert.Equal(t, "Hello world end", plain)

	// Source stays untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, annotated, string(data))
}

func TestRunTags_NotRTF(t *testing.T) {
	opts := &tagsOptions{output: "table", noColor: true, stdout: &bytes.Buffer{}}
	err := runTags(writeDoc(t, "just text"), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode RTF")
}
