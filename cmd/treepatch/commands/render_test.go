package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
)

func TestRenderUnifiedSingleHunk(t *testing.T) {
	oldSrc := []byte("let a = 1;\nlet b = 2;\nreturn a;\n")
	patched := []byte("let a = 1;\nlet b = 3;\nreturn a;\n")

	var buf bytes.Buffer

	require.NoError(t, renderUnified(&buf, "test.mini", oldSrc, patched))

	out := buf.String()
	require.Contains(t, out, "--- a/test.mini")
	require.Contains(t, out, "+++ b/test.mini")
	require.Contains(t, out, "@@ -1,3 +1,3 @@")
	require.Contains(t, out, "-let b = 2;")
	require.Contains(t, out, "+let b = 3;")
	require.Contains(t, out, " return a;")
}

func TestRenderUnifiedNoChanges(t *testing.T) {
	src := []byte("let a = 1;\n")

	var buf bytes.Buffer

	require.NoError(t, renderUnified(&buf, "test.mini", src, src))
	require.Empty(t, buf.String())
}

func TestRenderUnifiedSplitsDistantChanges(t *testing.T) {
	var oldLines, newLines []string

	for i := 0; i < 20; i++ {
		oldLines = append(oldLines, "return 1;")
		newLines = append(newLines, "return 1;")
	}

	oldLines[0] = "return 0;"
	newLines[0] = "let a = 0;"
	oldLines[19] = "return 9;"
	newLines[19] = "let z = 9;"

	var buf bytes.Buffer

	err := renderUnified(&buf, "test.mini",
		[]byte(strings.Join(oldLines, "\n")+"\n"),
		[]byte(strings.Join(newLines, "\n")+"\n"))
	require.NoError(t, err)

	require.Equal(t, 2, strings.Count(buf.String(), "@@ -"))
}

func TestRenderUnifiedMergesNearbyChanges(t *testing.T) {
	oldSrc := []byte("return 0;\nreturn 1;\nreturn 2;\nreturn 3;\n")
	patched := []byte("let a = 0;\nreturn 1;\nreturn 2;\nlet b = 3;\n")

	var buf bytes.Buffer

	require.NoError(t, renderUnified(&buf, "test.mini", oldSrc, patched))

	require.Equal(t, 1, strings.Count(buf.String(), "@@ -"))
}

func TestRenderEditsTable(t *testing.T) {
	oldSrc := []byte("let x = 1;\n")
	edits := []span.Edit{
		{Span: span.New(8, 9), Text: "2"},
	}

	var buf bytes.Buffer

	renderEdits(&buf, edits, oldSrc)

	out := buf.String()
	require.Contains(t, out, "SPAN")
	require.Contains(t, out, "[8,9)")
	require.Contains(t, out, `"1"`)
	require.Contains(t, out, `"2"`)
}

func TestTruncateCellLimitsLength(t *testing.T) {
	long := strings.Repeat("x", 200)

	got := truncateCell(long)
	require.LessOrEqual(t, len(got), maxCellText)
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestWriteSummaryNoEdits(t *testing.T) {
	var buf bytes.Buffer

	writeSummary(&buf, nil, []byte("x"), []byte("x"))
	require.Contains(t, buf.String(), "no edits")
}

func TestWriteSummaryCountsEdits(t *testing.T) {
	var buf bytes.Buffer

	edits := []span.Edit{
		{Span: span.New(0, 1), Text: "a"},
		{Span: span.New(2, 3), Text: "b"},
	}

	writeSummary(&buf, edits, []byte("x y z\n"), []byte("a b z\n"))
	require.Contains(t, buf.String(), "2 edits applied")
}
