package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true //nolint:reassign // keep test output free of escape codes

	os.Exit(m.Run())
}

// writeInputs writes the old and new source files into a temp dir and
// returns their paths.
func writeInputs(t *testing.T, oldText, newText string) (string, string) {
	t.Helper()

	dir := t.TempDir()

	oldPath := filepath.Join(dir, "old.mini")
	newPath := filepath.Join(dir, "new.mini")

	require.NoError(t, os.WriteFile(oldPath, []byte(oldText), 0o600))
	require.NoError(t, os.WriteFile(newPath, []byte(newText), 0o600))

	return oldPath, newPath
}

func runPatch(t *testing.T, args ...string) (*bytes.Buffer, *bytes.Buffer, error) {
	t.Helper()

	cmd := NewPatchCommand()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return &stdout, &stderr, err
}

func requireCommandError(t *testing.T, cmd *cobra.Command, args ...string) {
	t.Helper()

	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	require.Error(t, cmd.Execute())
}

func TestPatchReplacesChangedValueOnly(t *testing.T) {
	oldPath, newPath := writeInputs(t,
		"let x = 1;\nreturn x;\n",
		"let x = 2;\nreturn x;\n",
	)

	stdout, stderr, err := runPatch(t, oldPath, newPath)
	require.NoError(t, err)

	require.Equal(t, "let x = 2;\nreturn x;\n", stdout.String())
	require.Contains(t, stderr.String(), "1 edits applied")
}

func TestPatchPreservesFormattingAroundInsert(t *testing.T) {
	oldPath, newPath := writeInputs(t,
		"let a  =  1;\nreturn a;\n",
		"let a = 1;\nlet b = 2;\nreturn a;\n",
	)

	stdout, _, err := runPatch(t, oldPath, newPath)
	require.NoError(t, err)

	// The untouched statements keep their original spacing; only the
	// inserted statement is freshly printed.
	require.Equal(t, "let a  =  1;\nlet b = 2;\nreturn a;\n", stdout.String())
}

func TestPatchIdenticalInputsProduceNoEdits(t *testing.T) {
	text := "let x = 1;\nreturn x;\n"
	oldPath, newPath := writeInputs(t, text, text)

	stdout, stderr, err := runPatch(t, oldPath, newPath)
	require.NoError(t, err)

	require.Equal(t, text, stdout.String())
	require.Contains(t, stderr.String(), "no edits")
}

func TestPatchUnifiedFormat(t *testing.T) {
	oldPath, newPath := writeInputs(t,
		"let x = 1;\nreturn x;\n",
		"let x = 2;\nreturn x;\n",
	)

	stdout, _, err := runPatch(t, oldPath, newPath, "--format", "unified")
	require.NoError(t, err)

	out := stdout.String()
	require.Contains(t, out, "--- a/"+oldPath)
	require.Contains(t, out, "@@ -1,2 +1,2 @@")
	require.Contains(t, out, "-let x = 1;")
	require.Contains(t, out, "+let x = 2;")
}

func TestPatchEditsFormat(t *testing.T) {
	oldPath, newPath := writeInputs(t,
		"let x = 1;\nreturn x;\n",
		"let x = 2;\nreturn x;\n",
	)

	stdout, _, err := runPatch(t, oldPath, newPath, "--format", "edits")
	require.NoError(t, err)

	out := stdout.String()
	require.Contains(t, out, "DELETED")
	require.Contains(t, out, `"1"`)
	require.Contains(t, out, `"2"`)
}

func TestPatchWritesOutputFile(t *testing.T) {
	oldPath, newPath := writeInputs(t,
		"let x = 1;\n",
		"let x = 2;\n",
	)

	outPath := filepath.Join(t.TempDir(), "patched.mini")

	_, _, err := runPatch(t, oldPath, newPath, "-o", outPath)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "let x = 2;\n", string(got))
}

func TestPatchRejectsUnknownFormat(t *testing.T) {
	oldPath, newPath := writeInputs(t, "let x = 1;\n", "let x = 1;\n")

	requireCommandError(t, NewPatchCommand(), oldPath, newPath, "--format", "bogus")
}

func TestPatchRejectsMissingFile(t *testing.T) {
	requireCommandError(t, NewPatchCommand(), "/nonexistent/old.mini", "/nonexistent/new.mini")
}

func TestPatchRejectsUnparsableInput(t *testing.T) {
	oldPath, newPath := writeInputs(t, "let x = ;\n", "let x = 1;\n")

	requireCommandError(t, NewPatchCommand(), oldPath, newPath)
}

func TestPatchReorderReusesOriginalText(t *testing.T) {
	oldPath, newPath := writeInputs(t,
		"let a = 1;\nlet b  =  2;\nreturn a;\n",
		"let b = 2;\nlet a = 1;\nreturn a;\n",
	)

	stdout, _, err := runPatch(t, oldPath, newPath)
	require.NoError(t, err)

	// The moved statement is re-inserted with its original spacing.
	require.Equal(t, "let b  =  2;\nlet a = 1;\nreturn a;\n", stdout.String())
}
