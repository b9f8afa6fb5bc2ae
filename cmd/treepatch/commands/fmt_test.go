package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.mini")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	return path
}

func runFmt(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	cmd := NewFmtCommand()

	var stdout bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return &stdout, err
}

func TestFmtCanonicalizesSpacing(t *testing.T) {
	path := writeSource(t, "let   x=1   +   2;\n")

	stdout, err := runFmt(t, path)
	require.NoError(t, err)

	require.Equal(t, "let x = 1 + 2;\n", stdout.String())
}

func TestFmtDropsRedundantParens(t *testing.T) {
	path := writeSource(t, "let y = 1 + (2);\n")

	stdout, err := runFmt(t, path)
	require.NoError(t, err)

	require.Equal(t, "let y = 1 + 2;\n", stdout.String())
}

func TestFmtKeepsRequiredParens(t *testing.T) {
	path := writeSource(t, "let z = (1 + 2) * 3;\n")

	stdout, err := runFmt(t, path)
	require.NoError(t, err)

	require.Equal(t, "let z = (1 + 2) * 3;\n", stdout.String())
}

func TestFmtWriteInPlace(t *testing.T) {
	path := writeSource(t, "let   x   =   1;\n")

	_, err := runFmt(t, path, "-w")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "let x = 1;\n", string(got))
}

func TestFmtOutputFile(t *testing.T) {
	path := writeSource(t, "return 1+2;\n")
	outPath := filepath.Join(t.TempDir(), "out.mini")

	_, err := runFmt(t, path, "-o", outPath)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "return 1 + 2;\n", string(got))
}

func TestFmtRejectsUnparsableInput(t *testing.T) {
	path := writeSource(t, "let = 1;\n")

	requireCommandError(t, NewFmtCommand(), path)
}
