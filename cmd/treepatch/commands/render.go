package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/treepatch/pkg/safeconv"
	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/textutil"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// maxCellText truncates edit table cells to keep rows readable.
const maxCellText = 40

// lineOp is one line of a line-level diff.
type lineOp struct {
	op   diffmatchpatch.Operation
	text string
}

// hunk is one contiguous change region with surrounding context.
type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	ops                []lineOp
}

// renderUnified writes a unified diff between the original and patched text.
func renderUnified(w io.Writer, path string, oldSrc, patched []byte) error {
	ops := lineDiff(oldSrc, patched)

	hunks := buildHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "--- a/%s\n+++ b/%s\n", path, path); err != nil {
		return fmt.Errorf("write diff header: %w", err)
	}

	for _, h := range hunks {
		if err := writeHunk(w, h); err != nil {
			return err
		}
	}

	return nil
}

// lineDiff computes a line-level diff and flattens it to per-line ops.
func lineDiff(oldSrc, patched []byte) []lineOp {
	dmp := diffmatchpatch.New()

	oldChars, newChars, lineIndex := dmp.DiffLinesToChars(string(oldSrc), string(patched))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineIndex)

	var ops []lineOp

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			ops = append(ops, lineOp{op: d.Type, text: line})
		}
	}

	return ops
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// buildHunks groups changed lines into hunks, merging changes whose context
// windows touch.
func buildHunks(ops []lineOp) []hunk {
	var hunks []hunk

	oldLine, newLine := 1, 1

	i := 0
	for i < len(ops) {
		if ops[i].op == diffmatchpatch.DiffEqual {
			oldLine++
			newLine++
			i++

			continue
		}

		start := i - contextLines
		if start < 0 {
			start = 0
		}

		end := hunkEnd(ops, i)

		h := hunk{
			oldStart: oldLine - (i - start),
			newStart: newLine - (i - start),
			ops:      ops[start:end],
		}

		for _, op := range h.ops {
			switch op.op {
			case diffmatchpatch.DiffDelete:
				h.oldCount++
			case diffmatchpatch.DiffInsert:
				h.newCount++
			case diffmatchpatch.DiffEqual:
				h.oldCount++
				h.newCount++
			}
		}

		oldLine = h.oldStart + h.oldCount
		newLine = h.newStart + h.newCount

		hunks = append(hunks, h)
		i = end
	}

	return hunks
}

// hunkEnd returns the index one past the last op of the hunk starting at
// the change at index i, including trailing context.
func hunkEnd(ops []lineOp, i int) int {
	lastChange := i

	for j := i; j < len(ops); j++ {
		if ops[j].op != diffmatchpatch.DiffEqual {
			lastChange = j

			continue
		}

		// A run of equal lines longer than twice the context closes
		// the hunk; a shorter run merges with the next change.
		if j-lastChange > 2*contextLines {
			break
		}
	}

	end := lastChange + contextLines + 1
	if end > len(ops) {
		end = len(ops)
	}

	return end
}

func writeHunk(w io.Writer, h hunk) error {
	if _, err := fmt.Fprintf(w, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldCount, h.newStart, h.newCount); err != nil {
		return fmt.Errorf("write hunk header: %w", err)
	}

	for _, op := range h.ops {
		prefix := " "

		switch op.op {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, op.text); err != nil {
			return fmt.Errorf("write hunk line: %w", err)
		}
	}

	return nil
}

// renderEdits writes the raw edit list as a table.
func renderEdits(w io.Writer, edits []span.Edit, oldSrc []byte) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	tbl.AppendHeader(table.Row{"#", "SPAN", "DELETED", "INSERTED", "SUBS"})

	for i, e := range edits {
		tbl.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("[%d,%d)", e.Span.Start, e.Span.End),
			truncateCell(e.Span.Text(oldSrc)),
			truncateCell(e.Text),
			len(e.Subs),
		})
	}

	tbl.Render()
}

func truncateCell(s string) string {
	quoted := fmt.Sprintf("%q", s)
	if len(quoted) > maxCellText {
		quoted = quoted[:maxCellText-3] + "..."
	}

	return quoted
}

// writeSummary writes a one-line colored result summary.
func writeSummary(w io.Writer, edits []span.Edit, oldSrc, patched []byte) {
	if len(edits) == 0 {
		color.New(color.FgGreen).Fprintln(w, "no edits; input already matches")

		return
	}

	color.New(color.FgCyan).Fprintf(w, "%d edits applied (%s -> %s, %d lines)\n",
		len(edits),
		humanize.Bytes(safeconv.MustIntToUint64(len(oldSrc))),
		humanize.Bytes(safeconv.MustIntToUint64(len(patched))),
		textutil.CountLines(patched),
	)
}
