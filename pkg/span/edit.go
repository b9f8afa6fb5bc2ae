package span

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// ErrOverlap indicates two edits claim overlapping byte ranges of the same
// buffer, which can never be applied consistently.
var ErrOverlap = errors.New("overlapping edits")

// Edit is a recorded replacement of Span (in the enclosing buffer) with
// Text. Subs are nested edits whose spans index into Text itself; they are
// produced when recovery salvages original source inside freshly printed
// text, and are applied to Text before Text replaces Span.
type Edit struct {
	Span Span
	Text string
	Subs []Edit
}

// Apply splices edits into src and returns the patched buffer. Edits may be
// given in any order; they are applied left to right. Insertions (zero
// length spans) at the same position keep their relative order. Apply fails
// with ErrOverlap if any two edits cover a common byte.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Start != ordered[j].Span.Start {
			return ordered[i].Span.Start < ordered[j].Span.Start
		}

		return ordered[i].Span.End < ordered[j].Span.End
	})

	var out bytes.Buffer

	pos := 0

	for _, e := range ordered {
		if e.Span.Start < pos {
			return nil, fmt.Errorf("%w: [%d,%d) begins before offset %d",
				ErrOverlap, e.Span.Start, e.Span.End, pos)
		}

		if e.Span.Start < 0 || e.Span.End > len(src) {
			return nil, fmt.Errorf("edit [%d,%d) outside buffer of %d bytes",
				e.Span.Start, e.Span.End, len(src))
		}

		text, err := materialize(e)
		if err != nil {
			return nil, err
		}

		if e.Span.Start > pos {
			out.Write(src[pos:e.Span.Start])
		}

		out.WriteString(text)

		if e.Span.End > pos {
			pos = e.Span.End
		}
	}

	out.Write(src[pos:])

	return out.Bytes(), nil
}

// materialize resolves an edit's replacement text by applying its sub-edits.
func materialize(e Edit) (string, error) {
	if len(e.Subs) == 0 {
		return e.Text, nil
	}

	patched, err := Apply([]byte(e.Text), e.Subs)
	if err != nil {
		return "", err
	}

	return string(patched), nil
}
