package rewrite

import (
	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// Language supplies the per-grammar capabilities the engine requires. The
// engine owns reconciliation; the language owns text.
//
// Print and Parse must round-trip: Parse(cat, Print(n, prec)) must yield a
// tree structurally equal to n for every well-formed n of category cat. A
// violation is reported as ErrRoundTrip, never worked around.
type Language interface {
	// Print renders n deterministically, parenthesizing expressions as the
	// enclosing context prec requires.
	Print(n *tree.Node, prec ExprPrec) string

	// Parse parses text as the given syntactic category.
	Parse(cat Category, text string) (*tree.Node, error)

	// BinopPrec returns the precedence and associativity of a binary
	// operator token, consulted for left_of/right_of field precedence.
	BinopPrec(op string) (prec int8, rightAssoc bool)

	// SeqOuterSpan returns the span enclosing the whole sequence held by
	// parent's named field in the old source: the anchor for insertions at
	// the ends of the list or into an empty list. Return span.Dummy when
	// no anchor exists; insertion into an empty list then fails over to
	// reprinting the parent.
	SeqOuterSpan(parent *tree.Node, field string) span.Span
}
