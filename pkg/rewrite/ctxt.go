package rewrite

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
)

// ErrDepthExceeded indicates the input trees nest deeper than the
// configured recursion limit.
var ErrDepthExceeded = errors.New("rewrite: tree depth limit exceeded")

// Ctxt is the transactional state of one top-level rewrite call: the old
// source buffer, the pending edit log, the current expression-precedence
// context, and the optional tracer. A Ctxt is exclusively owned by its
// call chain and is discarded once the produced edits are applied.
type Ctxt struct {
	src      []byte
	edits    []span.Edit
	prec     ExprPrec
	depth    int
	maxDepth int
	tracer   Tracer

	// recovering, when non-nil, redirects Splice into the sub-edits of a
	// pending printed-region edit; its spans then index the printed text.
	recovering *span.Edit
}

func newCtxt(src []byte, maxDepth int, tracer Tracer) *Ctxt {
	return &Ctxt{
		src:      src,
		prec:     PrecReset(),
		maxDepth: maxDepth,
		tracer:   tracer,
	}
}

// Mark is an opaque position in the edit log; rewinding to it discards
// everything recorded after it.
type Mark struct {
	edits int
	prec  ExprPrec
}

// Mark returns the current transaction point.
func (c *Ctxt) Mark() Mark {
	return Mark{edits: len(c.edits), prec: c.prec}
}

// Rewind discards all edits and precedence changes recorded after m.
func (c *Ctxt) Rewind(m Mark) {
	c.edits = c.edits[:m.edits]
	c.prec = m.prec
}

// ReplaceExprPrec sets the expression-precedence context and returns the
// previous value; the caller must restore it when leaving the child.
func (c *Ctxt) ReplaceExprPrec(p ExprPrec) ExprPrec {
	old := c.prec
	c.prec = p

	return old
}

// ExprPrec returns the current expression-precedence context.
func (c *Ctxt) ExprPrec() ExprPrec {
	return c.prec
}

// Src returns the old source buffer the edits apply to.
func (c *Ctxt) Src() []byte {
	return c.src
}

// SrcText returns the old source text covered by sp, or "" and false when
// the span does not lie inside the buffer.
func (c *Ctxt) SrcText(sp span.Span) (string, bool) {
	if sp.IsDummy() || sp.End > len(c.src) || sp.Start > sp.End {
		return "", false
	}

	return sp.Text(c.src), true
}

// Splice records a pending replacement of sp with text. Outside recovery
// sp addresses the old source buffer; during recovery it addresses the
// freshly printed text being salvaged.
func (c *Ctxt) Splice(sp span.Span, text string) {
	if c.recovering != nil {
		c.recovering.Subs = append(c.recovering.Subs, span.Edit{Span: sp, Text: text})

		return
	}

	c.edits = append(c.edits, span.Edit{Span: sp, Text: text})
}

// beginRecovery redirects Splice into pending until the returned func runs.
func (c *Ctxt) beginRecovery(pending *span.Edit) func() {
	prev := c.recovering
	c.recovering = pending

	return func() { c.recovering = prev }
}

// commit appends a fully recovered printed-region edit to the log.
func (c *Ctxt) commit(e span.Edit) {
	c.edits = append(c.edits, e)
}

func (c *Ctxt) push(kind string) error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: depth %d at kind %s", ErrDepthExceeded, c.depth, kind)
	}

	return nil
}

func (c *Ctxt) pop() {
	c.depth--
}

func (c *Ctxt) trace(ev TraceEvent) {
	if c.tracer != nil {
		c.tracer(ev)
	}
}
