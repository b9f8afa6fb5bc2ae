// Package rewrite reconciles an edited tree with the source text of the
// tree it was derived from: given the old tree, the new tree, and the old
// source, it produces a minimal set of text edits that, once applied, parse
// back to the new tree — preserving the original formatting of everything
// that did not change.
//
// Reconciliation runs per node pair through an ordered list of strategies
// configured per node kind (see Table): verbatim preservation when the
// trees are equal, structural descent into children, and full
// reprint-plus-recovery as the last resort. Failed attempts are rolled back
// through the Ctxt's mark/rewind transaction log, so a parent can fall back
// to a coarser strategy with no trace of the failed finer one.
package rewrite

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// Errors reported by Rewrite.
var (
	// ErrCannotRewrite means every configured strategy failed for the root
	// node pair and no print fallback exists; the subtree must be treated
	// as entirely fresh text by the caller.
	ErrCannotRewrite = errors.New("rewrite: no strategy succeeded")

	// ErrRoundTrip means the parser rejected text the printer emitted, or
	// the reparsed tree diverged from the tree it was printed from. This
	// is an internal consistency violation of the Language, not an input
	// problem.
	ErrRoundTrip = errors.New("rewrite: printer/parser round-trip violation")
)

// defaultMaxDepth bounds recursion so pathologically deep inputs fail
// cleanly instead of exhausting the stack.
const defaultMaxDepth = 10000

// Rewriter binds a Language to its kind Table. It is stateless across
// calls; each Rewrite owns a fresh Ctxt.
type Rewriter struct {
	lang     Language
	table    *Table
	maxDepth int
	tracer   Tracer
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMaxDepth overrides the recursion depth guard.
func WithMaxDepth(n int) Option {
	return func(rw *Rewriter) { rw.maxDepth = n }
}

// WithTracer installs an observer for dispatcher steps.
func WithTracer(tr Tracer) Option {
	return func(rw *Rewriter) { rw.tracer = tr }
}

// NewRewriter builds a Rewriter over lang and table.
func NewRewriter(lang Language, table *Table, opts ...Option) *Rewriter {
	rw := &Rewriter{lang: lang, table: table, maxDepth: defaultMaxDepth}

	for _, opt := range opts {
		opt(rw)
	}

	return rw
}

// Rewrite reconciles the (old, new) pair against old's source text src and
// returns the pending edits. Applying them with span.Apply yields text that
// parses to a tree structurally equal to new.
func (rw *Rewriter) Rewrite(old, new *tree.Node, src []byte) ([]span.Edit, error) {
	rcx := newCtxt(src, rw.maxDepth, rw.tracer)

	ok, err := rw.rewriteNode(old, new, rcx)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: root kind %s", ErrCannotRewrite, new.Kind)
	}

	return rcx.edits, nil
}

// rewriteNode is the dispatcher: it tries new's configured strategies in
// order, each under its own mark, rewinding on failure. Every recursive
// descent in the engine funnels through here, which is what guarantees a
// failing attempt can never leak partial edits into its parent: the parent
// attempt's own mark encloses everything recorded below it.
func (rw *Rewriter) rewriteNode(old, new *tree.Node, rcx *Ctxt) (bool, error) {
	if old == nil || new == nil {
		return old == new, nil
	}

	if err := rcx.push(string(new.Kind)); err != nil {
		return false, err
	}
	defer rcx.pop()

	ki, err := rw.table.kind(new.Kind)
	if err != nil {
		return false, err
	}

	if ki.cfg.Ignore {
		return true, nil
	}

	rcx.trace(TraceEvent{NodeID: new.ID, Kind: new.Kind, Outcome: TraceBegin})

	for _, name := range ki.strategies {
		mark := rcx.Mark()
		rcx.trace(TraceEvent{NodeID: new.ID, Kind: new.Kind, Strategy: name, Outcome: TraceAttempt})

		ok, err := rw.runStrategy(name, ki, old, new, rcx)
		if err != nil {
			return false, err
		}

		if ok {
			rcx.trace(TraceEvent{NodeID: new.ID, Kind: new.Kind, Strategy: name, Outcome: TraceSuccess})

			return true, nil
		}

		rcx.Rewind(mark)
		rcx.trace(TraceEvent{NodeID: new.ID, Kind: new.Kind, Strategy: name, Outcome: TraceFailure})
	}

	rcx.trace(TraceEvent{NodeID: new.ID, Kind: new.Kind, Outcome: TraceExhausted})

	return false, nil
}

func (rw *Rewriter) runStrategy(name string, ki *kindInfo, old, new *tree.Node, rcx *Ctxt) (bool, error) {
	switch name {
	case StrategyEqual:
		return tree.Equal(old, new), nil
	case StrategyRecursive:
		return rw.tryRecursive(ki, old, new, rcx)
	case StrategyPrint:
		return rw.tryPrint(ki, old, new, rcx)
	default:
		fn, ok := rw.table.strategies[name]
		if !ok {
			// NewTable rejects unknown names; reaching this is a bug.
			return false, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}

		return fn(rw, old, new, rcx)
	}
}

// resolveFieldPrec computes the ExprPrec for entering a child field of the
// new parent node. first selects the sequence-leading variant.
func (rw *Rewriter) resolveFieldPrec(ps *PrecSpec, parent *tree.Node) ExprPrec {
	if ps == nil {
		return PrecReset()
	}

	out := PrecReset()

	switch {
	case ps.LeftOf != "":
		if f := parent.Field(ps.LeftOf); f != nil {
			prec, rightAssoc := rw.lang.BinopPrec(f.Token)
			out = BinopLeftPrec(prec, rightAssoc)
		}
	case ps.RightOf != "":
		if f := parent.Field(ps.RightOf); f != nil {
			prec, rightAssoc := rw.lang.BinopPrec(f.Token)
			out = BinopRightPrec(prec, rightAssoc)
		}
	case ps.Fixed != nil:
		out.Min = *ps.Fixed
		if ps.Plus {
			out.Min++
		}
	}

	switch ps.Class {
	case classCond:
		out.Class = PrecCond
	case classCallee:
		out.Class = PrecCallee
	}

	return out
}

// enterField applies the field's precedence context and returns the
// restore func. Fields without a prec spec inherit the current context unless
// the kind is marked contains_expr, which resets it.
func (rw *Rewriter) enterField(ki *kindInfo, fc *FieldConfig, parent *tree.Node, rcx *Ctxt) func() {
	switch {
	case fc.Prec != nil:
		prev := rcx.ReplaceExprPrec(rw.resolveFieldPrec(fc.Prec, parent))

		return func() { rcx.ReplaceExprPrec(prev) }
	case ki.cfg.ContainsExpr:
		prev := rcx.ReplaceExprPrec(PrecReset())

		return func() { rcx.ReplaceExprPrec(prev) }
	default:
		return func() {}
	}
}
