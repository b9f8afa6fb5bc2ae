package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// rewriteSeq reconciles two identity-bearing ordered lists. Elements are
// aligned by stable id: ids only in olds are deletions, ids only in news
// are insertions, shared ids form the skeleton. The longest subsequence of
// shared ids that keeps its old order stays in place (each pair reconciled
// recursively at its own span); every other shared id is a move, handled as
// deletion plus re-insertion. It fails — pushing the caller up to a full
// reprint of the containing node — when the lists cannot yield a
// consistent, non-overlapping edit script.
func (rw *Rewriter) rewriteSeq(olds, news []*tree.Node, sep string, outer span.Span, rcx *Ctxt) (bool, error) {
	if !orderedSpans(olds) {
		return false, nil
	}

	ok, err := rw.seqItemsSupported(olds, news)
	if err != nil || !ok {
		return false, err
	}

	oldIdx, ok := indexByID(olds)
	if !ok {
		return false, nil
	}

	if _, ok := indexByID(news); !ok {
		return false, nil
	}

	// stable[i] marks news[i] as keeping its relative old order.
	stable := stableElements(olds, news, oldIdx)

	// Old elements that survive in place.
	keptOld := make([]bool, len(olds))

	for i, n := range news {
		if stable[i] {
			keptOld[oldIdx[n.ID]] = true
		}
	}

	rw.deleteOldElements(olds, keptOld, rcx)

	return rw.emitNewElements(olds, news, oldIdx, stable, sep, outer, rcx)
}

// orderedSpans reports whether every element has a real span and the spans
// come in strictly increasing, non-overlapping order.
func orderedSpans(olds []*tree.Node) bool {
	pos := 0

	for _, n := range olds {
		if n.Span.IsDummy() || n.Span.Start < pos || n.Span.End < n.Span.Start {
			return false
		}

		pos = n.Span.End
	}

	return true
}

func (rw *Rewriter) seqItemsSupported(lists ...[]*tree.Node) (bool, error) {
	for _, list := range lists {
		for _, n := range list {
			ki, err := rw.table.kind(n.Kind)
			if err != nil {
				return false, err
			}

			if !ki.cfg.SeqItem {
				return false, nil
			}
		}
	}

	return true, nil
}

// indexByID maps each element's id to its position. Elements without an id
// never align; a duplicated id makes alignment ambiguous, so it fails.
func indexByID(list []*tree.Node) (map[string]int, bool) {
	idx := make(map[string]int, len(list))

	for i, n := range list {
		if n.ID == "" {
			continue
		}

		if _, dup := idx[n.ID]; dup {
			return nil, false
		}

		idx[n.ID] = i
	}

	return idx, true
}

// stableElements computes, over the new order, the longest increasing
// subsequence of old positions among shared ids. Those elements keep their
// old text position; all other shared ids become moves.
func stableElements(olds, news []*tree.Node, oldIdx map[string]int) []bool {
	type kept struct {
		newPos int
		oldPos int
	}

	shared := make([]kept, 0, len(news))

	for i, n := range news {
		if n.ID == "" {
			continue
		}

		if j, ok := oldIdx[n.ID]; ok {
			shared = append(shared, kept{newPos: i, oldPos: j})
		}
	}

	stable := make([]bool, len(news))

	// Patience LIS over oldPos; tails[k] is the index into shared of the
	// smallest tail of any increasing subsequence of length k+1.
	tails := make([]int, 0, len(shared))
	prev := make([]int, len(shared))

	for i, s := range shared {
		k := sort.Search(len(tails), func(j int) bool {
			return shared[tails[j]].oldPos >= s.oldPos
		})

		if k == 0 {
			prev[i] = -1
		} else {
			prev[i] = tails[k-1]
		}

		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	if len(tails) > 0 {
		for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
			stable[shared[i].newPos] = true
		}
	}

	return stable
}

// deleteOldElements records deletion splices for every old element that
// does not survive in place. Each deleted element takes one adjacent
// separator with it: the preceding one once a survivor has been passed,
// the following one while deleting a leading run.
func (rw *Rewriter) deleteOldElements(olds []*tree.Node, keptOld []bool, rcx *Ctxt) {
	seenSurvivor := false

	for i, n := range olds {
		if keptOld[i] {
			seenSurvivor = true

			continue
		}

		var del span.Span

		if seenSurvivor {
			del = span.New(olds[i-1].Span.End, n.Span.End)
		} else {
			end := n.Span.End
			if i+1 < len(olds) {
				end = olds[i+1].Span.Start
			}

			del = span.New(n.Span.Start, end)
		}

		rcx.Splice(del, "")
	}
}

// emitNewElements walks news in order: stable elements are reconciled
// recursively at their old spans; everything else is inserted next to its
// nearest surviving neighbour. Moved elements that are structurally
// unchanged reuse their original source text.
func (rw *Rewriter) emitNewElements(olds, news []*tree.Node,
	oldIdx map[string]int, stable []bool, sep string, outer span.Span, rcx *Ctxt,
) (bool, error) {
	firstStable := firstStableOldStart(olds, news, oldIdx, stable)

	if firstStable < 0 {
		return rw.replaceWholeSeq(olds, news, oldIdx, sep, outer, rcx)
	}

	// anchor is the old-buffer position insertions attach to: the end of
	// the last stable element already emitted, or -1 while still ahead of
	// the first one.
	anchor := -1

	for i, n := range news {
		if stable[i] {
			old := olds[oldIdx[n.ID]]

			ok, err := rw.rewriteNode(old, n, rcx)
			if err != nil || !ok {
				return false, err
			}

			anchor = old.Span.End

			continue
		}

		at := span.Point(firstStable)

		if anchor >= 0 {
			at = span.Point(anchor)
			rcx.Splice(at, sep)
		}

		if err := rw.insertElement(olds, oldIdx, n, at, rcx); err != nil {
			return false, err
		}

		if anchor < 0 {
			rcx.Splice(at, sep)
		}
	}

	return true, nil
}

// insertElement records the insertion of n at the point at. An unchanged
// move reuses its original source text verbatim; anything else is printed
// fresh and then walked against its own reparse, so recovery hooks can
// salvage original formatting for subtrees that still carry old-source
// spans. A moved-and-edited element passes its old span down to the hook
// as the salvage source for the whole element.
func (rw *Rewriter) insertElement(olds []*tree.Node, oldIdx map[string]int, n *tree.Node, at span.Span, rcx *Ctxt) error {
	var restriction *span.Span

	if n.ID != "" {
		if j, ok := oldIdx[n.ID]; ok {
			if tree.Equal(olds[j], n) {
				if text, ok := rcx.SrcText(olds[j].Span); ok {
					rcx.Splice(at, text)

					return nil
				}
			}

			restriction = &olds[j].Span
		}
	}

	ki, err := rw.table.kind(n.Kind)
	if err != nil {
		return err
	}

	text := rw.lang.Print(n, rcx.ExprPrec())

	if ki.cfg.Ignore || ki.category == "" {
		rcx.Splice(at, text)

		return nil
	}

	reparsed, err := rw.lang.Parse(ki.category, text)
	if err != nil {
		return fmt.Errorf("%w: kind %s: printed text does not parse: %v",
			ErrRoundTrip, n.Kind, err)
	}

	pending := span.Edit{Span: at, Text: text}

	done := rcx.beginRecovery(&pending)

	if ki.recover == nil || !ki.recover(restriction, reparsed, n, rcx) {
		err = rw.recoverChildren(reparsed, n, rcx)
	}

	done()

	if err != nil {
		return err
	}

	rcx.commit(pending)

	return nil
}

// insertText produces the text for a wholesale list replacement: the
// original source text for an unchanged move, freshly printed text
// otherwise.
func (rw *Rewriter) insertText(olds []*tree.Node, oldIdx map[string]int, n *tree.Node, rcx *Ctxt) string {
	if n.ID != "" {
		if j, ok := oldIdx[n.ID]; ok && tree.Equal(olds[j], n) {
			if text, ok := rcx.SrcText(olds[j].Span); ok {
				return text
			}
		}
	}

	return rw.lang.Print(n, rcx.ExprPrec())
}

// firstStableOldStart returns the old-buffer start of the first surviving
// element, or -1 when nothing survives in place.
func firstStableOldStart(olds, news []*tree.Node, oldIdx map[string]int, stable []bool) int {
	first := -1

	for i, n := range news {
		if !stable[i] {
			continue
		}

		j := oldIdx[n.ID]
		if first < 0 || olds[j].Span.Start < first {
			first = olds[j].Span.Start
		}
	}

	return first
}

// replaceWholeSeq handles the no-survivors case: all old elements are
// already deleted, and the whole new list is spliced as one block — at the
// first old element's position when the old list was non-empty, otherwise
// over the outer span.
func (rw *Rewriter) replaceWholeSeq(olds, news []*tree.Node,
	oldIdx map[string]int, sep string, outer span.Span, rcx *Ctxt,
) (bool, error) {
	texts := make([]string, 0, len(news))

	for _, n := range news {
		texts = append(texts, rw.insertText(olds, oldIdx, n, rcx))
	}

	joined := strings.Join(texts, sep)

	switch {
	case len(olds) > 0:
		if len(news) > 0 {
			rcx.Splice(span.Point(olds[0].Span.Start), joined)
		}

		return true, nil
	case outer.IsDummy():
		return false, nil
	default:
		rcx.Splice(outer, joined)

		return true, nil
	}
}
