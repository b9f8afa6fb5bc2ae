package rewrite

import (
	"fmt"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// tryPrint is the last-resort strategy: render new under the current
// precedence context, splice the result over old's span, then walk the
// reparsed text against new, letting per-kind recovery hooks salvage
// original source for subtrees that survived the edit. Recovery can only
// improve the result; at worst the fully printed text stands.
func (rw *Rewriter) tryPrint(ki *kindInfo, old, new *tree.Node, rcx *Ctxt) (bool, error) {
	if old.Span.IsDummy() {
		return false, nil
	}

	text := rw.lang.Print(new, rcx.ExprPrec())

	reparsed, err := rw.lang.Parse(ki.category, text)
	if err != nil {
		return false, fmt.Errorf("%w: kind %s: printed text does not parse: %v",
			ErrRoundTrip, new.Kind, err)
	}

	pending := span.Edit{Span: old.Span, Text: text}

	done := rcx.beginRecovery(&pending)

	// The top node itself was just printed over old's span; recovery
	// starts at its children.
	err = rw.recoverChildren(reparsed, new, rcx)

	done()

	if err != nil {
		return false, err
	}

	rcx.commit(pending)

	return true, nil
}

// recoverNodeAndChildren gives the kind's recovery hook a chance to salvage
// this whole node before descending.
func (rw *Rewriter) recoverNodeAndChildren(reparsed, new *tree.Node, rcx *Ctxt) error {
	if reparsed == nil || new == nil {
		if reparsed != new {
			return fmt.Errorf("%w: reparsed and new trees differ in shape at kind %s",
				ErrRoundTrip, kindOf(reparsed, new))
		}

		return nil
	}

	ki, err := rw.table.kind(new.Kind)
	if err != nil {
		return err
	}

	if ki.cfg.Ignore {
		return nil
	}

	if ki.recover != nil && ki.recover(nil, reparsed, new, rcx) {
		return nil
	}

	return rw.recoverChildren(reparsed, new, rcx)
}

// recoverChildren walks the reparsed and new trees positionally, threading
// the same per-field precedence context the recursive strategy uses, so
// hooks can judge whether salvaged text needs parenthesization.
func (rw *Rewriter) recoverChildren(reparsed, new *tree.Node, rcx *Ctxt) error {
	if reparsed.Kind != new.Kind || len(reparsed.Fields) != len(new.Fields) {
		return fmt.Errorf("%w: reparsed %s does not match new %s",
			ErrRoundTrip, reparsed.Kind, new.Kind)
	}

	ki, err := rw.table.kind(new.Kind)
	if err != nil {
		return err
	}

	for i := range new.Fields {
		repField, newField := &reparsed.Fields[i], &new.Fields[i]

		fc := ki.field(newField.Name)
		if fc.Ignore {
			continue
		}

		if err := rw.recoverField(ki, fc, reparsed, new, repField, newField, rcx); err != nil {
			return err
		}
	}

	return nil
}

func (rw *Rewriter) recoverField(ki *kindInfo, fc *FieldConfig,
	reparsed, new *tree.Node, repField, newField *tree.Field, rcx *Ctxt,
) error {
	if repField.IsSeq != newField.IsSeq {
		return fmt.Errorf("%w: field %s of kind %s changed shape on reparse",
			ErrRoundTrip, newField.Name, new.Kind)
	}

	if !newField.IsSeq {
		if newField.Child == nil && repField.Child == nil {
			return nil
		}

		restore := rw.enterField(ki, fc, new, rcx)
		defer restore()

		return rw.recoverNodeAndChildren(repField.Child, newField.Child, rcx)
	}

	if len(repField.Seq) != len(newField.Seq) {
		return fmt.Errorf("%w: sequence field %s of kind %s has %d reparsed vs %d new elements",
			ErrRoundTrip, newField.Name, new.Kind, len(repField.Seq), len(newField.Seq))
	}

	items, newItems := repField.Seq, newField.Seq

	if fc.PrecFirst != nil && len(newItems) > 0 {
		prev := rcx.ReplaceExprPrec(rw.resolveFieldPrec(fc.PrecFirst, new))

		err := rw.recoverNodeAndChildren(items[0], newItems[0], rcx)

		rcx.ReplaceExprPrec(prev)

		if err != nil {
			return err
		}

		items, newItems = items[1:], newItems[1:]
	}

	restore := rw.enterField(ki, fc, new, rcx)
	defer restore()

	for i := range newItems {
		if err := rw.recoverNodeAndChildren(items[i], newItems[i], rcx); err != nil {
			return err
		}
	}

	return nil
}

func kindOf(nodes ...*tree.Node) tree.Kind {
	for _, n := range nodes {
		if n != nil {
			return n.Kind
		}
	}

	return ""
}
