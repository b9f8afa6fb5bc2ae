package rewrite

import (
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// tryRecursive reconciles old and new field by field. It applies only when
// both sides carry the same variant tag; any field that cannot be
// reconciled fails the whole attempt, and the dispatcher's enclosing mark
// discards whatever earlier fields already recorded.
func (rw *Rewriter) tryRecursive(ki *kindInfo, old, new *tree.Node, rcx *Ctxt) (bool, error) {
	if old.Kind != new.Kind || len(old.Fields) != len(new.Fields) {
		return false, nil
	}

	for i := range new.Fields {
		oldField, newField := &old.Fields[i], &new.Fields[i]
		if oldField.Name != newField.Name || oldField.IsSeq != newField.IsSeq {
			return false, nil
		}

		fc := ki.field(newField.Name)
		if fc.Ignore {
			continue
		}

		ok, err := rw.rewriteField(ki, fc, old, new, oldField, newField, rcx)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func (rw *Rewriter) rewriteField(ki *kindInfo, fc *FieldConfig,
	oldParent, newParent *tree.Node, oldField, newField *tree.Field, rcx *Ctxt,
) (bool, error) {
	// Token fields are atomic: a difference is not structurally editable
	// here, so the parent falls through to a coarser strategy.
	if !oldField.IsSeq && oldField.Child == nil && newField.Child == nil {
		return oldField.Token == newField.Token, nil
	}

	if newField.IsSeq {
		return rw.rewriteSeqField(ki, fc, oldParent, newParent, oldField, newField, rcx)
	}

	restore := rw.enterField(ki, fc, newParent, rcx)
	defer restore()

	return rw.rewriteNode(oldField.Child, newField.Child, rcx)
}

func (rw *Rewriter) rewriteSeqField(ki *kindInfo, fc *FieldConfig,
	oldParent, newParent *tree.Node, oldField, newField *tree.Field, rcx *Ctxt,
) (bool, error) {
	olds, news := oldField.Seq, newField.Seq

	// A distinct leading-position precedence applies to element zero only;
	// reconcile it directly and hand the tails to the usual path.
	if fc.PrecFirst != nil && len(olds) > 0 && len(news) > 0 {
		prev := rcx.ReplaceExprPrec(rw.resolveFieldPrec(fc.PrecFirst, newParent))

		ok, err := rw.rewriteNode(olds[0], news[0], rcx)

		rcx.ReplaceExprPrec(prev)

		if err != nil || !ok {
			return false, err
		}

		olds, news = olds[1:], news[1:]
	}

	restore := rw.enterField(ki, fc, newParent, rcx)
	defer restore()

	if fc.Sequence {
		outer := rw.lang.SeqOuterSpan(oldParent, newField.Name)

		return rw.rewriteSeq(olds, news, fc.Separator, outer, rcx)
	}

	// Plain ordered field without identity: element-wise reconciliation,
	// which requires matching lengths.
	if len(olds) != len(news) {
		return false, nil
	}

	for i := range news {
		ok, err := rw.rewriteNode(olds[i], news[i], rcx)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}
