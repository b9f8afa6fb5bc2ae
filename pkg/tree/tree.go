// Package tree provides the generic typed tree the rewrite engine operates
// on: nodes carry a closed kind tag, an optional stable identity, a source
// span, and an ordered field vector where each field is exactly one of a
// token, a single child, or an ordered child sequence.
package tree

import (
	"github.com/Sumatoshi-tech/treepatch/pkg/span"
)

// Kind is a node's variant tag (e.g. "BinaryExpr"). The set of kinds is
// fixed by the per-kind configuration table, not open-ended.
type Kind string

// Node is one typed tree element.
//
// ID is a stable identity correlating the same logical element across an
// old/new tree pair despite edits or moves; "" means no identity. Span is
// the node's position in the source it was parsed from; synthesized nodes
// carry span.Dummy.
type Node struct {
	Kind   Kind
	ID     string
	Span   span.Span
	Fields []Field
}

// Field is one structural slot of a node, in declaration order. Exactly one
// of the payload forms is in use: Token for leaf text (operator symbols,
// literal text, names), Child for a single sub-node, or Seq (with IsSeq
// set) for an ordered sub-node list. An empty sequence is IsSeq with a nil
// Seq, which is distinct from a token field holding "".
type Field struct {
	Name  string
	Token string
	Child *Node
	Seq   []*Node
	IsSeq bool
}

// TokenField returns a leaf text field.
func TokenField(name, token string) Field {
	return Field{Name: name, Token: token}
}

// ChildField returns a single-child field.
func ChildField(name string, child *Node) Field {
	return Field{Name: name, Child: child}
}

// SeqField returns an ordered-sequence field.
func SeqField(name string, items ...*Node) Field {
	return Field{Name: name, Seq: items, IsSeq: true}
}

// Field returns the field named name, or nil if the node has none.
func (n *Node) Field(name string) *Field {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			return &n.Fields[i]
		}
	}

	return nil
}

// Equal reports structural equality of a and b, ignoring identity and
// spans. Nil nodes are equal only to nil nodes.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind != b.Kind || len(a.Fields) != len(b.Fields) {
		return false
	}

	for i := range a.Fields {
		if !fieldEqual(&a.Fields[i], &b.Fields[i]) {
			return false
		}
	}

	return true
}

func fieldEqual(a, b *Field) bool {
	if a.Name != b.Name || a.IsSeq != b.IsSeq || a.Token != b.Token {
		return false
	}

	if a.IsSeq {
		if len(a.Seq) != len(b.Seq) {
			return false
		}

		for i := range a.Seq {
			if !Equal(a.Seq[i], b.Seq[i]) {
				return false
			}
		}

		return true
	}

	return Equal(a.Child, b.Child)
}

// Walk visits n and every descendant in pre-order. Returning false from
// visit stops descent into that node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}

	for i := range n.Fields {
		f := &n.Fields[i]
		if f.IsSeq {
			for _, item := range f.Seq {
				Walk(item, visit)
			}

			continue
		}

		if f.Child != nil {
			Walk(f.Child, visit)
		}
	}
}

// Clone returns a deep copy of n. Identity and spans are preserved.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	out := &Node{Kind: n.Kind, ID: n.ID, Span: n.Span}

	if len(n.Fields) > 0 {
		out.Fields = make([]Field, len(n.Fields))
		for i := range n.Fields {
			f := n.Fields[i]
			cp := Field{Name: f.Name, Token: f.Token, IsSeq: f.IsSeq}

			if f.IsSeq {
				if f.Seq != nil {
					cp.Seq = make([]*Node, len(f.Seq))
					for j, item := range f.Seq {
						cp.Seq[j] = Clone(item)
					}
				}
			} else {
				cp.Child = Clone(f.Child)
			}

			out.Fields[i] = cp
		}
	}

	return out
}
