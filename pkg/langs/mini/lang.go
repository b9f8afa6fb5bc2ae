// Package mini implements a small expression/statement language — let
// bindings, returns, ternaries, binary/unary operators, calls — as a
// rewrite.Language. It exists to exercise and demonstrate the rewrite
// engine end to end: parser and printer round-trip on structural equality,
// the kind table ships as embedded YAML, and a recovery hook salvages
// original formatting after full reprints.
package mini

import (
	_ "embed"
	"fmt"

	"github.com/Sumatoshi-tech/treepatch/pkg/rewrite"
	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

//go:embed kinds.yaml
var kindsYAML []byte

// Lang is the mini grammar's rewrite.Language implementation. It is
// stateless and safe to share.
type Lang struct{}

// New returns the mini language.
func New() *Lang {
	return &Lang{}
}

// Table builds the mini kind table from the embedded declarative config
// plus the format-recovery hooks.
func (l *Lang) Table() (*rewrite.Table, error) {
	kinds, err := rewrite.LoadKindsYAML(kindsYAML)
	if err != nil {
		return nil, fmt.Errorf("mini: %w", err)
	}

	hooks := make(map[tree.Kind]rewrite.RecoverFunc)
	for _, kc := range kinds {
		if kc.Category == CatStmt || kc.Category == CatExpr {
			hooks[tree.Kind(kc.Kind)] = l.recoverOriginal
		}
	}

	table, err := rewrite.NewTable(kinds, rewrite.Extensions{Recover: hooks})
	if err != nil {
		return nil, fmt.Errorf("mini: %w", err)
	}

	return table, nil
}

// NewRewriter is a convenience wrapper binding the language to its table.
func NewRewriter(opts ...rewrite.Option) (*rewrite.Rewriter, error) {
	lang := New()

	table, err := lang.Table()
	if err != nil {
		return nil, err
	}

	return rewrite.NewRewriter(lang, table, opts...), nil
}

// Print implements rewrite.Language.
func (l *Lang) Print(n *tree.Node, prec rewrite.ExprPrec) string {
	return printNode(n, prec)
}

// Parse implements rewrite.Language.
func (l *Lang) Parse(cat rewrite.Category, text string) (*tree.Node, error) {
	p, err := newParser([]byte(text))
	if err != nil {
		return nil, err
	}

	var node *tree.Node

	switch cat {
	case CatFile:
		return p.parseFile()
	case CatStmt:
		node, err = p.parseStmt()
	case CatExpr:
		node, err = p.parseExpr()
	case CatArgs:
		return p.parseBareArgs()
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrSyntax, cat)
	}

	if err != nil {
		return nil, err
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}

	return node, nil
}

// parseBareArgs parses an unparenthesized comma-separated expression list,
// the standalone form of an ArgList.
func (p *parser) parseBareArgs() (*tree.Node, error) {
	var items []*tree.Node

	for p.tok.kind != tokEOF {
		if len(items) > 0 {
			if _, err := p.expect(tokPunct, ","); err != nil {
				return nil, err
			}
		}

		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		items = append(items, arg)
	}

	return &tree.Node{
		Kind:   KindArgList,
		Span:   span.New(0, len(p.lx.src)),
		Fields: []tree.Field{tree.SeqField("items", items...)},
	}, nil
}

// BinopPrec implements rewrite.Language.
func (l *Lang) BinopPrec(op string) (int8, bool) {
	return binopPrec(op)
}

// SeqOuterSpan implements rewrite.Language. File statements span the whole
// file; call arguments span the parenthesized interior, which the parser
// records as the ArgList node's own span.
func (l *Lang) SeqOuterSpan(parent *tree.Node, field string) span.Span {
	switch {
	case parent.Kind == KindFile && field == "stmts":
		return parent.Span
	case parent.Kind == KindArgList && field == "items":
		return parent.Span
	default:
		return span.Dummy
	}
}

// categoryOf returns the parse category a kind's printed text belongs to.
func categoryOf(k tree.Kind) rewrite.Category {
	switch k {
	case KindFile:
		return CatFile
	case KindLetStmt, KindReturn, KindExprStmt:
		return CatStmt
	case KindArgList:
		return CatArgs
	default:
		return CatExpr
	}
}

// recoverOriginal is the per-kind recovery hook: when a new node still
// carries a span into the old source and that old text parses back to a
// structurally equal node, the original text replaces the freshly printed
// text for that subtree — unless the current precedence context would
// require parentheses the old text does not carry.
func (l *Lang) recoverOriginal(restriction *span.Span, reparsed, new *tree.Node, rcx *rewrite.Ctxt) bool {
	sp := new.Span
	if restriction != nil {
		sp = *restriction
	}

	if sp.IsDummy() || sp.IsPoint() {
		return false
	}

	text, ok := rcx.SrcText(sp)
	if !ok {
		return false
	}

	parsed, err := l.Parse(categoryOf(new.Kind), text)
	if err != nil || !tree.Equal(parsed, new) {
		return false
	}

	if isExprKind(new.Kind) && NodePrec(new) < rcx.ExprPrec().Min {
		return false
	}

	rcx.Splice(reparsed.Span, text)

	return true
}
