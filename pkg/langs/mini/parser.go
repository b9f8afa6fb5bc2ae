package mini

import (
	"fmt"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// parser is a recursive-descent parser with precedence climbing for binary
// operators. Parentheses group but produce no node: the printer reinserts
// them from precedence context, which is what makes print/parse round-trip
// on structural equality.
type parser struct {
	lx  *lexer
	tok token
}

func newParser(src []byte) (*parser, error) {
	p := &parser{lx: &lexer{src: src}}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) at(kind tokenKind, text string) bool {
	return p.tok.kind == kind && p.tok.text == text
}

func (p *parser) expect(kind tokenKind, text string) (token, error) {
	if !p.at(kind, text) {
		return token{}, fmt.Errorf("%w: expected %q at offset %d, found %q",
			ErrSyntax, text, p.tok.start, p.tok.text)
	}

	tok := p.tok

	return tok, p.advance()
}

func (p *parser) parseFile() (*tree.Node, error) {
	var stmts []*tree.Node

	for p.tok.kind != tokEOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	return &tree.Node{
		Kind:   KindFile,
		Span:   span.New(0, len(p.lx.src)),
		Fields: []tree.Field{tree.SeqField("stmts", stmts...)},
	}, nil
}

func (p *parser) parseStmt() (*tree.Node, error) {
	switch {
	case p.at(tokKeyword, "let"):
		return p.parseLet()
	case p.at(tokKeyword, "return"):
		return p.parseReturn()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseLet() (*tree.Node, error) {
	start := p.tok.start

	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected identifier after let at offset %d", ErrSyntax, p.tok.start)
	}

	name := p.tok.text

	if err := p.advance(); err != nil {
		return nil, err
	}

	if _, err := p.expect(tokPunct, "="); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(tokPunct, ";")
	if err != nil {
		return nil, err
	}

	return &tree.Node{
		Kind: KindLetStmt,
		Span: span.New(start, semi.end),
		Fields: []tree.Field{
			tree.TokenField("name", name),
			tree.ChildField("value", value),
		},
	}, nil
}

func (p *parser) parseReturn() (*tree.Node, error) {
	start := p.tok.start

	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(tokPunct, ";")
	if err != nil {
		return nil, err
	}

	return &tree.Node{
		Kind:   KindReturn,
		Span:   span.New(start, semi.end),
		Fields: []tree.Field{tree.ChildField("value", value)},
	}, nil
}

func (p *parser) parseExprStmt() (*tree.Node, error) {
	start := p.tok.start

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(tokPunct, ";")
	if err != nil {
		return nil, err
	}

	return &tree.Node{
		Kind:   KindExprStmt,
		Span:   span.New(start, semi.end),
		Fields: []tree.Field{tree.ChildField("expr", expr)},
	}, nil
}

func (p *parser) parseExpr() (*tree.Node, error) {
	return p.parseTernary()
}

// parseTernary parses cond ? then : else; the else arm re-enters here, so
// the operator is right-associative.
func (p *parser) parseTernary() (*tree.Node, error) {
	cond, err := p.parseBinary(PrecOr)
	if err != nil {
		return nil, err
	}

	if !p.at(tokPunct, "?") {
		return cond, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokPunct, ":"); err != nil {
		return nil, err
	}

	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	return &tree.Node{
		Kind: KindCondExpr,
		Span: span.New(cond.Span.Start, els.Span.End),
		Fields: []tree.Field{
			tree.ChildField("cond", cond),
			tree.ChildField("then", then),
			tree.ChildField("else", els),
		},
	}, nil
}

// parseBinary climbs precedence levels from min upward; all mini binary
// operators are left-associative.
func (p *parser) parseBinary(min int8) (*tree.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.tok.kind == tokPunct {
		prec, ok := binopPrecs[p.tok.text]
		if !ok || prec < min {
			break
		}

		op := p.tok.text

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &tree.Node{
			Kind: KindBinary,
			Span: span.New(left.Span.Start, right.Span.End),
			Fields: []tree.Field{
				tree.TokenField("op", op),
				tree.ChildField("left", left),
				tree.ChildField("right", right),
			},
		}
	}

	return left, nil
}

func (p *parser) parseUnary() (*tree.Node, error) {
	if p.at(tokPunct, "-") || p.at(tokPunct, "!") {
		op := p.tok.text
		start := p.tok.start

		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &tree.Node{
			Kind: KindUnary,
			Span: span.New(start, operand.Span.End),
			Fields: []tree.Field{
				tree.TokenField("op", op),
				tree.ChildField("operand", operand),
			},
		}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (*tree.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.at(tokPunct, "(") {
		args, rparen, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		expr = &tree.Node{
			Kind: KindCall,
			Span: span.New(expr.Span.Start, rparen.end),
			Fields: []tree.Field{
				tree.ChildField("callee", expr),
				tree.ChildField("args", args),
			},
		}
	}

	return expr, nil
}

// parseArgs parses "(" expr, ... ")" and returns the ArgList node whose
// span covers the interior between the parentheses — the outer span used
// to anchor insertions into the argument sequence.
func (p *parser) parseArgs() (*tree.Node, token, error) {
	lparen, err := p.expect(tokPunct, "(")
	if err != nil {
		return nil, token{}, err
	}

	var items []*tree.Node

	for !p.at(tokPunct, ")") {
		if len(items) > 0 {
			if _, err := p.expect(tokPunct, ","); err != nil {
				return nil, token{}, err
			}
		}

		arg, err := p.parseExpr()
		if err != nil {
			return nil, token{}, err
		}

		items = append(items, arg)
	}

	rparen := p.tok
	if err := p.advance(); err != nil {
		return nil, token{}, err
	}

	args := &tree.Node{
		Kind:   KindArgList,
		Span:   span.New(lparen.end, rparen.start),
		Fields: []tree.Field{tree.SeqField("items", items...)},
	}

	return args, rparen, nil
}

func (p *parser) parsePrimary() (*tree.Node, error) {
	tok := p.tok

	switch {
	case tok.kind == tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &tree.Node{
			Kind:   KindIdent,
			Span:   span.New(tok.start, tok.end),
			Fields: []tree.Field{tree.TokenField("name", tok.text)},
		}, nil
	case tok.kind == tokNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &tree.Node{
			Kind:   KindNumberLit,
			Span:   span.New(tok.start, tok.end),
			Fields: []tree.Field{tree.TokenField("value", tok.text)},
		}, nil
	case tok.kind == tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return &tree.Node{
			Kind:   KindStringLit,
			Span:   span.New(tok.start, tok.end),
			Fields: []tree.Field{tree.TokenField("value", tok.text)},
		}, nil
	case p.at(tokPunct, "("):
		if err := p.advance(); err != nil {
			return nil, err
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokPunct, ")"); err != nil {
			return nil, err
		}

		return expr, nil
	default:
		return nil, fmt.Errorf("%w: unexpected token %q at offset %d", ErrSyntax, tok.text, tok.start)
	}
}

func (p *parser) expectEOF() error {
	if p.tok.kind != tokEOF {
		return fmt.Errorf("%w: trailing input %q at offset %d", ErrSyntax, p.tok.text, p.tok.start)
	}

	return nil
}
