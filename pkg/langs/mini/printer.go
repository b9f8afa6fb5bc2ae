package mini

import (
	"strings"

	"github.com/Sumatoshi-tech/treepatch/pkg/rewrite"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// printNode renders n, parenthesizing expressions whose own precedence
// falls below the context minimum. Mini has no grammar restrictions beyond
// precedence, so the Cond and Callee classes carry no extra rules here;
// their minimums already force the right grouping.
func printNode(n *tree.Node, prec rewrite.ExprPrec) string {
	body := renderNode(n)

	if isExprKind(n.Kind) && NodePrec(n) < prec.Min {
		return "(" + body + ")"
	}

	return body
}

func renderNode(n *tree.Node) string {
	switch n.Kind {
	case KindFile:
		return renderFile(n)
	case KindLetStmt:
		return "let " + n.Field("name").Token + " = " +
			printNode(n.Field("value").Child, rewrite.PrecReset()) + ";"
	case KindReturn:
		return "return " + printNode(n.Field("value").Child, rewrite.PrecReset()) + ";"
	case KindExprStmt:
		return printNode(n.Field("expr").Child, rewrite.PrecReset()) + ";"
	case KindCondExpr:
		return renderCond(n)
	case KindBinary:
		return renderBinary(n)
	case KindUnary:
		return n.Field("op").Token +
			printNode(n.Field("operand").Child, rewrite.ExprPrec{Min: PrecUnary})
	case KindCall:
		return printNode(n.Field("callee").Child, rewrite.ExprPrec{Class: rewrite.PrecCallee, Min: PrecCall}) +
			"(" + renderNode(n.Field("args").Child) + ")"
	case KindArgList:
		return renderArgs(n)
	default:
		// Ident, NumberLit, StringLit: the token is the text.
		return n.Fields[0].Token
	}
}

func renderFile(n *tree.Node) string {
	var sb strings.Builder

	for _, stmt := range n.Field("stmts").Seq {
		sb.WriteString(printNode(stmt, rewrite.PrecReset()))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func renderCond(n *tree.Node) string {
	cond := printNode(n.Field("cond").Child, rewrite.ExprPrec{Class: rewrite.PrecCond, Min: PrecTernary + 1})
	then := printNode(n.Field("then").Child, rewrite.PrecReset())
	els := printNode(n.Field("else").Child, rewrite.ExprPrec{Min: PrecTernary})

	return cond + " ? " + then + " : " + els
}

func renderBinary(n *tree.Node) string {
	op := n.Field("op").Token

	prec, rightAssoc := binopPrec(op)
	left := printNode(n.Field("left").Child, rewrite.BinopLeftPrec(prec, rightAssoc))
	right := printNode(n.Field("right").Child, rewrite.BinopRightPrec(prec, rightAssoc))

	return left + " " + op + " " + right
}

func renderArgs(n *tree.Node) string {
	items := n.Field("items").Seq
	parts := make([]string, len(items))

	for i, item := range items {
		parts[i] = printNode(item, rewrite.PrecReset())
	}

	return strings.Join(parts, ", ")
}

func binopPrec(op string) (int8, bool) {
	if p, ok := binopPrecs[op]; ok {
		return p, false
	}

	return PrecCmp, false
}
