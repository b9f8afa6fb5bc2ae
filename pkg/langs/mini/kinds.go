package mini

import "github.com/Sumatoshi-tech/treepatch/pkg/tree"

// Node kinds of the mini grammar.
const (
	KindFile      tree.Kind = "File"
	KindLetStmt   tree.Kind = "LetStmt"
	KindReturn    tree.Kind = "ReturnStmt"
	KindExprStmt  tree.Kind = "ExprStmt"
	KindCondExpr  tree.Kind = "CondExpr"
	KindBinary    tree.Kind = "BinaryExpr"
	KindUnary     tree.Kind = "UnaryExpr"
	KindCall      tree.Kind = "CallExpr"
	KindArgList   tree.Kind = "ArgList"
	KindIdent     tree.Kind = "Ident"
	KindNumberLit tree.Kind = "NumberLit"
	KindStringLit tree.Kind = "StringLit"
)

// Parse categories (see rewrite.Category).
const (
	CatFile = "file"
	CatStmt = "stmt"
	CatExpr = "expr"
	CatArgs = "args"
)

// Expression precedence levels, higher binds tighter. These must agree
// with the fixed values in kinds.yaml.
const (
	PrecTernary int8 = 1
	PrecOr      int8 = 2
	PrecAnd     int8 = 3
	PrecCmp     int8 = 4
	PrecAdd     int8 = 5
	PrecMul     int8 = 6
	PrecUnary   int8 = 7
	PrecCall    int8 = 8
	PrecPrimary int8 = 9
)

// binopPrecs maps binary operator tokens to precedence. Every mini binary
// operator is left-associative.
var binopPrecs = map[string]int8{
	"||": PrecOr,
	"&&": PrecAnd,
	"==": PrecCmp, "!=": PrecCmp,
	"<": PrecCmp, ">": PrecCmp, "<=": PrecCmp, ">=": PrecCmp,
	"+": PrecAdd, "-": PrecAdd,
	"*": PrecMul, "/": PrecMul, "%": PrecMul,
}

// NodePrec returns the grouping precedence of an expression node; statement
// and list kinds report PrecPrimary since they never need parentheses.
func NodePrec(n *tree.Node) int8 {
	switch n.Kind {
	case KindCondExpr:
		return PrecTernary
	case KindBinary:
		if f := n.Field("op"); f != nil {
			if p, ok := binopPrecs[f.Token]; ok {
				return p
			}
		}

		return PrecCmp
	case KindUnary:
		return PrecUnary
	case KindCall:
		return PrecCall
	default:
		return PrecPrimary
	}
}

// isExprKind reports whether k is an expression (subject to
// parenthesization) rather than a statement or list kind.
func isExprKind(k tree.Kind) bool {
	switch k {
	case KindCondExpr, KindBinary, KindUnary, KindCall, KindIdent, KindNumberLit, KindStringLit:
		return true
	default:
		return false
	}
}
