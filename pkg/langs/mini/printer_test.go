package mini

import (
	"testing"

	"github.com/Sumatoshi-tech/treepatch/pkg/rewrite"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

func TestPrintCanonicalForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "binary spacing", text: "1+2", want: "1 + 2"},
		{name: "redundant parens dropped", text: "a + (b)", want: "a + b"},
		{name: "grouping parens kept", text: "(a + b) * c", want: "(a + b) * c"},
		{name: "natural precedence unparenthesized", text: "a + b * c", want: "a + b * c"},
		{name: "left associativity needs no parens", text: "a - b - c", want: "a - b - c"},
		{name: "right grouping of minus needs parens", text: "a - (b - c)", want: "a - (b - c)"},
		{name: "unary over binary", text: "-(a + b)", want: "-(a + b)"},
		{name: "unary of atom", text: "-a", want: "-a"},
		{name: "call of grouped expr", text: "(a ? f : g)(x)", want: "(a ? f : g)(x)"},
		{name: "ternary", text: "a ? b : c", want: "a ? b : c"},
		{name: "nested ternary right arm", text: "a ? b : c ? d : e", want: "a ? b : c ? d : e"},
		{name: "nested ternary cond", text: "(a ? b : c) ? d : e", want: "(a ? b : c) ? d : e"},
		{name: "ternary operand of binary", text: "(a ? b : c) + d", want: "(a ? b : c) + d"},
		{name: "call args", text: "f( a ,b )", want: "f(a, b)"},
		{name: "comparison chain groups", text: "a < (b < c)", want: "a < (b < c)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			expr := mustParse(t, CatExpr, tt.text)

			if got := New().Print(expr, rewrite.PrecReset()); got != tt.want {
				t.Errorf("Print(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPrintStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "let", text: "let   x=1;", want: "let x = 1;"},
		{name: "return", text: "return   f(x);", want: "return f(x);"},
		{name: "expr stmt", text: "f(x)   ;", want: "f(x);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stmt := mustParse(t, CatStmt, tt.text)

			if got := New().Print(stmt, rewrite.PrecReset()); got != tt.want {
				t.Errorf("Print(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPrintFileEndsEachStatementWithNewline(t *testing.T) {
	t.Parallel()

	file := mustParse(t, CatFile, "let x = 1;   return x;")

	if got := New().Print(file, rewrite.PrecReset()); got != "let x = 1;\nreturn x;\n" {
		t.Errorf("Print(file) = %q", got)
	}
}

func TestPrintRespectsPrecedenceContext(t *testing.T) {
	t.Parallel()

	sum := mustParse(t, CatExpr, "a + b")

	// Under a multiplication's operand context the sum needs parens.
	got := New().Print(sum, rewrite.ExprPrec{Min: PrecMul})
	if got != "(a + b)" {
		t.Errorf("Print under Min=PrecMul = %q, want parenthesized", got)
	}

	// A reset context never forces parens.
	if got := New().Print(sum, rewrite.PrecReset()); got != "a + b" {
		t.Errorf("Print under reset = %q", got)
	}
}

// Round-trip property: printing any parsed tree and reparsing the output
// yields a structurally equal tree.
func TestPrintParseRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"let x = 1;",
		"return a + b * c;",
		"let y = (a + b) * c;",
		"f(a, b, g(c));",
		"return a ? b : c ? d : e;",
		"let z = -(a + b) * !c;",
		"return (a ? b : c)(x, y);",
		`let s = "str" + x;`,
		"let q = a - (b - c) - d;",
		"a <= b;",
	}

	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			orig := mustParse(t, CatStmt, text)
			printed := New().Print(orig, rewrite.PrecReset())
			reparsed := mustParse(t, CatStmt, printed)

			if !tree.Equal(orig, reparsed) {
				t.Errorf("round trip diverged: %q printed as %q", text, printed)
			}
		})
	}
}
