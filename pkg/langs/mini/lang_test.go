package mini

import (
	"testing"

	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

func TestTableBuildsFromEmbeddedConfig(t *testing.T) {
	t.Parallel()

	if _, err := New().Table(); err != nil {
		t.Fatalf("Table() error: %v", err)
	}
}

func TestNewRewriterWiresLanguage(t *testing.T) {
	t.Parallel()

	if _, err := NewRewriter(); err != nil {
		t.Fatalf("NewRewriter() error: %v", err)
	}
}

func TestBinopPrec(t *testing.T) {
	t.Parallel()

	l := New()

	// Every mini binary operator is left-associative.
	tests := []struct {
		op   string
		prec int8
	}{
		{op: "*", prec: PrecMul},
		{op: "+", prec: PrecAdd},
		{op: "||", prec: PrecOr},
		{op: "==", prec: PrecCmp},
	}

	for _, tt := range tests {
		p, rightAssoc := l.BinopPrec(tt.op)
		if p != tt.prec || rightAssoc {
			t.Errorf("BinopPrec(%s) = (%d, %v), want (%d, false)", tt.op, p, tt.prec, tt.prec)
		}
	}
}

func TestBinopPrecUnknownOperatorDefaultsToComparison(t *testing.T) {
	t.Parallel()

	p, rightAssoc := New().BinopPrec("**")
	if p != PrecCmp || rightAssoc {
		t.Errorf("BinopPrec(**) = (%d, %v), want (%d, false)", p, rightAssoc, PrecCmp)
	}
}

func TestSeqOuterSpan(t *testing.T) {
	t.Parallel()

	l := New()

	src := "f(a, b);\n"
	file := mustParse(t, CatFile, src)

	if got := l.SeqOuterSpan(file, "stmts"); got != file.Span {
		t.Errorf("SeqOuterSpan(File, stmts) = %v, want %v", got, file.Span)
	}

	args := file.Field("stmts").Seq[0].Field("expr").Child.Field("args").Child

	if got := l.SeqOuterSpan(args, "items"); got != args.Span {
		t.Errorf("SeqOuterSpan(ArgList, items) = %v, want %v", got, args.Span)
	}

	if got := l.SeqOuterSpan(file, "other"); !got.IsDummy() {
		t.Errorf("SeqOuterSpan(File, other) = %v, want dummy", got)
	}
}

func TestCategoryOfCoversAllKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind tree.Kind
		want string
	}{
		{kind: KindFile, want: CatFile},
		{kind: KindLetStmt, want: CatStmt},
		{kind: KindReturn, want: CatStmt},
		{kind: KindExprStmt, want: CatStmt},
		{kind: KindArgList, want: CatArgs},
		{kind: KindCondExpr, want: CatExpr},
		{kind: KindBinary, want: CatExpr},
		{kind: KindIdent, want: CatExpr},
	}

	for _, tt := range tests {
		if got := categoryOf(tt.kind); string(got) != tt.want {
			t.Errorf("categoryOf(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
