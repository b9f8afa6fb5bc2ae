package mini

import (
	"errors"
	"testing"
)

func lexAll(t *testing.T, src string) []token {
	t.Helper()

	lx := &lexer{src: []byte(src)}

	var toks []token

	for {
		tok, err := lx.next()
		if err != nil {
			t.Fatalf("next() error: %v", err)
		}

		if tok.kind == tokEOF {
			return toks
		}

		toks = append(toks, tok)
	}
}

func TestLexTokens(t *testing.T) {
	t.Parallel()

	toks := lexAll(t, `let x1 = 12 + "a\"b" <= y;`)

	want := []struct {
		kind tokenKind
		text string
	}{
		{tokKeyword, "let"},
		{tokIdent, "x1"},
		{tokPunct, "="},
		{tokNumber, "12"},
		{tokPunct, "+"},
		{tokString, `"a\"b"`},
		{tokPunct, "<="},
		{tokIdent, "y"},
		{tokPunct, ";"},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].text != w.text {
			t.Errorf("token %d = (%v, %q), want (%v, %q)",
				i, toks[i].kind, toks[i].text, w.kind, w.text)
		}
	}
}

func TestLexTwoBytePunctsBeforeSingle(t *testing.T) {
	t.Parallel()

	toks := lexAll(t, "a || b && c == d != e >= f")

	ops := []string{"||", "&&", "==", "!=", ">="}

	var got []string

	for _, tok := range toks {
		if tok.kind == tokPunct {
			got = append(got, tok.text)
		}
	}

	if len(got) != len(ops) {
		t.Fatalf("got %d punct tokens, want %d", len(got), len(ops))
	}

	for i, op := range ops {
		if got[i] != op {
			t.Errorf("punct %d = %q, want %q", i, got[i], op)
		}
	}
}

func TestLexOffsets(t *testing.T) {
	t.Parallel()

	toks := lexAll(t, "  let  x")

	if toks[0].start != 2 || toks[0].end != 5 {
		t.Errorf("let spans [%d,%d), want [2,5)", toks[0].start, toks[0].end)
	}

	if toks[1].start != 7 || toks[1].end != 8 {
		t.Errorf("x spans [%d,%d), want [7,8)", toks[1].start, toks[1].end)
	}
}

func TestLexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated string", src: `"abc`},
		{name: "unknown byte", src: "a @ b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lx := &lexer{src: []byte(tt.src)}

			var err error

			for err == nil {
				var tok token

				tok, err = lx.next()
				if err == nil && tok.kind == tokEOF {
					t.Fatal("lexer reached EOF without error")
				}
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error = %v, want ErrSyntax", err)
			}
		})
	}
}
