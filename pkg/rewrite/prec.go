package rewrite

// PrecClass classifies an expression position for parenthesization beyond
// plain precedence: some grammars restrict which expression forms may
// appear as a conditional head or a call callee regardless of precedence.
type PrecClass uint8

// Expression position classes.
const (
	// PrecNormal is an ordinary expression position.
	PrecNormal PrecClass = iota
	// PrecCond is a conditional-head position (e.g. the guard of an if).
	PrecCond
	// PrecCallee is a function-call callee position.
	PrecCallee
)

// precResetMin is below every real precedence level, so a reset context
// never forces parentheses.
const precResetMin int8 = -100

// ExprPrec is the parenthesization context threaded through expression
// children: the printer must parenthesize any expression whose own
// precedence is below Min, and may apply extra Class-specific rules.
type ExprPrec struct {
	Class PrecClass
	Min   int8
}

// PrecReset returns the neutral context: no enclosing constraint.
func PrecReset() ExprPrec {
	return ExprPrec{Class: PrecNormal, Min: precResetMin}
}

// BinopLeftPrec returns the context for the left operand of a binary
// operator with the given precedence and associativity.
func BinopLeftPrec(prec int8, rightAssoc bool) ExprPrec {
	if rightAssoc {
		return ExprPrec{Class: PrecNormal, Min: prec + 1}
	}

	return ExprPrec{Class: PrecNormal, Min: prec}
}

// BinopRightPrec returns the context for the right operand of a binary
// operator with the given precedence and associativity.
func BinopRightPrec(prec int8, rightAssoc bool) ExprPrec {
	if rightAssoc {
		return ExprPrec{Class: PrecNormal, Min: prec}
	}

	return ExprPrec{Class: PrecNormal, Min: prec + 1}
}
