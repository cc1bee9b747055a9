package z

import "fmt"

// Lit is an AIGER literal: Lit = 2*Var + polarity, polarity 0 positive,
// 1 negated. Literal 0 is the constant FALSE, literal 1 is constant TRUE.
type Lit uint32

// LitNull is a sentinel meaning "no literal", distinct from every literal an
// AIGER file can actually encode (0 and 1 are meaningful constants here, so
// neither can double as the sentinel the way gini uses 0 for its own
// LitNull).
const LitNull = Lit(^uint32(0))

// Var strips the polarity bit, returning the underlying variable.
func (m Lit) Var() Var {
	return Var(m >> 1)
}

// IsPos reports whether m is a positive (non-negated) literal.
func (m Lit) IsPos() bool {
	return m&1 == 0
}

// Sign returns 1 for a positive literal and -1 for a negated one.
func (m Lit) Sign() int {
	if m.IsPos() {
		return 1
	}
	return -1
}

// Not returns the complement of m.
func (m Lit) Not() Lit {
	return m ^ 1
}

// IsConst reports whether m is one of the two AIGER constants (0 or 1).
func (m Lit) IsConst() bool {
	return m <= 1
}

// String renders m in dimacs-ish form: "m<var>" or "-m<var>".
func (m Lit) String() string {
	if m.IsPos() {
		return fmt.Sprintf("m%d", uint32(m.Var()))
	}
	return fmt.Sprintf("-m%d", uint32(m.Var()))
}

// Dimacs2Lit converts a non-zero dimacs-style signed integer into a Lit.
func Dimacs2Lit(i int) Lit {
	if i >= 0 {
		return Var(i).Pos()
	}
	return Var(-i).Neg()
}

// Dimacs converts m back to dimacs-style signed integer form.
func (m Lit) Dimacs() int {
	v := int(m.Var())
	if m.IsPos() {
		return v
	}
	return -v
}
