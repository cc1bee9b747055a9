// Package z provides the variable/literal arithmetic shared by every other
// package in ktmap: the AIG, the cut algebra and the mapping engine all
// refer to nodes exclusively through these two small value types.
package z

import "fmt"

// Var is a variable index. Variable 0 is reserved for the AIGER constant
// (literal 0 is FALSE, literal 1 is TRUE); variables 1..M name primary
// inputs, latches and AND nodes in that order, per the AIGER numbering
// contract.
type Var uint32

// Pos returns the positive literal for v.
func (v Var) Pos() Lit {
	return Lit(v << 1)
}

// Neg returns the negated literal for v.
func (v Var) Neg() Lit {
	return Lit(v<<1) | 1
}

// String renders v as "v<index>".
func (v Var) String() string {
	return fmt.Sprintf("v%d", uint32(v))
}
