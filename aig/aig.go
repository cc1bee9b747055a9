// Package aig provides the in-memory And-Inverter Graph: the immutable
// container a parsed AIGER design is loaded into, with literal/variable
// arithmetic and fanout tracking. Variables are numbered in three
// contiguous bands in declaration order: inputs, then latches, then AND
// nodes.
package aig

import (
	"errors"
	"fmt"

	"github.com/airtools/ktmap/errs"
	"github.com/airtools/ktmap/z"
)

// Errors related to AIG construction and access.
var (
	ErrChecksum    = errors.New("header checksum M != I+L+A")
	ErrAndOrder    = errors.New("and node literal ordering violated")
	ErrLatchNext   = errors.New("latch next-state literal out of bounds")
	ErrOutputLit   = errors.New("output literal out of bounds")
	ErrNotAndLit   = errors.New("literal does not name an and-node")
	ErrNotLatchLit = errors.New("literal does not name a latch")
	ErrBadVarRange = errors.New("variable index out of any known range")
)

// AIG is an immutable, fully validated And-Inverter Graph. Fanouts are
// computed once at construction and are read-only thereafter.
type AIG struct {
	M, I, L, A  uint32
	Outputs     []z.Lit
	Ands        []AndNode   // indexed by andVar - (I+L+1)
	Latches     []LatchNode // indexed by latchVar - (I+1)
	InputNames  map[int]string
	LatchNames  map[int]string
	OutputNames map[int]string
	Comment     []byte
}

// Builder accumulates a design under construction from the AIGER parser and
// produces a validated AIG with Build.
type Builder struct {
	m, i, l, a  uint32
	outputs     []z.Lit
	ands        []AndNode
	latches     []LatchNode
	inputNames  map[int]string
	latchNames  map[int]string
	outputNames map[int]string
	comment     []byte
}

// NewBuilder allocates a Builder for a design with the given AIGER header
// counts. It returns errs.InputMalformed if the checksum M = I+L+A fails.
func NewBuilder(m, i, l, o, a uint32) (*Builder, error) {
	if m != i+l+a {
		return nil, errs.New(errs.InputMalformed, ErrChecksum)
	}
	return &Builder{
		m: m, i: i, l: l, a: a,
		outputs:     make([]z.Lit, 0, o),
		ands:        make([]AndNode, a),
		latches:     make([]LatchNode, l),
		inputNames:  map[int]string{},
		latchNames:  map[int]string{},
		outputNames: map[int]string{},
	}, nil
}

// SetAnd records the idx-th AND node (0-indexed in declaration order), whose
// implied literal is 2*(I+L+1+idx). It enforces c0 >= c1 >= 2 and
// andLit > c0, failing with errs.InputMalformed otherwise.
func (b *Builder) SetAnd(idx int, c0, c1 z.Lit) error {
	if idx < 0 || uint32(idx) >= b.a {
		return errs.Wrapf(errs.OutOfRange, "and index %d out of range [0,%d)", idx, b.a)
	}
	andVar := b.i + b.l + 1 + uint32(idx)
	andLit := z.Var(andVar).Pos()
	if !(c0 >= c1 && c1 >= 2 && andLit > c0) {
		return errs.Wrapf(errs.InputMalformed, "%w: and %d children (%d,%d)", ErrAndOrder, andLit, c0, c1)
	}
	b.ands[idx] = AndNode{C0: c0, C1: c1}
	return nil
}

// SetLatch records the idx-th latch (0-indexed), whose implied literal is
// 2*(I+1+idx). nextQ must satisfy 2 <= nextQ <= 2*M+1.
func (b *Builder) SetLatch(idx int, nextQ z.Lit) error {
	if idx < 0 || uint32(idx) >= b.l {
		return errs.Wrapf(errs.OutOfRange, "latch index %d out of range [0,%d)", idx, b.l)
	}
	if nextQ < 2 || uint32(nextQ) > 2*b.m+1 {
		return errs.Wrapf(errs.InputMalformed, "%w: latch %d next %d", ErrLatchNext, idx, nextQ)
	}
	b.latches[idx] = LatchNode{NextQ: nextQ}
	return nil
}

// AddOutput appends an output literal, failing if it exceeds 2*M+1.
func (b *Builder) AddOutput(lit z.Lit) error {
	if uint32(lit) > 2*b.m+1 {
		return errs.Wrapf(errs.InputMalformed, "%w: %d", ErrOutputLit, lit)
	}
	b.outputs = append(b.outputs, lit)
	return nil
}

// NameInput, NameLatch and NameOutput bind a symbol table name to the
// index'th input/latch/output.
func (b *Builder) NameInput(idx int, name string) { b.inputNames[idx] = name }
func (b *Builder) NameLatch(idx int, name string) { b.latchNames[idx] = name }
func (b *Builder) NameOutput(idx int, name string) { b.outputNames[idx] = name }

// SetComment records the verbatim comment block trailing the AIGER file.
func (b *Builder) SetComment(c []byte) { b.comment = c }

// Build validates the accumulated design and computes fanouts in a single
// pass over AND children, latch next-states and output references.
func (b *Builder) Build() (*AIG, error) {
	a := &AIG{
		M: b.m, I: b.i, L: b.l, A: b.a,
		Outputs:     b.outputs,
		Ands:        b.ands,
		Latches:     b.latches,
		InputNames:  b.inputNames,
		LatchNames:  b.latchNames,
		OutputNames: b.outputNames,
		Comment:     b.comment,
	}
	if err := a.validateAndFanout(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AIG) validateAndFanout() error {
	for idx := range a.Ands {
		an := &a.Ands[idx]
		andVar := a.I + a.L + 1 + uint32(idx)
		andLit := z.Var(andVar).Pos()
		if !(an.C0 >= an.C1 && an.C1 >= 2 && andLit > an.C0) {
			return errs.Wrapf(errs.InternalInvariant, "%w: and %d children (%d,%d)", ErrAndOrder, andLit, an.C0, an.C1)
		}
		if err := a.bumpFanout(an.C0); err != nil {
			return err
		}
		if err := a.bumpFanout(an.C1); err != nil {
			return err
		}
	}
	for idx := range a.Latches {
		lt := &a.Latches[idx]
		if lt.NextQ < 2 || uint32(lt.NextQ) > 2*a.M+1 {
			return errs.Wrapf(errs.InternalInvariant, "%w: latch %d next %d", ErrLatchNext, idx, lt.NextQ)
		}
		if err := a.bumpFanout(lt.NextQ); err != nil {
			return err
		}
	}
	for _, o := range a.Outputs {
		if uint32(o) > 2*a.M+1 {
			return errs.Wrapf(errs.InternalInvariant, "%w: %d", ErrOutputLit, o)
		}
		if err := a.bumpFanout(o); err != nil {
			return err
		}
	}
	return nil
}

// bumpFanout increments the fanout counter of the node ℓ resolves to, if ℓ
// is an AND or a latch. Constants and inputs carry no fanout counter.
func (a *AIG) bumpFanout(m z.Lit) error {
	switch {
	case a.IsAnd(m):
		an, err := a.andNodeAt(m)
		if err != nil {
			return err
		}
		an.incFanout()
	case a.IsLatch(m):
		lt, err := a.latchNodeAt(m)
		if err != nil {
			return err
		}
		lt.incFanout()
	}
	return nil
}

// IsInput reports whether literal m names a primary input variable.
func (a *AIG) IsInput(m z.Lit) bool {
	v := uint32(m.Var())
	return v >= 1 && v <= a.I
}

// IsLatch reports whether literal m names a latch variable.
func (a *AIG) IsLatch(m z.Lit) bool {
	v := uint32(m.Var())
	return v > a.I && v <= a.I+a.L
}

// IsAnd reports whether literal m names an AND-node variable.
func (a *AIG) IsAnd(m z.Lit) bool {
	v := uint32(m.Var())
	return v > a.I+a.L && v <= a.I+a.L+a.A
}

// IsCombinational reports whether the AIG has no latches.
func (a *AIG) IsCombinational() bool { return a.L == 0 }

// IsSequential reports whether the AIG has at least one latch.
func (a *AIG) IsSequential() bool { return a.L > 0 }

// andNodeAt returns the AndNode backing literal m's variable (the literal
// may carry either polarity; polarity is irrelevant to locating the node).
func (a *AIG) andNodeAt(m z.Lit) (*AndNode, error) {
	if !a.IsAnd(m) {
		return nil, errs.New(errs.Precondition, fmt.Errorf("%w: %d", ErrNotAndLit, m))
	}
	idx := uint32(m.Var()) - (a.I + a.L + 1)
	if idx >= uint32(len(a.Ands)) {
		return nil, errs.Wrapf(errs.OutOfRange, "%w: and index %d", ErrBadVarRange, idx)
	}
	return &a.Ands[idx], nil
}

// And returns a read-only copy of the AndNode named by andLit.
func (a *AIG) And(andLit z.Lit) (AndNode, error) {
	n, err := a.andNodeAt(andLit)
	if err != nil {
		return AndNode{}, err
	}
	return *n, nil
}

func (a *AIG) latchNodeAt(m z.Lit) (*LatchNode, error) {
	if !a.IsLatch(m) {
		return nil, errs.New(errs.Precondition, fmt.Errorf("%w: %d", ErrNotLatchLit, m))
	}
	idx := uint32(m.Var()) - (a.I + 1)
	if idx >= uint32(len(a.Latches)) {
		return nil, errs.Wrapf(errs.OutOfRange, "%w: latch index %d", ErrBadVarRange, idx)
	}
	return &a.Latches[idx], nil
}

// Latch returns a read-only copy of the LatchNode named by latchLit.
func (a *AIG) Latch(latchLit z.Lit) (LatchNode, error) {
	n, err := a.latchNodeAt(latchLit)
	if err != nil {
		return LatchNode{}, err
	}
	return *n, nil
}

// VarToLit converts a variable index into its positive literal.
func VarToLit(v uint32) z.Lit { return z.Var(v).Pos() }

// LitToVar strips polarity, returning the underlying variable index.
func LitToVar(m z.Lit) uint32 { return uint32(m.Var()) }
