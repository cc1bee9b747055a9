package aig

import "github.com/airtools/ktmap/z"

// header is the fanout counter shared by AndNode and LatchNode. AndNode and
// LatchNode share only this one field; composition replaces a one-field
// inheritance hierarchy since no virtual dispatch is needed — every call
// site already knows the node kind from the literal-range classification
// in AIG.
type header struct {
	fanout uint32
}

// Fanout returns the number of incoming edges into this node: AND-child
// references, a latch next-state reference, or primary-output references.
func (h *header) Fanout() uint32 { return h.fanout }

func (h *header) incFanout() { h.fanout++ }

// AndNode is a 2-input AND gate: lit = c0 AND c1, with c0 >= c1 >= 2 and
// lit > c0 (the AIGER ordering invariant).
type AndNode struct {
	header
	C0, C1 z.Lit
}

// LatchNode is a sequential element: its value on the next cycle is NextQ.
type LatchNode struct {
	header
	NextQ z.Lit
}
