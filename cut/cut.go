// Package cut implements the K-feasible cut algebra: a Cut is a leaf-variable
// set plus area/delay/power costs, and a CutSet is an ordered, duplicate-free
// sequence of Cuts for one AND node. Variables, not literals, are the cut
// currency — polarity is stripped at the AIG boundary before a variable
// ever enters a Cut.
package cut

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/airtools/ktmap/errs"
	"github.com/airtools/ktmap/z"
)

// Errors related to cut construction and cost bookkeeping.
var (
	ErrEmptyUnion  = errors.New("cannot union a cut with an empty leaf set")
	ErrSentinelSet = errors.New("cost must not be set to the reserved sentinel value")
)

// Unset is the reserved sentinel a cost must never be assigned; costs are
// tracked as explicit optional fields (see cost below), so Unset exists only
// to reject caller confusion at the setter, matching the source's intent
// without actually using it as the "no value" representation.
const Unset = ^uint32(0)

// cost is an optional unsigned cost: an explicit "set" flag disambiguates
// "zero" from "never assigned", per the design notes' preference over a
// reserved sentinel value.
type cost struct {
	val uint32
	set bool
}

func (c cost) get() (uint32, bool) { return c.val, c.set }

func (c *cost) setVal(v uint32) error {
	if v == Unset {
		return errs.New(errs.Precondition, ErrSentinelSet)
	}
	c.val = v
	c.set = true
	return nil
}

// Cut is a K-feasible cut candidate: a set of leaf variables plus area,
// delay and power costs. Two Cuts are equal iff their leaf sets are equal;
// costs never participate in equality.
type Cut struct {
	leaves             []z.Var // sorted ascending, no duplicates
	area, delay, power cost
}

// New constructs a Cut over leaves, deduplicating and sorting them. Costs
// start unset; the caller assigns them via SetArea/SetDelay/SetPower.
func New(leaves ...z.Var) *Cut {
	ls := append([]z.Var(nil), leaves...)
	sort.Slice(ls, func(i, j int) bool { return ls[i] < ls[j] })
	ls = dedup(ls)
	return &Cut{leaves: ls}
}

func dedup(sorted []z.Var) []z.Var {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// Leaves returns the cut's leaf variables in ascending order. The caller
// must not mutate the returned slice.
func (c *Cut) Leaves() []z.Var { return c.leaves }

// NumLeaves returns the number of leaves.
func (c *Cut) NumLeaves() int { return len(c.leaves) }

// IsEmpty reports whether the cut has no leaves.
func (c *Cut) IsEmpty() bool { return len(c.leaves) == 0 }

// Equal reports whether c and other have identical leaf sets. Costs are not
// compared.
func (c *Cut) Equal(other *Cut) bool {
	if len(c.leaves) != len(other.leaves) {
		return false
	}
	for i, v := range c.leaves {
		if other.leaves[i] != v {
			return false
		}
	}
	return true
}

// Union returns a new Cut whose leaves are the set union of c and other's
// leaves, with all three costs left unset for the caller to assign. Union
// of a cut with an empty leaf set is rejected.
func (c *Cut) Union(other *Cut) (*Cut, error) {
	if c.IsEmpty() || other.IsEmpty() {
		return nil, errs.New(errs.Precondition, ErrEmptyUnion)
	}
	merged := make([]z.Var, 0, len(c.leaves)+len(other.leaves))
	i, j := 0, 0
	for i < len(c.leaves) && j < len(other.leaves) {
		switch {
		case c.leaves[i] < other.leaves[j]:
			merged = append(merged, c.leaves[i])
			i++
		case c.leaves[i] > other.leaves[j]:
			merged = append(merged, other.leaves[j])
			j++
		default:
			merged = append(merged, c.leaves[i])
			i++
			j++
		}
	}
	merged = append(merged, c.leaves[i:]...)
	merged = append(merged, other.leaves[j:]...)
	return &Cut{leaves: merged}, nil
}

// SetArea, SetDelay and SetPower assign a cost, rejecting the reserved
// sentinel value Unset.
func (c *Cut) SetArea(v uint32) error  { return c.area.setVal(v) }
func (c *Cut) SetDelay(v uint32) error { return c.delay.setVal(v) }
func (c *Cut) SetPower(v uint32) error { return c.power.setVal(v) }

// Area, Delay and Power return the cost and whether it has been set.
func (c *Cut) Area() (uint32, bool)  { return c.area.get() }
func (c *Cut) Delay() (uint32, bool) { return c.delay.get() }
func (c *Cut) Power() (uint32, bool) { return c.power.get() }

// AllCostsSet reports whether area, delay and power all have a value.
func (c *Cut) AllCostsSet() bool {
	_, a := c.area.get()
	_, d := c.delay.get()
	_, p := c.power.get()
	return a && d && p
}

// MustArea/MustDelay/MustPower return the cost value, panicking if unset.
// The CutSet comparators call MustArea and MustDelay directly, so every cut
// in a set that is sorted must have its area and delay set.
func (c *Cut) MustArea() uint32 {
	v, ok := c.area.get()
	if !ok {
		panic("cut: area cost not set")
	}
	return v
}

func (c *Cut) MustDelay() uint32 {
	v, ok := c.delay.get()
	if !ok {
		panic("cut: delay cost not set")
	}
	return v
}

func (c *Cut) MustPower() uint32 {
	v, ok := c.power.get()
	if !ok {
		panic("cut: power cost not set")
	}
	return v
}

// String renders the cut as
// "( v0 v1 ... ) : area = A : delay = D : power = P", with each leaf shown
// in literal form (2*variable).
func (c *Cut) String() string {
	var buf bytes.Buffer
	buf.WriteString("( ")
	for _, v := range c.leaves {
		fmt.Fprintf(&buf, "%d ", uint32(v)*2)
	}
	buf.WriteString(")")
	fmt.Fprintf(&buf, " : area = %d : delay = %d : power = %d", c.area.val, c.delay.val, c.power.val)
	return buf.String()
}

// hashLeaves returns a canonical byte encoding of the (already-sorted)
// leaf set, used by CutSet to hash cuts for fast duplicate detection.
func (c *Cut) hashLeaves() []byte {
	buf := make([]byte, 4*len(c.leaves))
	for i, v := range c.leaves {
		b := buf[i*4 : i*4+4]
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
		b[3] = byte(v >> 24)
	}
	return buf
}
