// Package techmap implements the cut-enumeration engine (CutEngine) and the
// cover-selection pass (TechMapper) that together perform K-LUT technology
// mapping over an AIG: phi/diamond cut enumeration with priority pruning,
// then a descent from primary outputs that selects the cover and totals
// LUT count and depth.
package techmap

import (
	"errors"
	"sort"

	"github.com/airtools/ktmap/aig"
	"github.com/airtools/ktmap/cut"
	"github.com/airtools/ktmap/errs"
	"github.com/airtools/ktmap/z"
)

// Errors related to engine configuration and enumeration preconditions.
var (
	ErrBadK          = errors.New("k must be >= 2")
	ErrNotAndLit     = errors.New("literal does not name an and node")
	ErrChildNotReady = errors.New("phi called with a child whose cut set is not yet populated")
	ErrNoBestCut     = errors.New("no best cut: findCuts has not been run on this literal")
	ErrCostUnset     = errors.New("diamond operand has an unset cost")
)

// Engine is the CutEngine: per-AND cut enumeration driven by findCuts, with
// its own implementationMap tracking which AND nodes the enumeration
// considers free (zero marginal area) at any point in the traversal. This
// map is enumeration-local bookkeeping for estimateUnionArea; it is
// distinct from Mapper's cover-selection implementation map.
type Engine struct {
	a       *aig.AIG
	k, c    uint32
	goal    cut.Goal
	cutsets []*cut.CutSet // indexed by and-variable offset, length a.A
	impl    map[z.Lit]bool
}

// NewEngine allocates an Engine over a for the given k (LUT input count,
// must be >= 2), c (priority-pruning bound, 0 disables pruning) and goal.
func NewEngine(a *aig.AIG, k, c uint32, goal cut.Goal) (*Engine, error) {
	if k < 2 {
		return nil, errs.New(errs.Precondition, ErrBadK)
	}
	cutsets := make([]*cut.CutSet, a.A)
	for i := range cutsets {
		cutsets[i] = cut.NewCutSet()
	}
	return &Engine{a: a, k: k, c: c, goal: goal, cutsets: cutsets, impl: make(map[z.Lit]bool)}, nil
}

// K, C and Goal return the engine's immutable configuration.
func (e *Engine) K() uint32      { return e.k }
func (e *Engine) C() uint32      { return e.c }
func (e *Engine) Goal() cut.Goal { return e.goal }

// canon strips the polarity bit, the canonical even literal a node is
// always keyed by in cut sets and implementation maps.
func canon(l z.Lit) z.Lit { return z.Lit(uint32(l) &^ 1) }

func (e *Engine) andIdx(lit z.Lit) (int, error) {
	if !e.a.IsAnd(lit) {
		return 0, errs.New(errs.Precondition, ErrNotAndLit)
	}
	return int(uint32(lit.Var()) - (e.a.I + e.a.L + 1)), nil
}

// HasBestCut reports whether andLit's cut set has been populated by
// findCuts. Exposed as a read accessor independent of the top-level Run
// driver, for callers that want to probe enumeration progress directly.
func (e *Engine) HasBestCut(andLit z.Lit) bool {
	idx, err := e.andIdx(andLit)
	if err != nil {
		return false
	}
	return e.cutsets[idx].Len() > 0
}

// BestCut returns the lowest-cost cut under the engine's comparator for
// andLit, failing with errs.Precondition if findCuts has not yet run on it.
func (e *Engine) BestCut(andLit z.Lit) (*cut.Cut, error) {
	idx, err := e.andIdx(andLit)
	if err != nil {
		return nil, err
	}
	if e.cutsets[idx].Len() == 0 {
		return nil, errs.New(errs.Precondition, ErrNoBestCut)
	}
	return e.cutsets[idx].At(0), nil
}

// GetCutSet returns the full cut set computed so far for andLit (possibly
// empty, if findCuts has not reached it).
func (e *Engine) GetCutSet(andLit z.Lit) (*cut.CutSet, error) {
	idx, err := e.andIdx(andLit)
	if err != nil {
		return nil, err
	}
	return e.cutsets[idx], nil
}

// autoCut builds the singleton cut { var(child) } for use as a leaf in a
// parent's phi step. An AND child's cost carries forward its own best cut
// (one more level of delay); an input or latch leaf costs nothing and adds
// one level of delay.
func (e *Engine) autoCut(child z.Lit) (*cut.Cut, error) {
	ac := cut.New(child.Var())
	if e.a.IsAnd(child) {
		best, err := e.BestCut(canon(child))
		if err != nil {
			return nil, err
		}
		if err := ac.SetArea(best.MustArea()); err != nil {
			return nil, err
		}
		if err := ac.SetDelay(1 + best.MustDelay()); err != nil {
			return nil, err
		}
	} else {
		if err := ac.SetArea(0); err != nil {
			return nil, err
		}
		if err := ac.SetDelay(1); err != nil {
			return nil, err
		}
	}
	if err := ac.SetPower(0); err != nil {
		return nil, err
	}
	return ac, nil
}

// childCutSet builds the starting cut set for child: a copy of the child's
// own cut set if it is an AND, else an empty set (primary inputs and
// latches are enumeration leaves).
func (e *Engine) childCutSet(child z.Lit) (*cut.CutSet, error) {
	if e.a.IsAnd(child) {
		idx, err := e.andIdx(child)
		if err != nil {
			return nil, err
		}
		if e.cutsets[idx].Len() == 0 {
			return nil, errs.New(errs.Precondition, ErrChildNotReady)
		}
		return e.cutsets[idx].Copy(), nil
	}
	return cut.NewCutSet(), nil
}

// phi computes the cut set for AND node aLit from its two children's cut
// sets. It memoizes: if aLit already has a non-empty cut set, that set is
// returned unchanged.
func (e *Engine) phi(aLit z.Lit) (*cut.CutSet, error) {
	idx, err := e.andIdx(aLit)
	if err != nil {
		return nil, err
	}
	if e.cutsets[idx].Len() > 0 {
		return e.cutsets[idx], nil
	}
	node, err := e.a.And(aLit)
	if err != nil {
		return nil, err
	}
	children := [2]z.Lit{node.C0, node.C1}
	var sets [2]*cut.CutSet
	for i, c := range children {
		cs, err := e.childCutSet(c)
		if err != nil {
			return nil, err
		}
		ac, err := e.autoCut(c)
		if err != nil {
			return nil, err
		}
		cs.Emplace(ac)
		sets[i] = cs
	}
	return e.diamond(sets[0], sets[1])
}

// diamond combines two cut sets into the set of pairwise unions whose leaf
// count is at most k.
func (e *Engine) diamond(a, b *cut.CutSet) (*cut.CutSet, error) {
	result := cut.NewCutSet()
	for _, x := range a.Cuts() {
		for _, y := range b.Cuts() {
			u, err := x.Union(y)
			if err != nil {
				return nil, err
			}
			if u.NumLeaves() > int(e.k) {
				continue
			}
			if !x.AllCostsSet() || !y.AllCostsSet() {
				return nil, errs.New(errs.Precondition, ErrCostUnset)
			}
			kept, inserted := result.Emplace(u)
			if !inserted {
				continue
			}
			if err := kept.SetArea(e.estimateUnionArea(kept)); err != nil {
				return nil, err
			}
			xd, yd := x.MustDelay(), y.MustDelay()
			d := xd
			if yd > d {
				d = yd
			}
			if err := kept.SetDelay(d); err != nil {
				return nil, err
			}
			if err := kept.SetPower(0); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// estimateUnionArea counts the leaves of u that are AND nodes not already
// marked implemented (zero marginal area) in the engine's enumeration-time
// implementation map.
func (e *Engine) estimateUnionArea(u *cut.Cut) uint32 {
	var area uint32
	for _, v := range u.Leaves() {
		lit := z.Var(v).Pos()
		if e.a.IsAnd(lit) && !e.impl[lit] {
			area++
		}
	}
	return area
}

// leavesSubset reports whether every element of small also appears in big;
// both must be sorted ascending, which cut.Cut.Leaves always is.
func leavesSubset(small, big []z.Var) bool {
	j := 0
	for _, v := range small {
		for j < len(big) && big[j] < v {
			j++
		}
		if j >= len(big) || big[j] != v {
			return false
		}
	}
	return true
}

// findCuts ensures cutSet(seed) is populated, recursively computing child
// cut sets as needed. The traversal uses an explicit stack rather than
// recursion, bounding memory by AIG depth rather than host stack size. A
// literal that does not name an AND node (input, latch or constant)
// requires no cut set and is a no-op.
func (e *Engine) findCuts(seed z.Lit) error {
	if !e.a.IsAnd(seed) {
		return nil
	}
	stack := []z.Lit{canon(seed)}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		idx, err := e.andIdx(t)
		if err != nil {
			return err
		}
		if e.cutsets[idx].Len() > 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		node, err := e.a.And(t)
		if err != nil {
			return err
		}
		children := [2]z.Lit{node.C0, node.C1}
		pushedChild := false
		for _, c := range children {
			if !e.a.IsAnd(c) {
				continue
			}
			cidx, err := e.andIdx(c)
			if err != nil {
				return err
			}
			if e.cutsets[cidx].Len() == 0 {
				stack = append(stack, canon(c))
				pushedChild = true
			}
		}
		if pushedChild {
			continue
		}
		s, err := e.phi(t)
		if err != nil {
			return err
		}
		if e.c > 0 {
			s.SortAndTruncate(e.goal, int(e.c))
		} else {
			s.Sort(e.goal)
		}
		e.cutsets[idx] = s
		best := s.At(0)
		if best.MustArea() == 0 {
			e.impl[t] = true
			for _, c := range children {
				if !e.a.IsAnd(c) {
					continue
				}
				bi, err := e.BestCut(canon(c))
				if err != nil {
					return err
				}
				if leavesSubset(bi.Leaves(), best.Leaves()) {
					e.impl[canon(c)] = false
				}
			}
		}
		stack = stack[:len(stack)-1]
	}
	return nil
}

// Run applies findCuts to every primary output literal that names an AND
// node.
func (e *Engine) Run() error {
	for _, o := range e.a.Outputs {
		if e.a.IsAnd(o) {
			if err := e.findCuts(o); err != nil {
				return err
			}
		}
	}
	return nil
}

// ImplEntry pairs an AND literal with the cut that implements it, or a nil
// Cut if there is none to report: Engine.Implementation leaves it nil for a
// literal that was never enumerated, Mapper.Implementation for a literal
// not selected into the cover.
type ImplEntry struct {
	Lit z.Lit
	Cut *cut.Cut
}

// Implementation returns, for every AND literal in ascending order, its
// best cut if findCuts has reached it. This is a debug view over raw
// enumeration state, independent of TechMapper's cover selection.
func (e *Engine) Implementation() []ImplEntry {
	entries := make([]ImplEntry, 0, len(e.cutsets))
	for idx := range e.cutsets {
		andVar := e.a.I + e.a.L + 1 + uint32(idx)
		lit := z.Var(andVar).Pos()
		entry := ImplEntry{Lit: lit}
		if e.cutsets[idx].Len() > 0 {
			entry.Cut = e.cutsets[idx].At(0)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Lit < entries[j].Lit })
	return entries
}
