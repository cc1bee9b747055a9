package cut

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Goal selects which cost pair a CutSet sorts by: MinArea orders
// (area, delay, leafCount) ascending, MinDelay orders (delay, area,
// leafCount) ascending. Leaf count is the final key in both; the sort is
// stable, so cuts equal on all three keys keep their insertion order and
// truncation (choosing the best C cuts) is deterministic.
type Goal int

const (
	MinArea Goal = iota
	MinDelay
)

// CutSet holds the cuts known for one AND node: an ordered, duplicate-free
// (by leaf set) collection, built incrementally by Emplace during
// enumeration and periodically trimmed to the C best cuts by priority
// pruning.
type CutSet struct {
	cuts  []*Cut
	index map[uint64][]int // xxhash of the canonical leaf encoding -> cut indices
}

// NewCutSet returns an empty CutSet.
func NewCutSet() *CutSet {
	return &CutSet{index: make(map[uint64][]int)}
}

// Len returns the number of cuts currently held.
func (s *CutSet) Len() int { return len(s.cuts) }

// At returns the i-th cut in the set's current order.
func (s *CutSet) At(i int) *Cut { return s.cuts[i] }

// Cuts returns the set's cuts in their current order. The caller must not
// mutate the returned slice.
func (s *CutSet) Cuts() []*Cut { return s.cuts }

// Emplace inserts c unless a cut with an equal leaf set is already present,
// in which case the existing cut is returned unchanged and inserted is
// false. Cuts are unique by leaf set, and the first one enumerated for a
// given leaf set is kept, independent of cost.
func (s *CutSet) Emplace(c *Cut) (kept *Cut, inserted bool) {
	h := xxhash.Sum64(c.hashLeaves())
	for _, i := range s.index[h] {
		if s.cuts[i].Equal(c) {
			return s.cuts[i], false
		}
	}
	idx := len(s.cuts)
	s.cuts = append(s.cuts, c)
	s.index[h] = append(s.index[h], idx)
	return c, true
}

// Sort orders the cuts in place by goal's comparator.
func (s *CutSet) Sort(goal Goal) {
	less := areaFirstLess
	if goal == MinDelay {
		less = delayFirstLess
	}
	sort.SliceStable(s.cuts, func(i, j int) bool { return less(s.cuts[i], s.cuts[j]) })
	s.reindex()
}

// Truncate discards every cut past the first c, leaving the set's best c
// cuts under whatever order Sort last established. c == 0 means unbounded:
// no pruning.
func (s *CutSet) Truncate(c int) {
	if c > 0 && len(s.cuts) > c {
		s.cuts = s.cuts[:c]
	}
	s.reindex()
}

// SortAndTruncate sorts by goal then truncates to the best c cuts, the
// combined priority-pruning step the enumerator runs after every diamond
// or phi step.
func (s *CutSet) SortAndTruncate(goal Goal, c int) {
	s.Sort(goal)
	s.Truncate(c)
}

func (s *CutSet) reindex() {
	s.index = make(map[uint64][]int, len(s.cuts))
	for i, c := range s.cuts {
		h := xxhash.Sum64(c.hashLeaves())
		s.index[h] = append(s.index[h], i)
	}
}

// Copy returns a shallow copy: a new CutSet over the same *Cut pointers,
// safe to Sort/Truncate independently of the original (diamond needs its
// own working copy of a child's cut set without disturbing the child's).
func (s *CutSet) Copy() *CutSet {
	cp := &CutSet{cuts: append([]*Cut(nil), s.cuts...)}
	cp.reindex()
	return cp
}

func areaFirstLess(a, b *Cut) bool {
	if a.MustArea() != b.MustArea() {
		return a.MustArea() < b.MustArea()
	}
	if a.MustDelay() != b.MustDelay() {
		return a.MustDelay() < b.MustDelay()
	}
	return a.NumLeaves() < b.NumLeaves()
}

func delayFirstLess(a, b *Cut) bool {
	if a.MustDelay() != b.MustDelay() {
		return a.MustDelay() < b.MustDelay()
	}
	if a.MustArea() != b.MustArea() {
		return a.MustArea() < b.MustArea()
	}
	return a.NumLeaves() < b.NumLeaves()
}
