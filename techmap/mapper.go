package techmap

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/airtools/ktmap/aig"
	"github.com/airtools/ktmap/cut"
	"github.com/airtools/ktmap/z"
)

// Mapper is the TechMapper: given an Engine that has already (or will, on
// demand) enumerate cuts, it selects a cover by descending from primary
// outputs along best cuts and totals LUT count (area) and depth.
type Mapper struct {
	eng   *Engine
	a     *aig.AIG
	impl  map[z.Lit]bool // even AND literal -> selected into the cover
	area  uint32
	depth uint32
}

// NewMapper returns a Mapper driving eng.
func NewMapper(eng *Engine) *Mapper {
	return &Mapper{eng: eng, a: eng.a}
}

// Area returns the LUT count of the most recent Run.
func (m *Mapper) Area() uint32 { return m.area }

// Depth returns the level count (longest LUT chain) of the most recent Run.
func (m *Mapper) Depth() uint32 { return m.depth }

// Run selects the cover. It is idempotent: invoking it again resets and
// recomputes the same result from the same engine state.
func (m *Mapper) Run() error {
	m.impl = make(map[z.Lit]bool)
	m.area = 0
	m.depth = 0
	for _, o := range m.a.Outputs {
		if err := m.mapOutput(o); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mapper) mapOutput(o z.Lit) error {
	switch {
	case uint32(o) <= 1, m.a.IsInput(o):
		m.area++
		if m.depth < 1 {
			m.depth = 1
		}
		return nil
	case m.a.IsLatch(o):
		return nil
	case m.a.IsAnd(o):
		return m.mapAndOutput(o)
	}
	return nil
}

func (m *Mapper) mapAndOutput(o z.Lit) error {
	oPrime := canon(o)
	if m.impl[oPrime] {
		return nil
	}
	if err := m.eng.findCuts(o); err != nil {
		return err
	}
	best, err := m.eng.BestCut(oPrime)
	if err != nil {
		return err
	}
	m.impl[oPrime] = true
	m.area++
	if d := best.MustDelay(); d > m.depth {
		m.depth = d
	}

	frontier := andLeaves(m.a, best)
	for len(frontier) > 0 {
		var next []z.Lit
		for _, n := range frontier {
			if m.impl[n] {
				continue
			}
			m.impl[n] = true
			m.area++
			nb, err := m.eng.BestCut(n)
			if err != nil {
				return err
			}
			next = append(next, andLeaves(m.a, nb)...)
		}
		frontier = next
	}
	return nil
}

// andLeaves returns the even literals of c's leaves that name AND nodes,
// the frontier a cover-selection step expands into next.
func andLeaves(a *aig.AIG, c *cut.Cut) []z.Lit {
	var out []z.Lit
	for _, v := range c.Leaves() {
		lit := z.Var(v).Pos()
		if a.IsAnd(lit) {
			out = append(out, lit)
		}
	}
	return out
}

// Implementation returns, for every AND literal in ascending order, the
// cut that implements it in the selected cover, or a nil Cut if the node
// was not selected. This is the data backing Report, exposed independently
// of text rendering so embedders can inspect the cover directly.
func (m *Mapper) Implementation() []ImplEntry {
	entries := make([]ImplEntry, 0, m.a.A)
	for idx := 0; idx < int(m.a.A); idx++ {
		andVar := m.a.I + m.a.L + 1 + uint32(idx)
		lit := z.Var(andVar).Pos()
		entry := ImplEntry{Lit: lit}
		if m.impl[lit] {
			if best, err := m.eng.BestCut(lit); err == nil {
				entry.Cut = best
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Lit < entries[j].Lit })
	return entries
}

// Report renders the full text mapping report: a LUT-count/level-count
// summary followed by the selected cut for every AND literal.
func (m *Mapper) Report() string {
	var buf bytes.Buffer
	buf.WriteString(">> Technology Mapping results\n")
	fmt.Fprintf(&buf, "# LUT count: %d\n", m.area)
	fmt.Fprintf(&buf, "# Levels: %d\n", m.depth)
	for _, e := range m.Implementation() {
		if e.Cut != nil {
			fmt.Fprintf(&buf, "(%d) => %s\n", uint32(e.Lit), e.Cut)
		} else {
			fmt.Fprintf(&buf, "(%d) => not implemented\n", uint32(e.Lit))
		}
	}
	return buf.String()
}
