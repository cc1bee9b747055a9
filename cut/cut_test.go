package cut

import (
	"testing"

	"github.com/airtools/ktmap/z"
)

func TestNewDedupesAndSorts(t *testing.T) {
	c := New(z.Var(3), z.Var(1), z.Var(3), z.Var(2))
	want := []z.Var{1, 2, 3}
	got := c.Leaves()
	if len(got) != len(want) {
		t.Fatalf("leaves = %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("leaves = %v, want %v", got, want)
		}
	}
}

func TestEqualIgnoresCost(t *testing.T) {
	a := New(z.Var(1), z.Var(2))
	b := New(z.Var(2), z.Var(1))
	if err := a.SetArea(5); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("cuts over the same leaf set should be equal regardless of cost")
	}
}

func TestUnion(t *testing.T) {
	a := New(z.Var(1), z.Var(2))
	b := New(z.Var(2), z.Var(3))
	u, err := a.Union(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []z.Var{1, 2, 3}
	got := u.Leaves()
	if len(got) != len(want) {
		t.Fatalf("union leaves = %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("union leaves = %v, want %v", got, want)
		}
	}
}

func TestUnionRejectsEmpty(t *testing.T) {
	a := New(z.Var(1))
	empty := New()
	if _, err := a.Union(empty); err == nil {
		t.Errorf("expected union with an empty cut to be rejected")
	}
}

func TestSetCostRejectsSentinel(t *testing.T) {
	c := New(z.Var(1))
	if err := c.SetArea(Unset); err == nil {
		t.Errorf("expected sentinel area assignment to be rejected")
	}
}

func TestAllCostsSet(t *testing.T) {
	c := New(z.Var(1))
	if c.AllCostsSet() {
		t.Fatalf("fresh cut should have no costs set")
	}
	c.SetArea(1)
	c.SetDelay(1)
	c.SetPower(0)
	if !c.AllCostsSet() {
		t.Errorf("expected all costs set")
	}
}

func TestCutSetEmplaceDeduplicates(t *testing.T) {
	s := NewCutSet()
	c1 := New(z.Var(1), z.Var(2))
	c1.SetArea(1)
	c1.SetDelay(1)
	c1.SetPower(0)
	kept, inserted := s.Emplace(c1)
	if !inserted || kept != c1 {
		t.Fatalf("first emplace should insert")
	}

	c2 := New(z.Var(2), z.Var(1))
	c2.SetArea(99)
	c2.SetDelay(99)
	c2.SetPower(0)
	kept, inserted = s.Emplace(c2)
	if inserted {
		t.Errorf("duplicate leaf set should not insert")
	}
	if kept != c1 {
		t.Errorf("emplace should keep the first cut enumerated for a leaf set")
	}
	if s.Len() != 1 {
		t.Errorf("cut set len = %d, want 1", s.Len())
	}
}

func TestSortAndTruncateMinArea(t *testing.T) {
	s := NewCutSet()
	mk := func(area, delay uint32, leaves ...z.Var) *Cut {
		c := New(leaves...)
		c.SetArea(area)
		c.SetDelay(delay)
		c.SetPower(0)
		return c
	}
	s.Emplace(mk(3, 1, z.Var(1)))
	s.Emplace(mk(1, 2, z.Var(2)))
	s.Emplace(mk(2, 0, z.Var(3)))

	s.SortAndTruncate(MinArea, 2)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if s.At(0).MustArea() != 1 || s.At(1).MustArea() != 2 {
		t.Errorf("unexpected area order: %d, %d", s.At(0).MustArea(), s.At(1).MustArea())
	}
}

func TestSortAndTruncateMinDelay(t *testing.T) {
	s := NewCutSet()
	mk := func(area, delay uint32, leaves ...z.Var) *Cut {
		c := New(leaves...)
		c.SetArea(area)
		c.SetDelay(delay)
		c.SetPower(0)
		return c
	}
	s.Emplace(mk(3, 5, z.Var(1)))
	s.Emplace(mk(1, 2, z.Var(2)))
	s.Emplace(mk(2, 9, z.Var(3)))

	s.SortAndTruncate(MinDelay, 0)
	if s.At(0).MustDelay() != 2 {
		t.Errorf("min-delay sort should put delay 2 first, got %d", s.At(0).MustDelay())
	}
}

func TestTruncateZeroDisablesPruning(t *testing.T) {
	s := NewCutSet()
	for i := 1; i <= 5; i++ {
		c := New(z.Var(i))
		c.SetArea(uint32(i))
		c.SetDelay(uint32(i))
		c.SetPower(0)
		s.Emplace(c)
	}
	s.SortAndTruncate(MinArea, 0)
	if s.Len() != 5 {
		t.Errorf("c=0 should keep every cut, got %d", s.Len())
	}
}

func TestCopyIsIndependent(t *testing.T) {
	s := NewCutSet()
	c := New(z.Var(1))
	c.SetArea(1)
	c.SetDelay(1)
	c.SetPower(0)
	s.Emplace(c)

	cp := s.Copy()
	c2 := New(z.Var(2))
	c2.SetArea(2)
	c2.SetDelay(2)
	c2.SetPower(0)
	cp.Emplace(c2)

	if s.Len() != 1 {
		t.Errorf("mutating the copy should not affect the original, original len = %d", s.Len())
	}
	if cp.Len() != 2 {
		t.Errorf("copy len = %d, want 2", cp.Len())
	}
}
