package aig

import (
	"testing"

	"github.com/airtools/ktmap/z"
)

// buildChain builds a chain of three ANDs: inputs 2,4,6; ands
// 8=2&4, 10=8&6, 12=10&2; one output 12.
func buildChain(t *testing.T) *AIG {
	t.Helper()
	b, err := NewBuilder(6, 3, 0, 1, 3)
	if err != nil {
		t.Fatalf("NewBuilder: %s", err)
	}
	if err := b.SetAnd(0, z.Lit(4), z.Lit(2)); err != nil { // 8 = 4 & 2
		t.Fatalf("SetAnd(0): %s", err)
	}
	if err := b.SetAnd(1, z.Lit(8), z.Lit(6)); err != nil { // 10 = 8 & 6
		t.Fatalf("SetAnd(1): %s", err)
	}
	if err := b.SetAnd(2, z.Lit(10), z.Lit(2)); err != nil { // 12 = 10 & 2
		t.Fatalf("SetAnd(2): %s", err)
	}
	if err := b.AddOutput(z.Lit(12)); err != nil {
		t.Fatalf("AddOutput: %s", err)
	}
	a, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %s", err)
	}
	return a
}

func TestClassification(t *testing.T) {
	a := buildChain(t)
	if !a.IsInput(z.Lit(2)) || !a.IsInput(z.Lit(4)) || !a.IsInput(z.Lit(6)) {
		t.Errorf("inputs misclassified")
	}
	if !a.IsAnd(z.Lit(8)) || !a.IsAnd(z.Lit(10)) || !a.IsAnd(z.Lit(12)) {
		t.Errorf("ands misclassified")
	}
	if a.IsAnd(z.Lit(2)) || a.IsInput(z.Lit(8)) || a.IsLatch(z.Lit(8)) {
		t.Errorf("cross-classification leak")
	}
	if !a.IsCombinational() || a.IsSequential() {
		t.Errorf("expected combinational AIG")
	}
}

func TestFanout(t *testing.T) {
	a := buildChain(t)
	// literal 2 (var 1) feeds and(8) and and(12): fanout 2.
	// literal 8 feeds and(10) only: fanout 1.
	// literal 10 feeds and(12) only: fanout 1.
	// literal 12 feeds the sole output: fanout 1.
	n8, err := a.And(z.Lit(8))
	if err != nil {
		t.Fatal(err)
	}
	n10, err := a.And(z.Lit(10))
	if err != nil {
		t.Fatal(err)
	}
	n12, err := a.And(z.Lit(12))
	if err != nil {
		t.Fatal(err)
	}
	if n8.Fanout() != 1 {
		t.Errorf("and 8 fanout = %d, want 1", n8.Fanout())
	}
	if n10.Fanout() != 1 {
		t.Errorf("and 10 fanout = %d, want 1", n10.Fanout())
	}
	if n12.Fanout() != 1 {
		t.Errorf("and 12 fanout = %d, want 1", n12.Fanout())
	}
}

func TestChecksumRejected(t *testing.T) {
	if _, err := NewBuilder(5, 3, 0, 1, 3); err == nil {
		t.Errorf("expected checksum mismatch to be rejected")
	}
}

func TestAndOrderRejected(t *testing.T) {
	b, err := NewBuilder(3, 2, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	// and literal is 2*(2+0+1+0) = 6; require c0 >= c1 >= 2 and 6 > c0.
	if err := b.SetAnd(0, z.Lit(2), z.Lit(4)); err == nil {
		t.Errorf("expected rejection of c0 < c1")
	}
}
