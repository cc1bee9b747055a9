package z

import "testing"

func TestLitDimacs(t *testing.T) {
	for i := 1; i < 100; i++ {
		if Dimacs2Lit(i).Dimacs() != i {
			t.Errorf("dimacs conversion %d", i)
		}
		if Dimacs2Lit(-i).Dimacs() != -i {
			t.Errorf("dimacs - conversion %d", i)
		}
		if !Dimacs2Lit(i).IsPos() {
			t.Errorf("not positive: %d", i)
		}
		if Dimacs2Lit(-i).IsPos() {
			t.Errorf("not negative: -%d", i)
		}
	}
}

func TestLitConstants(t *testing.T) {
	if !Lit(0).IsConst() || !Lit(1).IsConst() {
		t.Errorf("literals 0 and 1 must be constants")
	}
	if Lit(2).IsConst() {
		t.Errorf("literal 2 must not be a constant")
	}
	if Lit(0).Not() != 1 {
		t.Errorf("Not(FALSE) must be TRUE")
	}
}
