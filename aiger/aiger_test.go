package aiger

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/airtools/ktmap/z"
)

func TestReadAsciiSingleAnd(t *testing.T) {
	src := "aag 3 2 0 1 1\n2\n4\n6\n6 4 2\n"
	a, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	if a.M != 3 || a.I != 2 || a.L != 0 || a.A != 1 {
		t.Fatalf("header mismatch: M=%d I=%d L=%d A=%d", a.M, a.I, a.L, a.A)
	}
	if len(a.Outputs) != 1 || a.Outputs[0] != z.Lit(6) {
		t.Fatalf("unexpected outputs: %v", a.Outputs)
	}
	n, err := a.And(z.Lit(6))
	if err != nil {
		t.Fatalf("And(6): %s", err)
	}
	if n.C0 != z.Lit(4) || n.C1 != z.Lit(2) {
		t.Fatalf("and children = (%d,%d), want (4,2)", n.C0, n.C1)
	}
}

func TestReadAsciiSharedSubexpression(t *testing.T) {
	src := "aag 5 2 0 2 3\n2\n4\n8\n10\n6 4 2\n8 6 2\n10 6 4\n"
	a, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	if len(a.Outputs) != 2 {
		t.Fatalf("want 2 outputs, got %d", len(a.Outputs))
	}
	n6, err := a.And(z.Lit(6))
	if err != nil {
		t.Fatal(err)
	}
	if n6.Fanout() != 2 {
		t.Errorf("shared and 6 fanout = %d, want 2", n6.Fanout())
	}
}

func TestReadRejectsChecksumMismatch(t *testing.T) {
	src := "aag 4 2 0 1 1\n2\n4\n6\n6 4 2\n"
	if _, err := Read(strings.NewReader(src)); err == nil {
		t.Errorf("expected checksum rejection")
	}
}

func TestReadRejectsUnknownMagic(t *testing.T) {
	src := "zzz 3 2 0 1 1\n2\n4\n6\n6 4 2\n"
	if _, err := Read(strings.NewReader(src)); err == nil {
		t.Errorf("expected bad-header rejection")
	}
}

func TestSymbolTable(t *testing.T) {
	src := "aag 3 2 0 1 1\n2\n4\n6\n6 4 2\ni0 a\ni1 b\no0 out\nc\nhand-authored test fixture\n"
	a, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	if a.InputNames[0] != "a" || a.InputNames[1] != "b" {
		t.Errorf("input names not bound: %v", a.InputNames)
	}
	if a.OutputNames[0] != "out" {
		t.Errorf("output name not bound: %v", a.OutputNames)
	}
	if !bytes.Contains(a.Comment, []byte("hand-authored")) {
		t.Errorf("comment not captured: %q", a.Comment)
	}
}

func TestReadDelta(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 16384}
	for _, v := range cases {
		var buf bytes.Buffer
		writeDeltaForTest(&buf, v)
		got, err := readDelta(bufio.NewReader(&buf))
		if err != nil {
			t.Fatalf("readDelta(%d): %s", v, err)
		}
		if got != v {
			t.Errorf("readDelta round trip: got %d, want %d", got, v)
		}
	}
}

// writeDeltaForTest mirrors the 7-bit little-endian delta encoding used by
// readBinaryBody, used only to build fixtures for readDelta's test.
func writeDeltaForTest(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
