// Package aiger reads the AIGER wire format (both the "aag" ASCII and "aig"
// binary variants, with the five-field "M I L O A" header; a header carrying
// further counts is rejected) and builds an *aig.AIG.
// Only the resulting *aig.AIG matters to downstream consumers; the wire
// details live entirely in this package: sentinel errors for malformed
// input, a 7-bit little-endian delta codec for binary AND children, and a
// line-oriented bufio.Reader scan for the trailing symbol/comment block.
package aiger

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/airtools/ktmap/aig"
	"github.com/airtools/ktmap/errs"
	"github.com/airtools/ktmap/z"
)

// Errors related to IO and formatting.
var (
	ErrPrematureEOF   = errors.New("premature EOF")
	ErrUnexpectedChar = errors.New("unexpected char")
	ErrBadHeader      = errors.New("bad header")
	ErrBadUint        = errors.New("malformed literal")
	ErrBadDelta       = errors.New("bad delta encoding")
	ErrBadSymbol      = errors.New("bad symbol table entry")
)

// Read parses r, auto-detecting the ASCII ("aag") or binary ("aig") variant
// from the first three bytes of the header line.
func Read(r io.Reader) (*aig.AIG, error) {
	br := bufio.NewReader(r)
	hdr, binary, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	b, err := aig.NewBuilder(hdr.max, hdr.in, hdr.latch, hdr.out, hdr.and)
	if err != nil {
		return nil, err
	}
	if binary {
		if err := readBinaryBody(br, hdr, b); err != nil {
			return nil, err
		}
	} else {
		if err := readAsciiBody(br, hdr, b); err != nil {
			return nil, err
		}
	}
	if err := readSymbolsAndComment(br, hdr, b); err != nil {
		return nil, err
	}
	return b.Build()
}

type header struct {
	max, in, latch, out, and uint32
}

func readHeader(r *bufio.Reader) (header, bool, error) {
	tok, err := readToken(r)
	if err != nil {
		return header{}, false, err
	}
	var binary bool
	switch tok {
	case "aag":
		binary = false
	case "aig":
		binary = true
	default:
		return header{}, false, errs.New(errs.InputMalformed, ErrBadHeader)
	}
	var fields [5]uint32
	for i := range fields {
		if err := expectByte(r, ' '); err != nil {
			return header{}, false, err
		}
		v, err := readUint(r)
		if err != nil {
			return header{}, false, err
		}
		fields[i] = v
	}
	if err := expectByte(r, '\n'); err != nil {
		return header{}, false, err
	}
	return header{max: fields[0], in: fields[1], latch: fields[2], out: fields[3], and: fields[4]}, binary, nil
}

func readAsciiBody(r *bufio.Reader, hdr header, b *aig.Builder) error {
	for i := uint32(0); i < hdr.in; i++ {
		lit, err := readUintLine(r)
		if err != nil {
			return err
		}
		want := uint32(z.Var(i + 1).Pos())
		if lit != want {
			return errs.Wrapf(errs.InputMalformed, "input %d: got literal %d, want %d", i, lit, want)
		}
	}
	for i := uint32(0); i < hdr.latch; i++ {
		latchLit, err := readUintToken(r, ' ')
		if err != nil {
			return err
		}
		want := uint32(z.Var(hdr.in + 1 + i).Pos())
		if latchLit != want {
			return errs.Wrapf(errs.InputMalformed, "latch %d: got literal %d, want %d", i, latchLit, want)
		}
		nextQ, err := readUintLine(r)
		if err != nil {
			return err
		}
		if err := b.SetLatch(int(i), z.Lit(nextQ)); err != nil {
			return err
		}
	}
	for i := uint32(0); i < hdr.out; i++ {
		lit, err := readUintLine(r)
		if err != nil {
			return err
		}
		if err := b.AddOutput(z.Lit(lit)); err != nil {
			return err
		}
	}
	for i := uint32(0); i < hdr.and; i++ {
		andLit, err := readUintToken(r, ' ')
		if err != nil {
			return err
		}
		want := uint32(z.Var(hdr.in + hdr.latch + 1 + i).Pos())
		if andLit != want {
			return errs.Wrapf(errs.InputMalformed, "and %d: got literal %d, want %d", i, andLit, want)
		}
		c0, err := readUintToken(r, ' ')
		if err != nil {
			return err
		}
		c1, err := readUintLine(r)
		if err != nil {
			return err
		}
		if err := b.SetAnd(int(i), z.Lit(c0), z.Lit(c1)); err != nil {
			return err
		}
	}
	return nil
}

func readBinaryBody(r *bufio.Reader, hdr header, b *aig.Builder) error {
	for i := uint32(0); i < hdr.latch; i++ {
		nextQ, err := readUintLine(r)
		if err != nil {
			return err
		}
		if err := b.SetLatch(int(i), z.Lit(nextQ)); err != nil {
			return err
		}
	}
	for i := uint32(0); i < hdr.out; i++ {
		lit, err := readUintLine(r)
		if err != nil {
			return err
		}
		if err := b.AddOutput(z.Lit(lit)); err != nil {
			return err
		}
	}
	id := hdr.in + hdr.latch + 1
	for i := uint32(0); i < hdr.and; i++ {
		andLit := 2 * (id + i)
		d0, err := readDelta(r)
		if err != nil {
			return err
		}
		if d0 > andLit {
			return errs.New(errs.InputMalformed, ErrBadDelta)
		}
		c0 := andLit - d0
		d1, err := readDelta(r)
		if err != nil {
			return err
		}
		if d1 > c0 {
			return errs.New(errs.InputMalformed, ErrBadDelta)
		}
		c1 := c0 - d1
		if err := b.SetAnd(int(i), z.Lit(c0), z.Lit(c1)); err != nil {
			return err
		}
	}
	return nil
}

// readSymbolsAndComment consumes the optional trailing symbol table and
// comment block. Symbol lines bind a name to the n-th input/latch/output;
// n must not exceed the count already bound for that kind. The comment
// block begins at a line whose first byte is 'c', and everything after that
// byte is captured verbatim.
func readSymbolsAndComment(r *bufio.Reader, hdr header, b *aig.Builder) error {
	var nIn, nLatch, nOut uint32 // names bound so far, per kind
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errs.New(errs.InputMalformed, err)
		}
		switch c {
		case 'c':
			rest, err := io.ReadAll(r)
			if err != nil {
				return errs.New(errs.InputMalformed, err)
			}
			b.SetComment(rest)
			return nil
		case 'i', 'l', 'o':
			idx, err := readUint(r)
			if err != nil {
				return err
			}
			if err := expectByte(r, ' '); err != nil {
				return err
			}
			name, err := r.ReadString('\n')
			if err != nil && err != io.EOF {
				return errs.New(errs.InputMalformed, err)
			}
			name = trimNL(name)
			switch c {
			case 'i':
				if idx >= hdr.in || idx > nIn {
					return errs.Wrapf(errs.InputMalformed, "%w: input symbol index %d", ErrBadSymbol, idx)
				}
				b.NameInput(int(idx), name)
				if idx == nIn {
					nIn++
				}
			case 'l':
				if idx >= hdr.latch || idx > nLatch {
					return errs.Wrapf(errs.InputMalformed, "%w: latch symbol index %d", ErrBadSymbol, idx)
				}
				b.NameLatch(int(idx), name)
				if idx == nLatch {
					nLatch++
				}
			case 'o':
				if idx >= hdr.out || idx > nOut {
					return errs.Wrapf(errs.InputMalformed, "%w: output symbol index %d", ErrBadSymbol, idx)
				}
				b.NameOutput(int(idx), name)
				if idx == nOut {
					nOut++
				}
			}
		default:
			return errs.Wrapf(errs.InputMalformed, "%w: %q", ErrUnexpectedChar, c)
		}
	}
}

func trimNL(s string) string {
	return string(bytes.TrimSuffix([]byte(s), []byte("\n")))
}

func readToken(r *bufio.Reader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errs.New(errs.InputMalformed, err)
		}
		if b == ' ' || b == '\n' {
			r.UnreadByte()
			break
		}
		buf = append(buf, b)
	}
	if len(buf) == 0 {
		return "", errs.New(errs.InputMalformed, ErrPrematureEOF)
	}
	return string(buf), nil
}

func expectByte(r *bufio.Reader, want byte) error {
	b, err := r.ReadByte()
	if err == io.EOF {
		return errs.New(errs.InputMalformed, ErrPrematureEOF)
	}
	if err != nil {
		return errs.New(errs.InputMalformed, err)
	}
	if b != want {
		return errs.Wrapf(errs.InputMalformed, "%w: got %q want %q", ErrUnexpectedChar, b, want)
	}
	return nil
}

func readUint(r *bufio.Reader) (uint32, error) {
	var result uint32
	first := true
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errs.New(errs.InputMalformed, err)
		}
		if b >= '0' && b <= '9' {
			result = result*10 + uint32(b-'0')
			first = false
			continue
		}
		r.UnreadByte()
		break
	}
	if first {
		return 0, errs.New(errs.InputMalformed, ErrBadUint)
	}
	return result, nil
}

// readUintToken reads a decimal literal followed by the expected separator
// byte sep, consuming sep.
func readUintToken(r *bufio.Reader, sep byte) (uint32, error) {
	v, err := readUint(r)
	if err != nil {
		return 0, err
	}
	if err := expectByte(r, sep); err != nil {
		return 0, err
	}
	return v, nil
}

// readUintLine reads a decimal literal terminated by a newline, consuming
// the newline.
func readUintLine(r *bufio.Reader) (uint32, error) {
	return readUintToken(r, '\n')
}

// readDelta decodes one variable-length 7-bit little-endian delta: while
// the top bit of a byte is set, its low 7 bits feed the next 7-bit slot;
// the first byte with the top bit clear terminates the value.
func readDelta(r *bufio.Reader) (uint32, error) {
	var result uint32
	shift := uint(0)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return 0, errs.New(errs.InputMalformed, ErrPrematureEOF)
		}
		if err != nil {
			return 0, errs.New(errs.InputMalformed, err)
		}
		result |= uint32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift > 35 {
			return 0, errs.New(errs.InputMalformed, ErrBadDelta)
		}
	}
	return result, nil
}
