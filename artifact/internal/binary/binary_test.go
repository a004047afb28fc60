package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U32LE(0x46454157)
	w.U32(1)
	w.String("amd64-linux-gnu")
	w.Byte(0x01)
	w.Block([]byte{0xde, 0xad, 0xbe, 0xef})
	w.U32(300)

	r := NewReader(w.Bytes())

	if v, err := r.U32LE(); err != nil || v != 0x46454157 {
		t.Fatalf("U32LE = %x, %v", v, err)
	}
	if v, err := r.U32(); err != nil || v != 1 {
		t.Fatalf("U32 = %d, %v", v, err)
	}
	if s, err := r.String(); err != nil || s != "amd64-linux-gnu" {
		t.Fatalf("String = %q, %v", s, err)
	}
	if b, err := r.Byte(); err != nil || b != 0x01 {
		t.Fatalf("Byte = %x, %v", b, err)
	}
	if blk, err := r.Block(); err != nil || !bytes.Equal(blk, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("Block = %x, %v", blk, err)
	}
	if v, err := r.U32(); err != nil || v != 300 {
		t.Fatalf("U32 = %d, %v", v, err)
	}
	if err := r.ExpectEOF(); err != nil {
		t.Fatalf("ExpectEOF: %v", err)
	}
}

func TestLEB128Boundaries(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 16383, 16384, 1<<32 - 1} {
		w := NewWriter()
		w.U32(v)
		got, err := NewReader(w.Bytes()).U32()
		if err != nil {
			t.Fatalf("U32(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d = %d", v, got)
		}
	}
}

func TestTruncated(t *testing.T) {
	w := NewWriter()
	w.Block(make([]byte, 64))
	data := w.Bytes()[:10]

	_, err := NewReader(data).Block()
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Block on truncated input = %v, want ErrTruncated", err)
	}
}

func TestLEBOverflow(t *testing.T) {
	_, err := NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}).U32()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("U32 overflow = %v, want ErrOverflow", err)
	}
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	w := NewWriter()
	w.Block([]byte{0xff, 0xfe})
	if _, err := NewReader(w.Bytes()).String(); err == nil {
		t.Error("String should reject invalid UTF-8")
	}
}

func TestExpectEOFTrailing(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.Byte(); err != nil {
		t.Fatal(err)
	}
	if err := r.ExpectEOF(); err == nil {
		t.Error("ExpectEOF should fail with trailing bytes")
	}
}
