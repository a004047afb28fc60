// Package binary provides the length-prefixed primitives the artifact
// container format is built from: unsigned LEB128 integers, fixed-width
// little-endian words, and length-prefixed strings and byte blocks.
package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for container encoding.
// All writes are deterministic: the same sequence of calls produces the same
// bytes.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// Raw writes a byte slice without a length prefix.
func (w *Writer) Raw(data []byte) {
	w.buf.Write(data)
}

// U32 writes an unsigned LEB128 encoded uint32.
func (w *Writer) U32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// U32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) U32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// String writes a length-prefixed string.
func (w *Writer) String(s string) {
	w.U32(uint32(len(s)))
	w.buf.WriteString(s)
}

// Block writes a length-prefixed byte block.
func (w *Writer) Block(data []byte) {
	w.U32(uint32(len(data)))
	w.buf.Write(data)
}
