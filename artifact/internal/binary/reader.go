package binary

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrOverflow is returned when a LEB128 value exceeds the maximum size.
var ErrOverflow = errors.New("leb128: overflow")

// ErrTruncated is returned when the input ends before a field is complete.
var ErrTruncated = errors.New("truncated input")

// Reader decodes container primitives from a byte slice with position
// tracking for error reporting. Reads never allocate beyond the returned
// values and never advance past the end of the input.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns how many bytes are left.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.wrapError(ErrTruncated)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Raw reads exactly n bytes without a length prefix.
func (r *Reader) Raw(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.wrapError(ErrTruncated)
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// U32 reads an unsigned LEB128 encoded uint32.
func (r *Reader) U32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.Byte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, r.wrapError(ErrOverflow)
		}
	}
}

// U32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) U32LE() (uint32, error) {
	buf, err := r.Raw(4)
	if err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	length, err := r.U32()
	if err != nil {
		return "", err
	}
	data, err := r.Raw(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.wrapError(errors.New("invalid UTF-8 in string"))
	}
	return string(data), nil
}

// Block reads a length-prefixed byte block.
func (r *Reader) Block() ([]byte, error) {
	length, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.Raw(int(length))
}

// ExpectEOF fails unless the input has been fully consumed.
func (r *Reader) ExpectEOF() error {
	if r.Remaining() != 0 {
		return fmt.Errorf("at position %d: %d trailing bytes", r.pos, r.Remaining())
	}
	return nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
