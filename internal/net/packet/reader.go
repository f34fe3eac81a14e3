package packet

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is reported when a packet body ends before its fixed layout does.
var ErrTruncated = errors.New("truncated packet")

// Reader is a little-endian cursor over one packet body.
// Reads past the end return zero values and latch ErrTruncated; callers check
// Err once after reading a whole record. Only ReadS allocates.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader wraps a packet body (opcode already stripped).
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Reset points the reader at a new body, clearing any latched error.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.off = 0
	r.err = nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data)-r.off < n {
		r.err = ErrTruncated
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// ReadC reads one unsigned byte.
func (r *Reader) ReadC() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadH reads a little-endian signed 16-bit integer.
func (r *Reader) ReadH() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

// ReadD reads a little-endian signed 32-bit integer.
func (r *Reader) ReadD() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// ReadS reads a NUL-terminated string. A missing terminator is truncation.
func (r *Reader) ReadS() string {
	if r.err != nil {
		return ""
	}
	rest := r.data[r.off:]
	for i, c := range rest {
		if c == 0 {
			r.off += i + 1
			return string(rest[:i])
		}
	}
	r.err = ErrTruncated
	r.off = len(r.data)
	return ""
}

// ReadBool reads one byte; any nonzero value is true.
func (r *Reader) ReadBool() bool {
	return r.ReadC() != 0
}

// Skip advances n bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Err returns ErrTruncated if any read ran past the end of the body.
func (r *Reader) Err() error {
	return r.err
}
