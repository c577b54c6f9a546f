// Package le provides bounds-checked little-endian readers and writers for
// the splat and packed-texture file layouts.
//
// Every multi-byte value in those layouts is little-endian, matching the
// byte order GPUs expect when the texture is uploaded verbatim.
package le

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrShortBuffer is returned when a read cannot complete because there
	// are not enough bytes left.
	ErrShortBuffer = errors.New("le: buffer too short")

	// ErrNegativeSize is returned when a size parameter is negative.
	ErrNegativeSize = errors.New("le: negative size")
)

// ByteOrder is the byte order of every encoded value.
var ByteOrder = binary.LittleEndian

// Reader reads little-endian values from a byte slice, tracking a position
// and checking bounds on every call.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// ReadBytes returns the next n bytes without copying them.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if n > r.Len() {
		return nil, ErrShortBuffer
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytesInto fills dst from the input.
func (r *Reader) ReadBytesInto(dst []byte) error {
	if len(dst) > r.Len() {
		return ErrShortBuffer
	}
	copy(dst, r.data[r.pos:])
	r.pos += len(dst)
	return nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.Len() < 2 {
		return 0, ErrShortBuffer
	}
	v := ByteOrder.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Len() < 4 {
		return 0, ErrShortBuffer
	}
	v := ByteOrder.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadFloat32 reads a 32-bit IEEE 754 floating-point number.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadUint32s fills dst with consecutive 32-bit values.
func (r *Reader) ReadUint32s(dst []uint32) error {
	if len(dst) > r.Len()/4 {
		return ErrShortBuffer
	}
	for i := range dst {
		dst[i] = ByteOrder.Uint32(r.data[r.pos:])
		r.pos += 4
	}
	return nil
}

// BufferWriter appends little-endian values to a growing buffer.
type BufferWriter struct {
	buf []byte
}

// NewBufferWriter creates a BufferWriter with an initial capacity.
func NewBufferWriter(capacity int) *BufferWriter {
	return &BufferWriter{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the written data. The slice is valid until the next write.
func (w *BufferWriter) Bytes() []byte {
	return w.buf
}

// WriteBytes appends b.
func (w *BufferWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint8 appends one byte.
func (w *BufferWriter) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends an unsigned 16-bit integer.
func (w *BufferWriter) WriteUint16(v uint16) {
	w.buf = append(w.buf, byte(v), byte(v>>8))
}

// WriteUint32 appends an unsigned 32-bit integer.
func (w *BufferWriter) WriteUint32(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// WriteFloat32 appends a 32-bit IEEE 754 floating-point number.
func (w *BufferWriter) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteUint32s appends every value of src.
func (w *BufferWriter) WriteUint32s(src []uint32) {
	w.buf = append(w.buf, make([]byte, 4*len(src))...)
	out := w.buf[len(w.buf)-4*len(src):]
	for i, v := range src {
		ByteOrder.PutUint32(out[4*i:], v)
	}
}
