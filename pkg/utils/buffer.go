// pkg/utils/buffer.go

package utils

import "encoding/binary"

// Buffer marshals and unmarshals fixed-width binary records in big-endian
// byte order.
type Buffer struct {
	buf []byte
	off int
}

// NewBuffer returns a writable buffer of the given size.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{buf: make([]byte, size)}
}

// ReadBuffer wraps buf for sequential reads.
func ReadBuffer(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

func (b *Buffer) Put8(v uint8) {
	b.buf[b.off] = v
	b.off++
}

func (b *Buffer) Put16(v uint16) {
	binary.BigEndian.PutUint16(b.buf[b.off:], v)
	b.off += 2
}

func (b *Buffer) Put32(v uint32) {
	binary.BigEndian.PutUint32(b.buf[b.off:], v)
	b.off += 4
}

func (b *Buffer) Put64(v uint64) {
	binary.BigEndian.PutUint64(b.buf[b.off:], v)
	b.off += 8
}

func (b *Buffer) Put(v []byte) {
	b.off += copy(b.buf[b.off:], v)
}

func (b *Buffer) Get8() uint8 {
	v := b.buf[b.off]
	b.off++
	return v
}

func (b *Buffer) Get16() uint16 {
	v := binary.BigEndian.Uint16(b.buf[b.off:])
	b.off += 2
	return v
}

func (b *Buffer) Get32() uint32 {
	v := binary.BigEndian.Uint32(b.buf[b.off:])
	b.off += 4
	return v
}

func (b *Buffer) Get64() uint64 {
	v := binary.BigEndian.Uint64(b.buf[b.off:])
	b.off += 8
	return v
}

func (b *Buffer) Get(n int) []byte {
	v := b.buf[b.off : b.off+n]
	b.off += n
	return v
}

// HasMore reports whether there are bytes left to read.
func (b *Buffer) HasMore() bool {
	return b.off < len(b.buf)
}

// Bytes returns the underlying buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf
}
