package binary

import (
	"unicode/utf8"

	"github.com/wippyai/wasm-decode/errors"
)

// Buffer is a read cursor over an immutable byte slice.
//
// Every read either advances the offset by exactly the number of bytes it
// consumed or fails and leaves the offset where it was.
type Buffer struct {
	data []byte
	off  int
	base int // absolute position of data[0] in the top-level input
}

// NewBuffer creates a Buffer positioned at the start of data.
// The slice is not copied and must not be modified while the Buffer is in use.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Offset returns the read position relative to the start of this buffer.
func (b *Buffer) Offset() int {
	return b.off
}

// Position returns the read position in the top-level input.
func (b *Buffer) Position() int {
	return b.base + b.off
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.off
}

// IsExhausted reports whether every byte has been read.
func (b *Buffer) IsExhausted() bool {
	return b.off == len(b.data)
}

// Reset moves the read position back to off, a value previously returned by Offset.
func (b *Buffer) Reset(off int) {
	if off < 0 || off > len(b.data) {
		panic("binary: reset offset out of range")
	}
	b.off = off
}

// ReadByte reads a single byte and advances the position.
func (b *Buffer) ReadByte() (byte, error) {
	if b.off >= len(b.data) {
		return 0, b.underrun(1)
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

// ReadBytes reads exactly n bytes into a new slice.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > b.Remaining() {
		return nil, b.underrun(n)
	}
	out := make([]byte, n)
	copy(out, b.data[b.off:b.off+n])
	b.off += n
	return out, nil
}

// ReadSubBuffer reads exactly n bytes and returns them as an independent
// Buffer starting at offset 0. Decoders handed the sub-buffer cannot read
// past the region.
func (b *Buffer) ReadSubBuffer(n int) (*Buffer, error) {
	base := b.Position()
	data, err := b.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data, base: base}, nil
}

// ReadU32 reads an unsigned LEB128 encoded uint32.
// Groups beyond the fifth are shifted out of range and wrap silently.
func (b *Buffer) ReadU32() (uint32, error) {
	start := b.off
	var result uint32
	var shift uint
	for {
		c, err := b.ReadByte()
		if err != nil {
			b.off = start
			return 0, err
		}
		result |= uint32(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			return result, nil
		}
	}
}

// ReadS32 reads a signed LEB128 encoded int32.
func (b *Buffer) ReadS32() (int32, error) {
	start := b.off
	var result int32
	var shift uint
	var c byte
	var err error
	for {
		c, err = b.ReadByte()
		if err != nil {
			b.off = start
			return 0, err
		}
		result |= int32(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	// Sign extend
	if shift < 32 && c&0x40 != 0 {
		result |= ^int32(0) << shift
	}
	return result, nil
}

// ReadName reads a UTF-8 encoded name (length-prefixed byte sequence).
func (b *Buffer) ReadName() (string, error) {
	start := b.off
	length, err := b.ReadU32()
	if err != nil {
		return "", err
	}
	pos := b.Position()
	data, err := b.ReadBytes(int(length))
	if err != nil {
		b.off = start
		return "", err
	}
	if !utf8.Valid(data) {
		b.off = start
		return "", errors.InvalidUTF8(pos, data)
	}
	return string(data), nil
}

// ReadVector reads an unsigned LEB128 element count followed by that many
// elements, each decoded by decodeOne against b. Elements are returned in
// encounter order. On failure the buffer is rewound to where it started.
func ReadVector[T any](b *Buffer, decodeOne func(*Buffer) (T, error)) ([]T, error) {
	start := b.off
	count, err := b.ReadU32()
	if err != nil {
		return nil, err
	}
	// Each element occupies at least one byte, so a count larger than the
	// remaining input can only end in an underrun.
	capHint := int(count)
	if capHint > b.Remaining() {
		capHint = b.Remaining()
	}
	items := make([]T, 0, capHint)
	for i := uint32(0); i < count; i++ {
		item, err := decodeOne(b)
		if err != nil {
			b.off = start
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (b *Buffer) underrun(want int) error {
	return errors.BufferUnderrun(b.Position(), want, b.Remaining())
}
