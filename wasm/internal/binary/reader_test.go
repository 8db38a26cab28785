package binary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-decode/errors"
)

func TestBuffer_ReadU32(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected uint32
		consumed int
	}{
		{name: "zero", input: []byte{0x00}, expected: 0, consumed: 1},
		{name: "eight", input: []byte{0x08}, expected: 8, consumed: 1},
		{name: "one byte max", input: []byte{0x7f}, expected: 127, consumed: 1},
		{name: "16256", input: []byte{0x80, 0x7f}, expected: 16256, consumed: 2},
		{name: "two bytes", input: []byte{0x80, 0x01}, expected: 128, consumed: 2},
		{name: "624485", input: []byte{0xe5, 0x8e, 0x26}, expected: 624485, consumed: 3},
		{name: "165675008", input: []byte{0x80, 0x80, 0x80, 0x4f}, expected: 165675008, consumed: 4},
		{name: "over-long nine", input: []byte{0x89, 0x80, 0x80, 0x80, 0x00}, expected: 9, consumed: 5},
		{name: "max uint32", input: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, expected: math.MaxUint32, consumed: 5},
		{name: "stops at terminator", input: []byte{0x05, 0xff}, expected: 5, consumed: 1},
		{name: "non-minimal accepted", input: []byte{0x80, 0x80, 0x00}, expected: 0, consumed: 3},
		{name: "high bits wrap", input: []byte{0xff, 0xff, 0xff, 0xff, 0x7f}, expected: math.MaxUint32, consumed: 5},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuffer(tc.input)
			v, err := b.ReadU32()
			require.NoError(t, err)
			require.Equal(t, tc.expected, v)
			require.Equal(t, tc.consumed, b.Offset())
		})
	}
}

func TestBuffer_ReadS32(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected int32
	}{
		{name: "zero", input: []byte{0x00}, expected: 0},
		{name: "minus one", input: []byte{0x7f}, expected: -1},
		{name: "minus two", input: []byte{0x7e}, expected: -2},
		{name: "minus 127", input: []byte{0x81, 0x7f}, expected: -127},
		{name: "63", input: []byte{0x3f}, expected: 63},
		{name: "minus 64", input: []byte{0x40}, expected: -64},
		{name: "64", input: []byte{0xc0, 0x00}, expected: 64},
		{name: "minus 123456", input: []byte{0xc0, 0xbb, 0x78}, expected: -123456},
		{name: "max int32", input: []byte{0xff, 0xff, 0xff, 0xff, 0x07}, expected: math.MaxInt32},
		{name: "min int32", input: []byte{0x80, 0x80, 0x80, 0x80, 0x78}, expected: math.MinInt32},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuffer(tc.input)
			v, err := b.ReadS32()
			require.NoError(t, err)
			require.Equal(t, tc.expected, v)
			require.True(t, b.IsExhausted())
		})
	}
}

func TestBuffer_LEB128RoundTrip(t *testing.T) {
	u32s := []uint32{0, 1, 63, 64, 127, 128, 255, 16383, 16384, 1 << 21, 1<<28 - 1, 1 << 28, math.MaxUint32}
	for _, v := range u32s {
		w := NewWriter()
		w.WriteU32(v)
		got, err := NewBuffer(w.Bytes()).ReadU32()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}

	s32s := []int32{0, 1, -1, 63, -64, 64, -65, 8191, -8192, math.MaxInt32, math.MinInt32}
	for _, v := range s32s {
		w := NewWriter()
		w.WriteS32(v)
		got, err := NewBuffer(w.Bytes()).ReadS32()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestBuffer_UnderrunLeavesOffset(t *testing.T) {
	tests := []struct {
		name string
		read func(b *Buffer) error
	}{
		{name: "u32", read: func(b *Buffer) error { _, err := b.ReadU32(); return err }},
		{name: "s32", read: func(b *Buffer) error { _, err := b.ReadS32(); return err }},
		{name: "bytes", read: func(b *Buffer) error { _, err := b.ReadBytes(3); return err }},
		{name: "sub-buffer", read: func(b *Buffer) error { _, err := b.ReadSubBuffer(3); return err }},
		{name: "name", read: func(b *Buffer) error { _, err := b.ReadName(); return err }},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			// leading byte consumed, then an unterminated varint / short region
			b := NewBuffer([]byte{0xaa, 0x85, 0x80})
			_, err := b.ReadByte()
			require.NoError(t, err)

			err = tc.read(b)
			require.Error(t, err)
			require.True(t, errors.IsKind(err, errors.KindBufferUnderrun), err.Error())
			require.Equal(t, 1, b.Offset())
		})
	}
}

func TestBuffer_ReadByte(t *testing.T) {
	b := NewBuffer([]byte{0x01, 0x02})

	c, err := b.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), c)
	c, err = b.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x02), c)
	require.True(t, b.IsExhausted())

	_, err = b.ReadByte()
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errors.KindBufferUnderrun, e.Kind)
	require.Equal(t, 2, e.Offset)
	require.Equal(t, 2, b.Offset())
}

func TestBuffer_ReadBytesCopies(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	b := NewBuffer(data)

	got, err := b.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, got)

	got[0] = 9
	require.Equal(t, byte(1), data[0])

	_, err = b.ReadBytes(-1)
	require.True(t, errors.IsKind(err, errors.KindBufferUnderrun))
	require.Equal(t, 2, b.Offset())
}

func TestBuffer_ReadSubBuffer(t *testing.T) {
	b := NewBuffer([]byte{0xaa, 0x01, 0x02, 0x03, 0xbb})
	_, err := b.ReadByte()
	require.NoError(t, err)

	sub, err := b.ReadSubBuffer(3)
	require.NoError(t, err)
	require.Equal(t, 4, b.Offset())
	require.Equal(t, 0, sub.Offset())
	require.Equal(t, 3, sub.Remaining())
	require.Equal(t, 1, sub.Position())

	// reads inside the sub-buffer cannot reach the parent's bytes
	_, err = sub.ReadBytes(3)
	require.NoError(t, err)
	_, err = sub.ReadByte()
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, 4, e.Offset)

	c, err := b.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xbb), c)

	// nested sub-buffers keep absolute positions
	outer := NewBuffer([]byte{0, 0, 0, 1, 2, 3})
	_, _ = outer.ReadBytes(2)
	mid, err := outer.ReadSubBuffer(4)
	require.NoError(t, err)
	_, _ = mid.ReadByte()
	inner, err := mid.ReadSubBuffer(2)
	require.NoError(t, err)
	require.Equal(t, 3, inner.Position())
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3})
	_, _ = b.ReadBytes(2)
	b.Reset(1)
	require.Equal(t, 1, b.Offset())
	require.Equal(t, 2, b.Remaining())

	require.Panics(t, func() { b.Reset(4) })
	require.Panics(t, func() { b.Reset(-1) })
}

func TestBuffer_ReadName(t *testing.T) {
	t.Run("ascii", func(t *testing.T) {
		b := NewBuffer([]byte{0x03, 'a', 'd', 'd'})
		name, err := b.ReadName()
		require.NoError(t, err)
		require.Equal(t, "add", name)
		require.True(t, b.IsExhausted())
	})

	t.Run("multibyte", func(t *testing.T) {
		w := NewWriter()
		w.WriteName("héllo")
		name, err := NewBuffer(w.Bytes()).ReadName()
		require.NoError(t, err)
		require.Equal(t, "héllo", name)
	})

	t.Run("empty", func(t *testing.T) {
		name, err := NewBuffer([]byte{0x00}).ReadName()
		require.NoError(t, err)
		require.Empty(t, name)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		b := NewBuffer([]byte{0x02, 0xc3, 0x28})
		_, err := b.ReadName()
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, errors.KindInvalidUTF8, e.Kind)
		require.Equal(t, 1, e.Offset)
		require.Equal(t, 0, b.Offset())
	})

	t.Run("truncated", func(t *testing.T) {
		b := NewBuffer([]byte{0x05, 'a', 'b'})
		_, err := b.ReadName()
		require.True(t, errors.IsKind(err, errors.KindBufferUnderrun))
		require.Equal(t, 0, b.Offset())
	})
}

func TestReadVector(t *testing.T) {
	t.Run("elements in order", func(t *testing.T) {
		b := NewBuffer([]byte{0x03, 0x01, 0x80, 0x01, 0x7f})
		got, err := ReadVector(b, (*Buffer).ReadU32)
		require.NoError(t, err)
		require.Equal(t, []uint32{1, 128, 127}, got)
		require.True(t, b.IsExhausted())
	})

	t.Run("empty", func(t *testing.T) {
		b := NewBuffer([]byte{0x00, 0xff})
		got, err := ReadVector(b, (*Buffer).ReadByte)
		require.NoError(t, err)
		require.Empty(t, got)
		require.Equal(t, 1, b.Offset())
	})

	t.Run("rewinds on element failure", func(t *testing.T) {
		b := NewBuffer([]byte{0x03, 0x01, 0x02})
		_, err := ReadVector(b, (*Buffer).ReadByte)
		require.True(t, errors.IsKind(err, errors.KindBufferUnderrun))
		require.Equal(t, 0, b.Offset())
	})

	t.Run("huge count", func(t *testing.T) {
		b := NewBuffer([]byte{0xff, 0xff, 0xff, 0xff, 0x0f, 0x01})
		_, err := ReadVector(b, (*Buffer).ReadByte)
		assert.True(t, errors.IsKind(err, errors.KindBufferUnderrun))
	})
}
