package binary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *Writer)
		expected []byte
	}{
		{name: "u32 zero", write: func(w *Writer) { w.WriteU32(0) }, expected: []byte{0x00}},
		{name: "u32 624485", write: func(w *Writer) { w.WriteU32(624485) }, expected: []byte{0xe5, 0x8e, 0x26}},
		{name: "s32 minus one", write: func(w *Writer) { w.WriteS32(-1) }, expected: []byte{0x7f}},
		{name: "s32 64", write: func(w *Writer) { w.WriteS32(64) }, expected: []byte{0xc0, 0x00}},
		{name: "s32 minus 123456", write: func(w *Writer) { w.WriteS32(-123456) }, expected: []byte{0xc0, 0xbb, 0x78}},
		{name: "name", write: func(w *Writer) { w.WriteName("main") }, expected: []byte{0x04, 'm', 'a', 'i', 'n'}},
		{name: "sized", write: func(w *Writer) { w.WriteSized([]byte{0x0b}) }, expected: []byte{0x01, 0x0b}},
		{
			name: "mixed",
			write: func(w *Writer) {
				w.Byte(0x01)
				w.WriteBytes([]byte{0x02, 0x03})
				w.WriteU32(128)
			},
			expected: []byte{0x01, 0x02, 0x03, 0x80, 0x01},
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			w := NewWriter()
			tc.write(w)
			require.Equal(t, tc.expected, w.Bytes())
		})
	}
}
