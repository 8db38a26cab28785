package binary

// Writer accumulates an encoded module. It is the inverse of Buffer and is
// used by Module.Encode and by test fixtures.
type Writer struct {
	out []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded bytes. The slice aliases the writer's storage.
func (w *Writer) Bytes() []byte { return w.out }

// Byte appends a single byte such as a section id or opcode.
func (w *Writer) Byte(b byte) {
	w.out = append(w.out, b)
}

// WriteBytes appends data without a length prefix.
func (w *Writer) WriteBytes(data []byte) {
	w.out = append(w.out, data...)
}

// WriteU32 appends v as unsigned LEB128 using the fewest bytes.
func (w *Writer) WriteU32(v uint32) {
	for v >= 0x80 {
		w.out = append(w.out, byte(v)|0x80)
		v >>= 7
	}
	w.out = append(w.out, byte(v))
}

// WriteS32 appends v as signed LEB128. Encoding stops once the remaining
// bits equal the sign bit of the last group.
func (w *Writer) WriteS32(v int32) {
	for {
		group := byte(v & 0x7f)
		v >>= 7
		signClear := group&0x40 == 0
		if (v == 0 && signClear) || (v == -1 && !signClear) {
			w.out = append(w.out, group)
			return
		}
		w.out = append(w.out, group|0x80)
	}
}

// WriteName appends a length-prefixed UTF-8 name.
func (w *Writer) WriteName(s string) {
	w.WriteU32(uint32(len(s)))
	w.out = append(w.out, s...)
}

// WriteSized appends data prefixed by its length, the framing used for
// sections and function bodies.
func (w *Writer) WriteSized(data []byte) {
	w.WriteU32(uint32(len(data)))
	w.out = append(w.out, data...)
}
