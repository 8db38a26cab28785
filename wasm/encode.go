package wasm

import (
	"github.com/wippyai/wasm-decode/wasm/internal/binary"
)

// Encode encodes the module to WebAssembly binary format. Sections are written
// in slice order. A zero Magic or Version is written as "\0asm" and 1.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	magic, version := m.Magic, m.Version
	if magic == ([4]byte{}) {
		magic = Magic
	}
	if version == ([4]byte{}) {
		version = Version1
	}
	w.WriteBytes(magic[:])
	w.WriteBytes(version[:])

	for _, s := range m.Sections {
		sec := binary.NewWriter()
		s.encode(sec)
		w.Byte(byte(s.ID()))
		w.WriteSized(sec.Bytes())
	}
	return w.Bytes()
}

func (s *TypeSection) encode(w *binary.Writer) {
	w.WriteU32(uint32(len(s.Types)))
	for _, ft := range s.Types {
		w.Byte(FuncTypeByte)
		writeValTypes(w, ft.Params)
		writeValTypes(w, ft.Results)
	}
}

func (s *FunctionSection) encode(w *binary.Writer) {
	w.WriteU32(uint32(len(s.TypeIndices)))
	for _, idx := range s.TypeIndices {
		w.WriteU32(idx)
	}
}

func (s *ExportSection) encode(w *binary.Writer) {
	w.WriteU32(uint32(len(s.Exports)))
	for _, e := range s.Exports {
		w.WriteName(e.Name)
		w.Byte(byte(e.Kind))
		w.WriteU32(e.Index)
	}
}

// encode writes each body with its actual encoded size; Size is not consulted.
func (s *CodeSection) encode(w *binary.Writer) {
	w.WriteU32(uint32(len(s.Bodies)))
	for _, fb := range s.Bodies {
		body := binary.NewWriter()
		body.WriteU32(uint32(len(fb.Locals)))
		for _, l := range fb.Locals {
			body.WriteU32(l.Count)
			body.Byte(byte(l.Type))
		}
		fb.Body.encode(body)
		w.WriteSized(body.Bytes())
	}
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func writeBlockType(w *binary.Writer, bt BlockType) {
	switch bt.Kind {
	case BlockValue:
		w.Byte(byte(bt.Value))
	case BlockTypeIndex:
		w.WriteS32(bt.TypeIndex)
	default:
		w.Byte(BlockTypeEmptyByte)
	}
}

// Encode returns the binary encoding of the expression including its terminator.
func (e Expression) Encode() []byte {
	w := binary.NewWriter()
	e.encode(w)
	return w.Bytes()
}

func (e Expression) encode(w *binary.Writer) {
	encodeInstructions(w, e.Instructions)
	if e.Terminator == OpElse {
		w.Byte(byte(OpElse))
		return
	}
	w.Byte(byte(OpEnd))
}

func encodeInstructions(w *binary.Writer, instrs []Instruction) {
	for _, instr := range instrs {
		instr.encode(w)
	}
}

func (i LocalGet) encode(w *binary.Writer) {
	w.Byte(byte(OpLocalGet))
	w.WriteU32(i.LocalIdx)
}

func (i LocalSet) encode(w *binary.Writer) {
	w.Byte(byte(OpLocalSet))
	w.WriteU32(i.LocalIdx)
}

func (i I32Const) encode(w *binary.Writer) {
	w.Byte(byte(OpI32Const))
	w.WriteS32(i.Value)
}

func (I32Eqz) encode(w *binary.Writer)  { w.Byte(byte(OpI32Eqz)) }
func (I32Eq) encode(w *binary.Writer)   { w.Byte(byte(OpI32Eq)) }
func (I32LtS) encode(w *binary.Writer)  { w.Byte(byte(OpI32LtS)) }
func (I32GeS) encode(w *binary.Writer)  { w.Byte(byte(OpI32GeS)) }
func (I32Add) encode(w *binary.Writer)  { w.Byte(byte(OpI32Add)) }
func (I32RemS) encode(w *binary.Writer) { w.Byte(byte(OpI32RemS)) }

func (i Block) encode(w *binary.Writer) {
	w.Byte(byte(OpBlock))
	writeBlockType(w, i.Type)
	encodeInstructions(w, i.Body.Instructions)
	w.Byte(byte(OpEnd))
}

func (i Loop) encode(w *binary.Writer) {
	w.Byte(byte(OpLoop))
	writeBlockType(w, i.Type)
	encodeInstructions(w, i.Body.Instructions)
	w.Byte(byte(OpEnd))
}

func (i If) encode(w *binary.Writer) {
	w.Byte(byte(OpIf))
	writeBlockType(w, i.Type)
	encodeInstructions(w, i.Then.Instructions)
	if i.HasElse() || len(i.Else.Instructions) > 0 {
		w.Byte(byte(OpElse))
		encodeInstructions(w, i.Else.Instructions)
	}
	w.Byte(byte(OpEnd))
}

func (i Br) encode(w *binary.Writer) {
	w.Byte(byte(OpBr))
	w.WriteU32(i.LabelIdx)
}

func (i BrIf) encode(w *binary.Writer) {
	w.Byte(byte(OpBrIf))
	w.WriteU32(i.LabelIdx)
}
