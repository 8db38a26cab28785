package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-decode/wasm/internal/binary"
)

// Module represents a decoded WebAssembly module.
type Module struct {
	Magic   [4]byte
	Version [4]byte

	// Sections in encounter order. A section kind may appear more than once;
	// repeated sections are kept as separate entries.
	Sections []Section
}

// Section is one decoded section of a module. The set of implementations is
// closed: *TypeSection, *FunctionSection, *ExportSection and *CodeSection.
type Section interface {
	ID() SectionID
	decode(d *Decoder, b *binary.Buffer) error
	encode(w *binary.Writer)
}

// TypeSection holds function signatures. Position is the type index.
type TypeSection struct {
	Types []FuncType
}

// ID returns SectionType.
func (*TypeSection) ID() SectionID { return SectionType }

// FunctionSection holds the type index of every function defined by the module.
type FunctionSection struct {
	TypeIndices []uint32
}

// ID returns SectionFunction.
func (*FunctionSection) ID() SectionID { return SectionFunction }

// ExportSection holds the exported items.
type ExportSection struct {
	Exports []Export
}

// ID returns SectionExport.
func (*ExportSection) ID() SectionID { return SectionExport }

// CodeSection holds function bodies, in the same order as the function section.
type CodeSection struct {
	Bodies []FuncBody
}

// ID returns SectionCode.
func (*CodeSection) ID() SectionID { return SectionCode }

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (ft FuncType) String() string {
	return fmt.Sprintf("%v -> %v", ft.Params, ft.Results)
}

// Export describes an exported item.
type Export struct {
	Name  string
	Kind  ExportKind
	Index uint32
}

// FuncBody is one entry of the code section.
type FuncBody struct {
	Size   uint32 // declared byte size of the body
	Locals []LocalEntry
	Body   Expression
}

// NumLocals returns the number of locals declared by the body, not counting parameters.
func (fb *FuncBody) NumLocals() uint64 {
	var n uint64
	for _, l := range fb.Locals {
		n += uint64(l.Count)
	}
	return n
}

// LocalEntry declares Count consecutive locals of the same type.
type LocalEntry struct {
	Count uint32
	Type  ValType
}

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, ValFuncRef and ValExternRef.
type ValType byte

// ValClass separates numeric value types from reference types.
type ValClass byte

const (
	ValClassInvalid ValClass = iota
	ValClassNum
	ValClassRef
)

// Class returns whether v is a numeric or a reference type.
func (v ValType) Class() ValClass {
	switch v {
	case ValI32, ValI64, ValF32, ValF64:
		return ValClassNum
	case ValFuncRef, ValExternRef:
		return ValClassRef
	default:
		return ValClassInvalid
	}
}

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValFuncRef:
		return "funcref"
	case ValExternRef:
		return "externref"
	default:
		return "unknown"
	}
}

// BlockKind selects which field of a BlockType is meaningful.
type BlockKind byte

const (
	BlockEmpty     BlockKind = iota // no results
	BlockValue                      // a single result of type Value
	BlockTypeIndex                  // signature taken from the type section
)

// BlockType is the signature of a block, loop or if.
type BlockType struct {
	Kind      BlockKind
	Value     ValType
	TypeIndex int32 // s33 on the wire, kept in 32 bits
}

func (bt BlockType) String() string {
	switch bt.Kind {
	case BlockValue:
		return "(result " + bt.Value.String() + ")"
	case BlockTypeIndex:
		return fmt.Sprintf("(type %d)", bt.TypeIndex)
	default:
		return ""
	}
}

// Types returns the function types of all type sections in encounter order.
func (m *Module) Types() []FuncType {
	var out []FuncType
	for _, s := range m.Sections {
		if ts, ok := s.(*TypeSection); ok {
			out = append(out, ts.Types...)
		}
	}
	return out
}

// Functions returns the type indices of all function sections in encounter order.
func (m *Module) Functions() []uint32 {
	var out []uint32
	for _, s := range m.Sections {
		if fs, ok := s.(*FunctionSection); ok {
			out = append(out, fs.TypeIndices...)
		}
	}
	return out
}

// Exports returns the exports of all export sections in encounter order.
func (m *Module) Exports() []Export {
	var out []Export
	for _, s := range m.Sections {
		if es, ok := s.(*ExportSection); ok {
			out = append(out, es.Exports...)
		}
	}
	return out
}

// Bodies returns the function bodies of all code sections in encounter order.
func (m *Module) Bodies() []FuncBody {
	var out []FuncBody
	for _, s := range m.Sections {
		if cs, ok := s.(*CodeSection); ok {
			out = append(out, cs.Bodies...)
		}
	}
	return out
}

// SectionsByID returns the sections with the given id in encounter order.
func (m *Module) SectionsByID(id SectionID) []Section {
	var out []Section
	for _, s := range m.Sections {
		if s.ID() == id {
			out = append(out, s)
		}
	}
	return out
}
