package wasm

// Magic is the WebAssembly binary magic number ("\0asm").
var Magic = [4]byte{0x00, 0x61, 0x73, 0x6D}

// Version1 is the version field written by Encode. Decode accepts any version.
var Version1 = [4]byte{0x01, 0x00, 0x00, 0x00}

// SectionID is the one-byte identifier that introduces every section.
type SectionID byte

// Section IDs define the binary identifiers for each module section.
// Only type, function, export and code sections have decoders.
const (
	SectionCustom    SectionID = 0  // Custom section
	SectionType      SectionID = 1  // Type section (function signatures)
	SectionImport    SectionID = 2  // Import section
	SectionFunction  SectionID = 3  // Function section (type indices)
	SectionTable     SectionID = 4  // Table section
	SectionMemory    SectionID = 5  // Memory section
	SectionGlobal    SectionID = 6  // Global section
	SectionExport    SectionID = 7  // Export section
	SectionStart     SectionID = 8  // Start section
	SectionElement   SectionID = 9  // Element section
	SectionCode      SectionID = 10 // Code section (function bodies)
	SectionData      SectionID = 11 // Data section
	SectionDataCount SectionID = 12 // Data count section
)

func (id SectionID) String() string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "datacount"
	default:
		return "unknown"
	}
}

// ExportKind identifies the kind of an exported item.
type ExportKind byte

// Export descriptor kinds. Other values are decoded and kept as-is.
const (
	ExportFunc   ExportKind = 0
	ExportTable  ExportKind = 1
	ExportMemory ExportKind = 2
	ExportGlobal ExportKind = 3
)

func (k ExportKind) String() string {
	switch k {
	case ExportFunc:
		return "func"
	case ExportTable:
		return "table"
	case ExportMemory:
		return "memory"
	case ExportGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// FuncTypeByte introduces every function type in the type section.
const FuncTypeByte byte = 0x60

// BlockTypeEmptyByte encodes a block type with no results.
const BlockTypeEmptyByte byte = 0x40

// Value type encodings as defined in the WebAssembly binary format.
const (
	ValI32       ValType = 0x7F // 32-bit integer
	ValI64       ValType = 0x7E // 64-bit integer
	ValF32       ValType = 0x7D // 32-bit float
	ValF64       ValType = 0x7C // 64-bit float
	ValFuncRef   ValType = 0x70 // Function reference
	ValExternRef ValType = 0x6F // External reference
)

// Opcode is the first byte of an instruction.
type Opcode byte

// Control flow opcodes
const (
	OpBlock Opcode = 0x02
	OpLoop  Opcode = 0x03
	OpIf    Opcode = 0x04
	OpElse  Opcode = 0x05
	OpEnd   Opcode = 0x0B
	OpBr    Opcode = 0x0C
	OpBrIf  Opcode = 0x0D
)

// Variable access opcodes
const (
	OpLocalGet Opcode = 0x20
	OpLocalSet Opcode = 0x21
)

// Constant opcodes
const (
	OpI32Const Opcode = 0x41
)

// i32 comparison and arithmetic opcodes
const (
	OpI32Eqz  Opcode = 0x45
	OpI32Eq   Opcode = 0x46
	OpI32LtS  Opcode = 0x48
	OpI32GeS  Opcode = 0x4E
	OpI32Add  Opcode = 0x6A
	OpI32RemS Opcode = 0x6F
)

var opcodeNames = map[Opcode]string{
	OpBlock:    "block",
	OpLoop:     "loop",
	OpIf:       "if",
	OpElse:     "else",
	OpEnd:      "end",
	OpBr:       "br",
	OpBrIf:     "br_if",
	OpLocalGet: "local.get",
	OpLocalSet: "local.set",
	OpI32Const: "i32.const",
	OpI32Eqz:   "i32.eqz",
	OpI32Eq:    "i32.eq",
	OpI32LtS:   "i32.lt_s",
	OpI32GeS:   "i32.ge_s",
	OpI32Add:   "i32.add",
	OpI32RemS:  "i32.rem_s",
}

// String returns the text-format mnemonic of the opcode.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}
