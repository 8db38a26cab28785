// Package wasm decodes the WebAssembly binary format into a typed module tree.
//
// The decoder understands the type, function, export and code sections and a
// small structured subset of the instruction set: local access, i32 constants
// and arithmetic, block, loop, if/else, br and br_if. Anything else is
// reported as an error; decoding never returns a partial module.
//
// # Decoding
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A Decoder can be configured and reused across goroutines:
//
//	d := wasm.NewDecoder(wasm.WithLogger(logger), wasm.WithStrictBodies())
//	module, err := d.Decode(data)
//
// Structured instructions may nest DefaultMaxNesting levels deep; WithMaxNesting
// changes the limit.
//
// Decode with validation:
//
//	module, err := wasm.DecodeValidate(data)
//
// # Module Structure
//
// Sections are kept in encounter order, including repeated sections of the
// same kind. Accessors concatenate the contents of every section of a kind:
//
//	module.Types()     []FuncType
//	module.Functions() []uint32
//	module.Exports()   []Export
//	module.Bodies()    []FuncBody
//
// # Instructions
//
// Function bodies decode to an Expression, a tree in which Block, Loop and If
// own their nested expressions. Walk visits the tree depth first:
//
//	wasm.Walk(body.Body, func(instr wasm.Instruction, depth int) bool {
//	    fmt.Println(strings.Repeat("  ", depth), instr.Opcode())
//	    return true
//	})
//
// # Encoding
//
// Encode writes a module back to binary. Decoding the result yields an
// equivalent module:
//
//	roundtrip, _ := wasm.Decode(module.Encode())
//
// # Errors
//
// Decoding errors are *errors.Error values carrying a Kind and the absolute
// byte offset of the failure. Use errors.IsKind to classify them:
//
//	if errors.IsKind(err, errors.KindInvalidOpcode) { ... }
package wasm
