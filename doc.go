// Package wasmdecode decodes WebAssembly binary modules.
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmdecode/          Root package: module sources and Load
//	├── wasm/            Binary decoder, module types, encoder and validation
//	├── errors/          Structured error types with phase, kind and offset
//	├── inspect/         Text, YAML and summary renderers for decoded modules
//	│   └── browse/      Interactive terminal browser
//	├── engine/          Cross-check of decoded modules against wazero
//	└── cmd/wasmdecode/  Command line interface
//
// # Quick Start
//
// Decode a module held in memory:
//
//	m, err := wasm.Decode(data)
//
// Or load it from a file system:
//
//	m, err := wasmdecode.Load(wasmdecode.FileSource{Fs: afero.NewOsFs(), Path: "add.wasm"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range m.Sections {
//	    fmt.Println(s.ID())
//	}
//
// # Supported Subset
//
// Sections: type, function, export and code. Any other section id is an error.
//
// Instructions: local.get, local.set, i32.const, i32.eqz, i32.eq, i32.lt_s,
// i32.ge_s, i32.add, i32.rem_s, block, loop, if/else, br and br_if.
//
// # Error Handling
//
// All failures are *errors.Error values wrapped with context:
//
//	if errors.IsKind(err, errors.KindUnknownSectionID) {
//	    // module uses a section this decoder does not support
//	}
package wasmdecode
