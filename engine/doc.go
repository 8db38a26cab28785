// Package engine cross-checks decoded modules against wazero.
//
// wazero carries its own decoder and validator. Verifier compiles the raw
// module bytes with wazero and compares what wazero sees with what the wasm
// package decoded:
//
//	v := engine.NewVerifier(ctx)
//	defer v.Close(ctx)
//
//	m, err := wasm.Decode(data)
//	...
//	if err := v.Verify(ctx, data, m); err != nil {
//	    log.Fatal(err)
//	}
//
// Modules are compiled only. Nothing is instantiated and no guest code runs.
//
// # Checks
//
//   - wazero accepts the module (decode and validation)
//   - every function export of the decoded module is exported by wazero
//   - parameter and result types of each export agree
//   - wazero exports no function the decoded module lacks
//
// Failures are *errors.Error values in PhaseVerify.
//
// # Thread Safety
//
// A Verifier is safe for concurrent use.
package engine
