// Package errors provides structured error types for the wasm-decode module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the input offset, the offending value, a location path and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidOpcode).
//		Offset(42).
//		Value(byte(0xff)).
//		Detail("invalid opcode 0x%02x", 0xff).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.BufferUnderrun(offset, 4, 1)
//	err := errors.OutOfBounds(errors.PhaseValidate, path, 10, 5)
//
// Decode errors are usually wrapped with section context on the way up. Use IsKind to
// test for a kind anywhere in the chain:
//
//	if errors.IsKind(err, errors.KindBufferUnderrun) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
