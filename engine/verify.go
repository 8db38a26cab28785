package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/wasm"
)

// Verifier compiles modules with wazero and compares the result with a
// decoded module.
type Verifier struct {
	runtime     wazero.Runtime
	logger      *zap.Logger
	interpreter bool
}

// NewVerifier creates a Verifier backed by a fresh wazero runtime.
// Close releases the runtime.
func NewVerifier(ctx context.Context, opts ...Option) *Verifier {
	v := &Verifier{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if v.interpreter {
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	}
	v.runtime = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return v
}

// Close releases the wazero runtime.
func (v *Verifier) Close(ctx context.Context) error {
	return v.runtime.Close(ctx)
}

// Verify compiles data with wazero and checks that the function exports of m
// match the compiled module's exported functions by name and signature.
// m is expected to be the result of decoding data.
func (v *Verifier) Verify(ctx context.Context, data []byte, m *wasm.Module) error {
	if m == nil {
		return errors.InvalidInput(errors.PhaseVerify, "nil module")
	}

	compiled, err := v.runtime.CompileModule(ctx, data)
	if err != nil {
		return errors.Wrap(errors.PhaseVerify, errors.KindInvalidData, err, "wazero rejected module")
	}
	defer compiled.Close(ctx)

	exported := compiled.ExportedFunctions()
	types := m.Types()
	funcs := m.Functions()

	var checked int
	for _, exp := range m.Exports() {
		if exp.Kind != wasm.ExportFunc {
			continue
		}
		def, ok := exported[exp.Name]
		if !ok {
			return errors.New(errors.PhaseVerify, errors.KindNotFound).
				Path("export", exp.Name).
				Detail("function export %q not exported by wazero", exp.Name).
				Build()
		}

		if int64(exp.Index) >= int64(len(funcs)) {
			return errors.OutOfBounds(errors.PhaseVerify, []string{"export", exp.Name}, int(exp.Index), len(funcs))
		}
		typeIdx := funcs[exp.Index]
		if int64(typeIdx) >= int64(len(types)) {
			return errors.OutOfBounds(errors.PhaseVerify, []string{"export", exp.Name, "type"}, int(typeIdx), len(types))
		}
		sig := types[typeIdx]

		if !sameTypes(sig.Params, def.ParamTypes()) || !sameTypes(sig.Results, def.ResultTypes()) {
			return errors.Mismatch(errors.PhaseVerify, []string{"export", exp.Name},
				fmt.Sprintf("decoded %s, wazero %s -> %s", sig,
					formatTypes(def.ParamTypes()), formatTypes(def.ResultTypes())))
		}
		checked++

		v.logger.Debug("export verified",
			zap.String("name", exp.Name),
			zap.Uint32("func", exp.Index),
			zap.Stringer("type", sig),
		)
	}

	if checked != len(exported) {
		return errors.Mismatch(errors.PhaseVerify, []string{"export"},
			fmt.Sprintf("decoded %d function export(s), wazero %d", checked, len(exported)))
	}

	v.logger.Debug("module verified", zap.Int("exports", checked))
	return nil
}

// Verify runs a one-off Verifier.
func Verify(ctx context.Context, data []byte, m *wasm.Module, opts ...Option) error {
	v := NewVerifier(ctx, opts...)
	defer v.Close(ctx)
	return v.Verify(ctx, data, m)
}

func sameTypes(decoded []wasm.ValType, compiled []api.ValueType) bool {
	if len(decoded) != len(compiled) {
		return false
	}
	for i := range decoded {
		if byte(decoded[i]) != compiled[i] {
			return false
		}
	}
	return true
}

func formatTypes(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return "[" + strings.Join(names, " ") + "]"
}
