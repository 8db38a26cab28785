package wasm

import (
	"fmt"
	"strconv"

	"github.com/wippyai/wasm-decode/errors"
)

// Validate checks cross-section references of a decoded module: type indices,
// function and body counts, export targets and names, local indices, branch
// labels and block signatures. Decode does not call Validate.
func (m *Module) Validate() error {
	if err := m.validateTypeIndices(); err != nil {
		return err
	}
	if err := m.validateCodeCount(); err != nil {
		return err
	}
	if err := m.validateExports(); err != nil {
		return err
	}
	if err := m.validateBodies(); err != nil {
		return err
	}
	return nil
}

// DecodeValidate decodes a WebAssembly binary and validates it.
func DecodeValidate(data []byte, opts ...Option) (*Module, error) {
	m, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Module) validateTypeIndices() error {
	numTypes := len(m.Types())
	for i, typeIdx := range m.Functions() {
		if int64(typeIdx) >= int64(numTypes) {
			return errors.OutOfBounds(errors.PhaseValidate, path("function", i, "type"), int(typeIdx), numTypes)
		}
	}
	return nil
}

func (m *Module) validateCodeCount() error {
	funcs, bodies := len(m.Functions()), len(m.Bodies())
	if funcs != bodies {
		return errors.Mismatch(errors.PhaseValidate, []string{"code"},
			fmt.Sprintf("function section declares %d function(s), code section has %d body(ies)", funcs, bodies))
	}
	return nil
}

func (m *Module) validateExports() error {
	numFuncs := len(m.Functions())
	seen := make(map[string]struct{})
	for i, exp := range m.Exports() {
		if _, dup := seen[exp.Name]; dup {
			return errors.Duplicate(errors.PhaseValidate, path("export", i), "export name", exp.Name)
		}
		seen[exp.Name] = struct{}{}

		if exp.Kind == ExportFunc && int64(exp.Index) >= int64(numFuncs) {
			return errors.OutOfBounds(errors.PhaseValidate, path("export", i, exp.Name), int(exp.Index), numFuncs)
		}
	}
	return nil
}

func (m *Module) validateBodies() error {
	types := m.Types()
	funcs := m.Functions()
	for i, fb := range m.Bodies() {
		// validateTypeIndices and validateCodeCount have already run
		sig := types[funcs[i]]
		numLocals := uint64(len(sig.Params)) + fb.NumLocals()

		var err error
		Walk(fb.Body, func(instr Instruction, depth int) bool {
			if err != nil {
				return false
			}
			err = validateInstruction(instr, depth, numLocals, len(types))
			return err == nil
		})
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

// validateInstruction checks one instruction nested depth structured
// instructions deep. The function body itself is label depth.
func validateInstruction(instr Instruction, depth int, numLocals uint64, numTypes int) error {
	switch v := instr.(type) {
	case LocalGet:
		return checkLocal(v.LocalIdx, numLocals)
	case LocalSet:
		return checkLocal(v.LocalIdx, numLocals)
	case Br:
		return checkLabel(v.LabelIdx, depth)
	case BrIf:
		return checkLabel(v.LabelIdx, depth)
	case Block:
		return checkBlockType(v.Type, numTypes)
	case Loop:
		return checkBlockType(v.Type, numTypes)
	case If:
		return checkBlockType(v.Type, numTypes)
	}
	return nil
}

func checkLocal(idx uint32, numLocals uint64) error {
	if uint64(idx) >= numLocals {
		return errors.OutOfBounds(errors.PhaseValidate, []string{"local"}, int(idx), int(numLocals))
	}
	return nil
}

func checkLabel(idx uint32, depth int) error {
	if int64(idx) > int64(depth) {
		return errors.OutOfBounds(errors.PhaseValidate, []string{"label"}, int(idx), depth+1)
	}
	return nil
}

func checkBlockType(bt BlockType, numTypes int) error {
	if bt.Kind == BlockTypeIndex && int(bt.TypeIndex) >= numTypes {
		return errors.OutOfBounds(errors.PhaseValidate, []string{"blocktype"}, int(bt.TypeIndex), numTypes)
	}
	return nil
}

func path(parts ...any) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
