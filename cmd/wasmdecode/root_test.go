package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/wasm"
)

func addModule(exportIdx uint32) []byte {
	m := &wasm.Module{Sections: []wasm.Section{
		&wasm.TypeSection{Types: []wasm.FuncType{{
			Params:  []wasm.ValType{wasm.ValI32, wasm.ValI32},
			Results: []wasm.ValType{wasm.ValI32},
		}}},
		&wasm.FunctionSection{TypeIndices: []uint32{0}},
		&wasm.ExportSection{Exports: []wasm.Export{{Name: "add", Kind: wasm.ExportFunc, Index: exportIdx}}},
		&wasm.CodeSection{Bodies: []wasm.FuncBody{{
			Body: wasm.Expression{Instructions: []wasm.Instruction{
				wasm.LocalGet{LocalIdx: 0},
				wasm.LocalGet{LocalIdx: 1},
				wasm.I32Add{},
			}},
		}}},
	}}
	return m.Encode()
}

// one () -> () function whose body has a byte after its end opcode
var trailingBody = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x0a, 0x05, 0x01, 0x03, 0x00, 0x0b, 0x01,
}

type testState struct {
	*globalState
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestState(t *testing.T, env map[string]string) *testState {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "add.wasm", addModule(0), 0o644))
	require.NoError(t, afero.WriteFile(fs, "bad-export.wasm", addModule(5), 0o644))
	require.NoError(t, afero.WriteFile(fs, "trailing.wasm", trailingBody, 0o644))
	require.NoError(t, afero.WriteFile(fs, "text.wasm", []byte("(module)"), 0o644))

	ts := &testState{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	ts.globalState = &globalState{
		fs:     fs,
		stdout: ts.out,
		stderr: ts.err,
		lookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		isTTY: func() bool { return false },
	}
	return ts
}

func (ts *testState) run(args ...string) error {
	cmd := newRootCommand(ts.globalState)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestDecode_Text(t *testing.T) {
	ts := newTestState(t, nil)
	require.NoError(t, ts.run("decode", "add.wasm"))

	out := ts.out.String()
	assert.Contains(t, out, "(module ;; version 1\n")
	assert.Contains(t, out, "(type (;0;) (func (param i32 i32) (result i32)))")
	assert.Contains(t, out, `(export "add" (func 0))`)
	assert.Contains(t, out, "i32.add")
	assert.Empty(t, ts.err.String())
}

func TestDecode_YAML(t *testing.T) {
	ts := newTestState(t, nil)
	require.NoError(t, ts.run("decode", "--format", "yaml", "add.wasm"))
	assert.Contains(t, ts.out.String(), "name: add")
	assert.Contains(t, ts.out.String(), "- i32.add")
}

func TestDecode_FormatPrecedence(t *testing.T) {
	env := map[string]string{"WASMDECODE_FORMAT": "yaml"}

	ts := newTestState(t, env)
	require.NoError(t, ts.run("decode", "add.wasm"))
	assert.Contains(t, ts.out.String(), "version: 1\n")

	ts = newTestState(t, env)
	require.NoError(t, ts.run("decode", "-f", "text", "add.wasm"))
	assert.Contains(t, ts.out.String(), "(module ;; version 1\n")
}

func TestDecode_Validate(t *testing.T) {
	ts := newTestState(t, nil)
	require.NoError(t, ts.run("decode", "bad-export.wasm"))

	ts = newTestState(t, nil)
	err := ts.run("decode", "--validate", "bad-export.wasm")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindOutOfBounds), err)
	assert.Contains(t, err.Error(), "bad-export.wasm")

	ts = newTestState(t, map[string]string{"WASMDECODE_VALIDATE": "true"})
	require.Error(t, ts.run("decode", "bad-export.wasm"))
}

func TestDecode_Verify(t *testing.T) {
	ts := newTestState(t, nil)
	require.NoError(t, ts.run("decode", "--verify", "--log-level", "debug", "add.wasm"))
	assert.Contains(t, ts.err.String(), "module verified")
	assert.Contains(t, ts.err.String(), "module decoded")
}

func TestDecode_StrictBodies(t *testing.T) {
	ts := newTestState(t, nil)
	require.NoError(t, ts.run("decode", "--log-level", "debug", "trailing.wasm"))
	assert.Contains(t, ts.err.String(), "ignoring trailing bytes in function body")

	ts = newTestState(t, nil)
	err := ts.run("decode", "--strict-bodies", "trailing.wasm")
	assert.True(t, errors.IsKind(err, errors.KindTrailingBytes), err)

	ts = newTestState(t, map[string]string{"WASMDECODE_STRICT_BODIES": "true"})
	err = ts.run("summary", "trailing.wasm")
	assert.True(t, errors.IsKind(err, errors.KindTrailingBytes), err)

	// an explicit flag wins over the environment
	ts = newTestState(t, map[string]string{"WASMDECODE_STRICT_BODIES": "true"})
	require.NoError(t, ts.run("summary", "--strict-bodies=false", "trailing.wasm"))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		kind errors.Kind
	}{
		{name: "missing file", args: []string{"decode", "nope.wasm"}, kind: errors.KindNotFound},
		{name: "not a module", args: []string{"decode", "text.wasm"}, kind: errors.KindInvalidMagic},
		{name: "unknown format", args: []string{"decode", "-f", "json", "add.wasm"}, kind: errors.KindInvalidInput},
		{
			name: "unknown log level",
			env:  map[string]string{"WASMDECODE_LOG_LEVEL": "loud"},
			args: []string{"summary", "add.wasm"},
			kind: errors.KindInvalidInput,
		},
		{
			name: "malformed env bool",
			env:  map[string]string{"WASMDECODE_VERIFY": "maybe"},
			args: []string{"decode", "add.wasm"},
			kind: errors.KindInvalidData,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestState(t, tc.env)
			err := ts.run(tc.args...)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tc.kind), "got %v", err)
			assert.Empty(t, ts.out.String())
		})
	}
}

func TestDecode_Args(t *testing.T) {
	ts := newTestState(t, nil)
	require.Error(t, ts.run("decode"))
	require.Error(t, ts.run("decode", "a.wasm", "b.wasm"))
}

func TestSummary(t *testing.T) {
	ts := newTestState(t, nil)
	require.NoError(t, ts.run("summary", "add.wasm"))

	out := ts.out.String()
	assert.Contains(t, out, "sections: 4\n")
	assert.Contains(t, out, "exports: 1\n")
	assert.Contains(t, out, "instructions: 3\n")
}

func TestBrowse_NeedsTerminal(t *testing.T) {
	ts := newTestState(t, nil)
	err := ts.run("browse", "add.wasm")
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput), err)
}

func TestConsolidateConfig(t *testing.T) {
	flagCfg := defaultConfig()
	flags := rootFlagSet(&flagCfg)
	flags.AddFlagSet(decodeFlagSet(&flagCfg))
	require.NoError(t, flags.Parse([]string{"--validate", "--log-level", "info"}))

	env := map[string]string{
		"WASMDECODE_LOG_LEVEL": "debug",
		"WASMDECODE_VERIFY":    "true",
	}
	cfg, err := consolidateConfig(flags, flagCfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, Config{
		Format:   formatText,
		LogLevel: "info",
		Validate: true,
		Verify:   true,
	}, cfg)

	cfg, err = consolidateConfig(pflag.NewFlagSet("", pflag.ContinueOnError), defaultConfig(), func(string) (string, bool) {
		return "", false
	})
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}
