package wasmdecode

import (
	"os"

	"github.com/spf13/afero"

	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/wasm"
)

// Source provides the raw bytes of a module.
type Source interface {
	Bytes() ([]byte, error)
}

// BytesSource is a module already held in memory.
type BytesSource []byte

// Bytes returns the slice itself.
func (s BytesSource) Bytes() ([]byte, error) {
	return s, nil
}

// FileSource reads a module from a file system.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

// Bytes reads the whole file. A missing file is a not_found error.
func (s FileSource) Bytes() ([]byte, error) {
	if s.Path == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty module path")
	}
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
				Path(s.Path).
				Cause(err).
				Detail("module file not found").
				Build()
		}
		return nil, errors.Load("read "+s.Path, err)
	}
	return data, nil
}

// Load reads a module from src and decodes it.
func Load(src Source, opts ...wasm.Option) (*wasm.Module, error) {
	if src == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "nil source")
	}
	data, err := src.Bytes()
	if err != nil {
		return nil, err
	}
	return wasm.Decode(data, opts...)
}
