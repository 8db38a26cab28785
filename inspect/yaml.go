package inspect

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-decode/wasm"
)

type moduleDoc struct {
	Version  uint32       `yaml:"version"`
	Sections []sectionDoc `yaml:"sections"`
}

type sectionDoc struct {
	ID        uint8       `yaml:"id"`
	Name      string      `yaml:"name"`
	Types     []string    `yaml:"types,omitempty"`
	Functions []uint32    `yaml:"functions,omitempty,flow"`
	Exports   []exportDoc `yaml:"exports,omitempty"`
	Bodies    []bodyDoc   `yaml:"bodies,omitempty"`
}

type exportDoc struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Index uint32 `yaml:"index"`
}

type bodyDoc struct {
	Size   uint32   `yaml:"size"`
	Locals []string `yaml:"locals,omitempty,flow"`
	Code   []string `yaml:"code"`
}

// YAML writes m as a YAML document.
func YAML(w io.Writer, m *wasm.Module) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newModuleDoc(m)); err != nil {
		return fmt.Errorf("could not marshal YAML: %w", err)
	}
	return enc.Close()
}

func newModuleDoc(m *wasm.Module) moduleDoc {
	doc := moduleDoc{
		Version:  version(m),
		Sections: make([]sectionDoc, 0, len(m.Sections)),
	}
	for _, s := range m.Sections {
		sd := sectionDoc{ID: uint8(s.ID()), Name: s.ID().String()}
		switch sec := s.(type) {
		case *wasm.TypeSection:
			for _, ft := range sec.Types {
				sd.Types = append(sd.Types, "func"+signature(ft))
			}
		case *wasm.FunctionSection:
			sd.Functions = sec.TypeIndices
		case *wasm.ExportSection:
			for _, e := range sec.Exports {
				sd.Exports = append(sd.Exports, exportDoc{Name: e.Name, Kind: e.Kind.String(), Index: e.Index})
			}
		case *wasm.CodeSection:
			for _, fb := range sec.Bodies {
				sd.Bodies = append(sd.Bodies, newBodyDoc(fb))
			}
		}
		doc.Sections = append(doc.Sections, sd)
	}
	return doc
}

func newBodyDoc(fb wasm.FuncBody) bodyDoc {
	bd := bodyDoc{Size: fb.Size, Code: []string{}}
	for _, l := range fb.Locals {
		bd.Locals = append(bd.Locals, fmt.Sprintf("%d x %s", l.Count, l.Type))
	}

	var b strings.Builder
	writeExpression(&b, fb.Body, "", Styles{})
	for _, line := range strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n") {
		if line != "" {
			bd.Code = append(bd.Code, line)
		}
	}
	return bd
}
