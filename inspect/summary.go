package inspect

import (
	"fmt"
	"io"

	"github.com/wippyai/wasm-decode/wasm"
)

// SectionSummary counts the entries of one section.
type SectionSummary struct {
	Index   int
	ID      wasm.SectionID
	Entries int
}

// ModuleSummary counts the contents of a module.
type ModuleSummary struct {
	Version      uint32
	Sections     []SectionSummary
	Types        int
	Functions    int
	Exports      int
	Bodies       int
	Instructions int // including nested ones
}

// Summary counts the sections and entries of m.
func Summary(m *wasm.Module) ModuleSummary {
	sum := ModuleSummary{
		Version:   version(m),
		Types:     len(m.Types()),
		Functions: len(m.Functions()),
		Exports:   len(m.Exports()),
	}
	for i, s := range m.Sections {
		sum.Sections = append(sum.Sections, SectionSummary{Index: i, ID: s.ID(), Entries: Entries(s)})
	}
	for _, fb := range m.Bodies() {
		sum.Bodies++
		wasm.Walk(fb.Body, func(wasm.Instruction, int) bool {
			sum.Instructions++
			return true
		})
	}
	return sum
}

// WriteTo writes the summary as aligned text.
func (s ModuleSummary) WriteTo(w io.Writer) (int64, error) {
	var n int64
	write := func(format string, args ...any) error {
		c, err := fmt.Fprintf(w, format, args...)
		n += int64(c)
		return err
	}

	if err := write("version: %d\nsections: %d\n", s.Version, len(s.Sections)); err != nil {
		return n, err
	}
	for _, sec := range s.Sections {
		if err := write("  %2d  %-9s %d\n", sec.Index, sec.ID, sec.Entries); err != nil {
			return n, err
		}
	}
	err := write("types: %d\nfunctions: %d\nexports: %d\nbodies: %d\ninstructions: %d\n",
		s.Types, s.Functions, s.Exports, s.Bodies, s.Instructions)
	return n, err
}

// Entries returns the number of entries in s.
func Entries(s wasm.Section) int {
	switch sec := s.(type) {
	case *wasm.TypeSection:
		return len(sec.Types)
	case *wasm.FunctionSection:
		return len(sec.TypeIndices)
	case *wasm.ExportSection:
		return len(sec.Exports)
	case *wasm.CodeSection:
		return len(sec.Bodies)
	default:
		return 0
	}
}
