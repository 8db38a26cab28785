package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-decode/wasm"
)

// Styles colour parts of the text listing. Each field applies on its own; a
// zero lipgloss.Style leaves its part unchanged, so the zero Styles renders
// plain text.
type Styles struct {
	Keyword lipgloss.Style
	Comment lipgloss.Style
	Name    lipgloss.Style
}

// DefaultStyles returns the styles used on terminals.
func DefaultStyles() Styles {
	return Styles{
		Keyword: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Name:    lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
	}
}

func (s Styles) keyword(v string) string { return s.Keyword.Render(v) }
func (s Styles) comment(v string) string { return s.Comment.Render(v) }
func (s Styles) name(v string) string { return s.Name.Render(v) }

// TextOption configures Text.
type TextOption func(*Styles)

// WithStyles colours the listing.
func WithStyles(s Styles) TextOption {
	return func(dst *Styles) {
		*dst = s
	}
}

// Text writes a WAT-like listing of m. Sections appear in encounter order,
// each introduced by a comment naming it; indices restart in every section.
func Text(w io.Writer, m *wasm.Module, opts ...TextOption) error {
	var st Styles
	for _, opt := range opts {
		opt(&st)
	}

	var b strings.Builder
	b.WriteString("(" + st.keyword("module") + " " + st.comment(fmt.Sprintf(";; version %d", version(m))) + "\n")
	for i, s := range m.Sections {
		b.WriteString("  " + st.comment(fmt.Sprintf(";; section %d: %s", i, s.ID())) + "\n")
		writeSection(&b, s, "  ", st)
	}
	b.WriteString(")\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SectionText renders a single section without the module wrapper.
func SectionText(s wasm.Section) string {
	var b strings.Builder
	writeSection(&b, s, "", Styles{})
	return b.String()
}

func writeSection(b *strings.Builder, s wasm.Section, indent string, st Styles) {
	switch sec := s.(type) {
	case *wasm.TypeSection:
		for i, ft := range sec.Types {
			fmt.Fprintf(b, "%s(%s (;%d;) (%s%s))\n", indent, st.keyword("type"), i, st.keyword("func"), signature(ft))
		}
	case *wasm.FunctionSection:
		for i, idx := range sec.TypeIndices {
			fmt.Fprintf(b, "%s(%s (;%d;) (type %d))\n", indent, st.keyword("func"), i, idx)
		}
	case *wasm.ExportSection:
		for _, e := range sec.Exports {
			fmt.Fprintf(b, "%s(%s %s (%s %d))\n", indent, st.keyword("export"), st.name(fmt.Sprintf("%q", e.Name)), e.Kind, e.Index)
		}
	case *wasm.CodeSection:
		for i, fb := range sec.Bodies {
			fmt.Fprintf(b, "%s(%s (;%d;)%s %s\n", indent, st.keyword("code"), i, locals(fb.Locals),
				st.comment(fmt.Sprintf(";; %d bytes", fb.Size)))
			writeExpression(b, fb.Body, indent+"  ", st)
			b.WriteString(indent + ")\n")
		}
	}
}

func writeExpression(b *strings.Builder, expr wasm.Expression, indent string, st Styles) {
	for _, instr := range expr.Instructions {
		b.WriteString(indent + st.keyword(Instr(instr)) + "\n")
		switch v := instr.(type) {
		case wasm.Block:
			writeExpression(b, v.Body, indent+"  ", st)
			b.WriteString(indent + st.keyword("end") + "\n")
		case wasm.Loop:
			writeExpression(b, v.Body, indent+"  ", st)
			b.WriteString(indent + st.keyword("end") + "\n")
		case wasm.If:
			writeExpression(b, v.Then, indent+"  ", st)
			if v.HasElse() || len(v.Else.Instructions) > 0 {
				b.WriteString(indent + st.keyword("else") + "\n")
				writeExpression(b, v.Else, indent+"  ", st)
			}
			b.WriteString(indent + st.keyword("end") + "\n")
		}
	}
}

// Instr renders one instruction with its immediates. Structured instructions
// render only their header line.
func Instr(instr wasm.Instruction) string {
	op := instr.Opcode().String()
	switch v := instr.(type) {
	case wasm.LocalGet:
		return fmt.Sprintf("%s %d", op, v.LocalIdx)
	case wasm.LocalSet:
		return fmt.Sprintf("%s %d", op, v.LocalIdx)
	case wasm.I32Const:
		return fmt.Sprintf("%s %d", op, v.Value)
	case wasm.Br:
		return fmt.Sprintf("%s %d", op, v.LabelIdx)
	case wasm.BrIf:
		return fmt.Sprintf("%s %d", op, v.LabelIdx)
	case wasm.Block:
		return withBlockType(op, v.Type)
	case wasm.Loop:
		return withBlockType(op, v.Type)
	case wasm.If:
		return withBlockType(op, v.Type)
	default:
		return op
	}
}

func withBlockType(op string, bt wasm.BlockType) string {
	if s := bt.String(); s != "" {
		return op + " " + s
	}
	return op
}

func signature(ft wasm.FuncType) string {
	var b strings.Builder
	if len(ft.Params) > 0 {
		b.WriteString(" (param")
		for _, p := range ft.Params {
			b.WriteString(" " + p.String())
		}
		b.WriteString(")")
	}
	if len(ft.Results) > 0 {
		b.WriteString(" (result")
		for _, r := range ft.Results {
			b.WriteString(" " + r.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

func locals(entries []wasm.LocalEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" (local")
	for _, l := range entries {
		for i := uint32(0); i < l.Count && i < 8; i++ {
			b.WriteString(" " + l.Type.String())
		}
		if l.Count > 8 {
			fmt.Fprintf(&b, " ...x%d", l.Count)
		}
	}
	b.WriteString(")")
	return b.String()
}

func version(m *wasm.Module) uint32 {
	v := m.Version
	return uint32(v[0]) | uint32(v[1])<<8 | uint32(v[2])<<16 | uint32(v[3])<<24
}
