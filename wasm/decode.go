package wasm

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/wasm/internal/binary"
)

// Decoder decodes WebAssembly binary modules. A Decoder holds no per-decode
// state and may be used from multiple goroutines.
type Decoder struct {
	logger       *zap.Logger
	strictBodies bool
	maxNesting   int
}

// DefaultMaxNesting is the default limit on nested block, loop and if
// instructions within one expression.
const DefaultMaxNesting = 4096

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for debug output. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithStrictBodies rejects function bodies whose expression ends before the
// declared body size. By default the remaining bytes are ignored.
func WithStrictBodies() Option {
	return func(d *Decoder) {
		d.strictBodies = true
	}
}

// WithMaxNesting limits how deeply structured instructions may nest. Deeper
// input fails with an invalid_input error at the opcode that exceeds n.
// Values below 1 keep DefaultMaxNesting.
func WithMaxNesting(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxNesting = n
		}
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{logger: zap.NewNop(), maxNesting: DefaultMaxNesting}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes a WebAssembly binary module with a default Decoder.
func Decode(data []byte, opts ...Option) (*Module, error) {
	return NewDecoder(opts...).Decode(data)
}

// Decode decodes a WebAssembly binary module. Decoding stops at the first
// error; no partial module is returned.
func (d *Decoder) Decode(data []byte) (*Module, error) {
	b := binary.NewBuffer(data)

	magic, err := b.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return nil, errors.InvalidMagic(magic)
	}

	version, err := b.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	m := &Module{}
	copy(m.Magic[:], magic)
	copy(m.Version[:], version)
	d.logger.Debug("module header", zap.Binary("version", version))

	for !b.IsExhausted() {
		s, err := d.readSection(b)
		if err != nil {
			return nil, err
		}
		m.Sections = append(m.Sections, s)
	}

	d.logger.Debug("module decoded",
		zap.Int("sections", len(m.Sections)),
		zap.Int("bytes", len(data)),
	)
	return m, nil
}

func (d *Decoder) readSection(b *binary.Buffer) (Section, error) {
	pos := b.Position()
	c, err := b.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("section header: %w", err)
	}
	id := SectionID(c)

	size, err := b.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("section size: %w", err)
	}

	body, err := b.ReadSubBuffer(int(size))
	if err != nil {
		return nil, fmt.Errorf("%s section data: %w", id, err)
	}

	s, err := newSection(pos, id)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("decoding section",
		zap.Stringer("section", id),
		zap.Uint8("id", c),
		zap.Int("offset", pos),
		zap.Uint32("size", size),
	)

	if err := s.decode(d, body); err != nil {
		return nil, fmt.Errorf("%s section: %w", id, err)
	}
	return s, nil
}

// sectionFactories maps section ids to constructors of empty sections.
// Supporting a new section kind means adding an entry here.
var sectionFactories = map[SectionID]func() Section{
	SectionType:     func() Section { return &TypeSection{} },
	SectionFunction: func() Section { return &FunctionSection{} },
	SectionExport:   func() Section { return &ExportSection{} },
	SectionCode:     func() Section { return &CodeSection{} },
}

func newSection(pos int, id SectionID) (Section, error) {
	factory, ok := sectionFactories[id]
	if !ok {
		return nil, errors.UnknownSectionID(pos, byte(id))
	}
	return factory(), nil
}

func (s *TypeSection) decode(_ *Decoder, b *binary.Buffer) error {
	types, err := binary.ReadVector(b, readFuncType)
	if err != nil {
		return err
	}
	s.Types = types
	return nil
}

func readFuncType(b *binary.Buffer) (FuncType, error) {
	pos := b.Position()
	form, err := b.ReadByte()
	if err != nil {
		return FuncType{}, err
	}
	if form != FuncTypeByte {
		return FuncType{}, errors.InvalidFuncTypeTag(pos, form)
	}
	params, err := binary.ReadVector(b, readValType)
	if err != nil {
		return FuncType{}, err
	}
	results, err := binary.ReadVector(b, readValType)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func (s *FunctionSection) decode(_ *Decoder, b *binary.Buffer) error {
	indices, err := binary.ReadVector(b, (*binary.Buffer).ReadU32)
	if err != nil {
		return err
	}
	s.TypeIndices = indices
	return nil
}

func (s *ExportSection) decode(_ *Decoder, b *binary.Buffer) error {
	exports, err := binary.ReadVector(b, readExport)
	if err != nil {
		return err
	}
	s.Exports = exports
	return nil
}

func readExport(b *binary.Buffer) (Export, error) {
	name, err := b.ReadName()
	if err != nil {
		return Export{}, err
	}
	kind, err := b.ReadByte()
	if err != nil {
		return Export{}, err
	}
	idx, err := b.ReadU32()
	if err != nil {
		return Export{}, err
	}
	return Export{Name: name, Kind: ExportKind(kind), Index: idx}, nil
}

func (s *CodeSection) decode(d *Decoder, b *binary.Buffer) error {
	var index int
	bodies, err := binary.ReadVector(b, func(b *binary.Buffer) (FuncBody, error) {
		body, err := d.readFuncBody(b, index)
		if err != nil {
			return FuncBody{}, fmt.Errorf("body %d: %w", index, err)
		}
		index++
		return body, nil
	})
	if err != nil {
		return err
	}
	s.Bodies = bodies
	return nil
}

// readFuncBody decodes one function body strictly inside its declared size.
func (d *Decoder) readFuncBody(b *binary.Buffer, index int) (FuncBody, error) {
	size, err := b.ReadU32()
	if err != nil {
		return FuncBody{}, err
	}
	body, err := b.ReadSubBuffer(int(size))
	if err != nil {
		return FuncBody{}, err
	}

	locals, err := binary.ReadVector(body, readLocalEntry)
	if err != nil {
		return FuncBody{}, err
	}
	expr, err := d.readClosedExpression(body, 0)
	if err != nil {
		return FuncBody{}, err
	}

	if trailing := body.Remaining(); trailing > 0 {
		if d.strictBodies {
			return FuncBody{}, errors.TrailingBytes(body.Position(), trailing)
		}
		d.logger.Debug("ignoring trailing bytes in function body",
			zap.Int("index", index),
			zap.Int("offset", body.Position()),
			zap.Int("bytes", trailing),
		)
	}

	d.logger.Debug("decoded function body",
		zap.Int("index", index),
		zap.Uint32("size", size),
		zap.Int("local_entries", len(locals)),
		zap.Int("instructions", len(expr.Instructions)),
	)

	return FuncBody{Size: size, Locals: locals, Body: expr}, nil
}

func readLocalEntry(b *binary.Buffer) (LocalEntry, error) {
	n, err := b.ReadU32()
	if err != nil {
		return LocalEntry{}, err
	}
	t, err := readValType(b)
	if err != nil {
		return LocalEntry{}, err
	}
	return LocalEntry{Count: n, Type: t}, nil
}
