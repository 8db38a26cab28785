package wasm

import (
	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/wasm/internal/binary"
)

// Instruction is a decoded instruction. The set of implementations is closed;
// structured instructions (Block, Loop, If) own their nested expressions.
type Instruction interface {
	Opcode() Opcode
	encode(w *binary.Writer)
}

// Expression is a sequence of instructions closed by End or Else.
type Expression struct {
	Instructions []Instruction
	// Terminator is OpEnd or OpElse. An Else terminator tells the enclosing
	// if that an else branch follows.
	Terminator Opcode
}

// LocalGet pushes the value of a local.
type LocalGet struct {
	LocalIdx uint32
}

// LocalSet pops a value into a local.
type LocalSet struct {
	LocalIdx uint32
}

// I32Const pushes a constant.
type I32Const struct {
	Value int32
}

// I32Eqz tests for zero.
type I32Eqz struct{}

// I32Eq compares for equality.
type I32Eq struct{}

// I32LtS is signed less-than.
type I32LtS struct{}

// I32GeS is signed greater-or-equal.
type I32GeS struct{}

// I32Add adds.
type I32Add struct{}

// I32RemS is the signed remainder.
type I32RemS struct{}

// Block is a structured block; a branch to it jumps past its end.
type Block struct {
	Type BlockType
	Body Expression
}

// Loop is a structured loop; a branch to it jumps back to its start.
type Loop struct {
	Type BlockType
	Body Expression
}

// If runs Then when the popped condition is non-zero, otherwise Else.
type If struct {
	Type BlockType
	Then Expression
	Else Expression
}

// HasElse reports whether the if was encoded with an else branch.
func (i If) HasElse() bool {
	return i.Then.Terminator == OpElse
}

// Br branches to the label LabelIdx levels out (0 is the innermost).
type Br struct {
	LabelIdx uint32
}

// BrIf branches like Br when the popped condition is non-zero.
type BrIf struct {
	LabelIdx uint32
}

func (LocalGet) Opcode() Opcode { return OpLocalGet }
func (LocalSet) Opcode() Opcode { return OpLocalSet }
func (I32Const) Opcode() Opcode { return OpI32Const }
func (I32Eqz) Opcode() Opcode   { return OpI32Eqz }
func (I32Eq) Opcode() Opcode    { return OpI32Eq }
func (I32LtS) Opcode() Opcode   { return OpI32LtS }
func (I32GeS) Opcode() Opcode   { return OpI32GeS }
func (I32Add) Opcode() Opcode   { return OpI32Add }
func (I32RemS) Opcode() Opcode  { return OpI32RemS }
func (Block) Opcode() Opcode    { return OpBlock }
func (Loop) Opcode() Opcode     { return OpLoop }
func (If) Opcode() Opcode       { return OpIf }
func (Br) Opcode() Opcode       { return OpBr }
func (BrIf) Opcode() Opcode     { return OpBrIf }

// instrDecoder decodes the immediates of one opcode; the opcode byte itself
// has already been consumed. depth is the nesting of the enclosing expression.
type instrDecoder func(d *Decoder, b *binary.Buffer, depth int) (Instruction, error)

// instrDecoders maps opcodes to their decoders. It is filled in init because
// the structured decoders recurse into readExpression, which reads the table.
var instrDecoders map[Opcode]instrDecoder

func init() {
	instrDecoders = map[Opcode]instrDecoder{
		OpLocalGet: func(_ *Decoder, b *binary.Buffer, _ int) (Instruction, error) {
			idx, err := b.ReadU32()
			return LocalGet{LocalIdx: idx}, err
		},
		OpLocalSet: func(_ *Decoder, b *binary.Buffer, _ int) (Instruction, error) {
			idx, err := b.ReadU32()
			return LocalSet{LocalIdx: idx}, err
		},
		OpI32Const: func(_ *Decoder, b *binary.Buffer, _ int) (Instruction, error) {
			v, err := b.ReadS32()
			return I32Const{Value: v}, err
		},
		OpI32Eqz:  noImmediate(I32Eqz{}),
		OpI32Eq:   noImmediate(I32Eq{}),
		OpI32LtS:  noImmediate(I32LtS{}),
		OpI32GeS:  noImmediate(I32GeS{}),
		OpI32Add:  noImmediate(I32Add{}),
		OpI32RemS: noImmediate(I32RemS{}),
		OpBlock: func(d *Decoder, b *binary.Buffer, depth int) (Instruction, error) {
			bt, body, err := d.readBlock(b, depth)
			return Block{Type: bt, Body: body}, err
		},
		OpLoop: func(d *Decoder, b *binary.Buffer, depth int) (Instruction, error) {
			bt, body, err := d.readBlock(b, depth)
			return Loop{Type: bt, Body: body}, err
		},
		OpIf: func(d *Decoder, b *binary.Buffer, depth int) (Instruction, error) {
			return d.readIf(b, depth)
		},
		OpBr: func(_ *Decoder, b *binary.Buffer, _ int) (Instruction, error) {
			idx, err := b.ReadU32()
			return Br{LabelIdx: idx}, err
		},
		OpBrIf: func(_ *Decoder, b *binary.Buffer, _ int) (Instruction, error) {
			idx, err := b.ReadU32()
			return BrIf{LabelIdx: idx}, err
		},
	}
}

func noImmediate(instr Instruction) instrDecoder {
	return func(*Decoder, *binary.Buffer, int) (Instruction, error) {
		return instr, nil
	}
}

// readExpression decodes instructions until an End or Else opcode. depth is
// the number of structured instructions enclosing the expression.
func (d *Decoder) readExpression(b *binary.Buffer, depth int) (Expression, error) {
	var instrs []Instruction
	for {
		pos := b.Position()
		c, err := b.ReadByte()
		if err != nil {
			return Expression{}, err
		}
		op := Opcode(c)
		if op == OpEnd || op == OpElse {
			return Expression{Instructions: instrs, Terminator: op}, nil
		}
		dec, ok := instrDecoders[op]
		if !ok {
			return Expression{}, errors.InvalidOpcode(pos, c)
		}
		instr, err := dec(d, b, depth)
		if err != nil {
			return Expression{}, err
		}
		instrs = append(instrs, instr)
	}
}

// readClosedExpression decodes an expression that must be closed by End.
func (d *Decoder) readClosedExpression(b *binary.Buffer, depth int) (Expression, error) {
	expr, err := d.readExpression(b, depth)
	if err != nil {
		return Expression{}, err
	}
	if expr.Terminator == OpElse {
		return Expression{}, errors.UnexpectedElse(b.Position() - 1)
	}
	return expr, nil
}

// enter checks that one more level of nesting is allowed. The opcode of the
// structured instruction has already been read.
func (d *Decoder) enter(b *binary.Buffer, depth int) error {
	if depth >= d.maxNesting {
		return errors.NestingTooDeep(b.Position()-1, d.maxNesting)
	}
	return nil
}

func (d *Decoder) readBlock(b *binary.Buffer, depth int) (BlockType, Expression, error) {
	if err := d.enter(b, depth); err != nil {
		return BlockType{}, Expression{}, err
	}
	bt, err := readBlockType(b)
	if err != nil {
		return BlockType{}, Expression{}, err
	}
	body, err := d.readClosedExpression(b, depth+1)
	if err != nil {
		return BlockType{}, Expression{}, err
	}
	return bt, body, nil
}

func (d *Decoder) readIf(b *binary.Buffer, depth int) (Instruction, error) {
	if err := d.enter(b, depth); err != nil {
		return nil, err
	}
	bt, err := readBlockType(b)
	if err != nil {
		return nil, err
	}
	then, err := d.readExpression(b, depth+1)
	if err != nil {
		return nil, err
	}
	instr := If{Type: bt, Then: then}
	if then.Terminator == OpElse {
		instr.Else, err = d.readClosedExpression(b, depth+1)
		if err != nil {
			return nil, err
		}
	}
	return instr, nil
}

// Walk calls fn for every instruction of expr in depth-first order. depth is
// the number of structured instructions enclosing the instruction within expr.
// Returning false from fn skips the children of a structured instruction.
func Walk(expr Expression, fn func(instr Instruction, depth int) bool) {
	walk(expr, 0, fn)
}

func walk(expr Expression, depth int, fn func(Instruction, int) bool) {
	for _, instr := range expr.Instructions {
		if !fn(instr, depth) {
			continue
		}
		switch v := instr.(type) {
		case Block:
			walk(v.Body, depth+1, fn)
		case Loop:
			walk(v.Body, depth+1, fn)
		case If:
			walk(v.Then, depth+1, fn)
			walk(v.Else, depth+1, fn)
		}
	}
}

// DecodeExpression decodes a single expression from code, which must be
// closed by End. Trailing bytes after the End are an error.
func DecodeExpression(code []byte, opts ...Option) (Expression, error) {
	d := NewDecoder(opts...)
	b := binary.NewBuffer(code)
	expr, err := d.readClosedExpression(b, 0)
	if err != nil {
		return Expression{}, err
	}
	if !b.IsExhausted() {
		return Expression{}, errors.TrailingBytes(b.Position(), b.Remaining())
	}
	return expr, nil
}
