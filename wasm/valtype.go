package wasm

import (
	"github.com/wippyai/wasm-decode/errors"
	"github.com/wippyai/wasm-decode/wasm/internal/binary"
)

// DecodeValType classifies a value type tag.
func DecodeValType(b byte) (ValType, error) {
	v := ValType(b)
	if v.Class() == ValClassInvalid {
		return 0, errors.InvalidValType(errors.NoOffset, b)
	}
	return v, nil
}

func readValType(b *binary.Buffer) (ValType, error) {
	start, pos := b.Offset(), b.Position()
	c, err := b.ReadByte()
	if err != nil {
		return 0, err
	}
	v := ValType(c)
	if v.Class() == ValClassInvalid {
		b.Reset(start)
		return 0, errors.InvalidValType(pos, c)
	}
	return v, nil
}

// readBlockType decodes a block type. The three encodings share the leading
// byte: 0x40 is empty, a value type tag is a single result, and anything
// else starts a signed LEB128 type index.
func readBlockType(b *binary.Buffer) (BlockType, error) {
	start, pos := b.Offset(), b.Position()
	lead, err := b.ReadByte()
	if err != nil {
		return BlockType{}, err
	}
	if lead == BlockTypeEmptyByte {
		return BlockType{Kind: BlockEmpty}, nil
	}
	if v, err := DecodeValType(lead); err == nil {
		return BlockType{Kind: BlockValue, Value: v}, nil
	}
	// the lead byte is the first byte of the index
	b.Reset(start)
	idx, err := b.ReadS32()
	if err != nil {
		return BlockType{}, err
	}
	if idx < 0 {
		b.Reset(start)
		return BlockType{}, errors.InvalidValType(pos, lead)
	}
	return BlockType{Kind: BlockTypeIndex, TypeIndex: idx}, nil
}
