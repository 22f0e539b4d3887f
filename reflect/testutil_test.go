package reflect_test

import "github.com/gogpu/spirq/spirv"

// encStr packs s as a SPIR-V literal string: UTF-8 bytes, NUL-terminated,
// padded to a whole number of words, matching spirv.LiteralString's layout.
func encStr(s string) []uint32 {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
	}
	return words
}

// ins packs an opcode and its operand words into one instruction.
func ins(op spirv.OpCode, operands ...uint32) []uint32 {
	wordCount := uint32(len(operands) + 1)
	out := make([]uint32, 0, wordCount)
	out = append(out, (wordCount<<16)|uint32(op))
	out = append(out, operands...)
	return out
}

func header(bound uint32) []uint32 {
	return []uint32{spirv.MagicNumber, 0x00010300, 0, bound, 0}
}

// module concatenates a header with a sequence of encoded instructions.
func module(bound uint32, instrs ...[]uint32) []uint32 {
	out := append([]uint32{}, header(bound)...)
	for _, i := range instrs {
		out = append(out, i...)
	}
	return out
}
