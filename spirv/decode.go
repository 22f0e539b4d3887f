package spirv

import "github.com/gogpu/spirq/spirverr"

// Header holds the four fixed words that follow the magic number at the
// start of every SPIR-V module.
type Header struct {
	Version    uint32
	Generator  uint32
	Bound      uint32 // one past the highest id used in the module
	Reserved   uint32
}

// Instruction is one decoded SPIR-V instruction: an opcode plus its operand
// words. Operands never includes the packed opcode/word-count word itself.
type Instruction struct {
	Op       OpCode
	Operands []uint32
}

// Decoder walks a SPIR-V module's word stream, yielding one Instruction at
// a time. It borrows words for its lifetime without copying them: each
// returned Instruction's Operands is a sub-slice of words. It is
// forward-only and not safe for concurrent use by multiple goroutines
// against the same Decoder.
type Decoder struct {
	words  []uint32
	offset int
	Header Header
}

// NewDecoder validates the module header and returns a Decoder positioned
// at the first instruction. It fails with *spirverr.Error (spirverr.Corrupted) if words is
// shorter than the header or the magic number does not match.
func NewDecoder(words []uint32) (*Decoder, error) {
	if len(words) < HeaderWords {
		return nil, spirverr.Corruptedf("module has %d words, need at least %d for the header", len(words), HeaderWords)
	}
	if words[0] != MagicNumber {
		return nil, spirverr.Corruptedf("bad magic number 0x%08x, want 0x%08x", words[0], MagicNumber)
	}
	return &Decoder{
		words:  words,
		offset: HeaderWords,
		Header: Header{
			Version:   words[1],
			Generator: words[2],
			Bound:     words[3],
			Reserved:  words[4],
		},
	}, nil
}

// Next decodes the instruction at the current position and advances past
// it. It returns (zero, false, nil) once the stream is exhausted, or a
// non-nil error if the instruction's word count is zero or overruns the
// remaining stream.
func (d *Decoder) Next() (Instruction, bool, error) {
	if d.offset >= len(d.words) {
		return Instruction{}, false, nil
	}
	first := d.words[d.offset]
	wordCount := int(first >> 16)
	op := OpCode(first & 0xFFFF)
	if wordCount == 0 {
		return Instruction{}, false, spirverr.Corruptedf("instruction at word %d has zero word count", d.offset)
	}
	if d.offset+wordCount > len(d.words) {
		return Instruction{}, false, spirverr.Corruptedf("instruction at word %d (opcode %d) needs %d words, only %d remain",
			d.offset, op, wordCount, len(d.words)-d.offset)
	}
	operands := d.words[d.offset+1 : d.offset+wordCount]
	d.offset += wordCount
	return Instruction{Op: op, Operands: operands}, true, nil
}

// Decode decodes every instruction in words into a slice, failing fast on
// the first corrupted instruction. Most callers want this over driving
// Next() directly.
func Decode(words []uint32) (Header, []Instruction, error) {
	dec, err := NewDecoder(words)
	if err != nil {
		return Header{}, nil, err
	}
	var instrs []Instruction
	for {
		instr, ok, err := dec.Next()
		if err != nil {
			return Header{}, nil, err
		}
		if !ok {
			break
		}
		instrs = append(instrs, instr)
	}
	return dec.Header, instrs, nil
}
