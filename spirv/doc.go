// Package spirv decodes the binary instruction stream of a SPIR-V module.
//
// It owns the opcode, decoration, storage-class, and execution-model enums
// that the rest of this repository's type and entry-point analysis reads
// off of, a lazy instruction decoder (Decoder), and a thin typed view over
// each instruction's operand words (the OpXxxView types).
//
// spirv is deliberately one-directional: it only reads SPIR-V, it never
// emits it. Validating or executing the module is out of scope; unknown
// opcodes and unknown decorations are skipped rather than rejected.
package spirv
