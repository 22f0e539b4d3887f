// Package spirvbytes turns a raw SPIR-V module on disk (a byte slice) into
// the native-endian word slice the spirv package decodes. This mirrors
// spirq-rs's SpirvBinary::from(Vec<u8>) (_examples/original_source/src/lib.rs),
// which sniffs the magic number's byte order from the first word rather than
// trusting a fixed endianness, since SPIR-V tools disagree on which one to
// emit to disk.
package spirvbytes

import "encoding/binary"

// Words converts data into a slice of native uint32 words, detecting the
// module's on-disk endianness from its first four bytes. If data is not a
// multiple of 4 bytes long, or is too short to contain a magic number, it is
// treated as an empty module: (nil, nil) is returned rather than an error,
// matching the original's leniency toward truncated or non-SPIR-V input at
// the ingress boundary (validation proper happens in spirv.NewDecoder).
func Words(data []byte) ([]uint32, error) {
	if len(data) < 4 || len(data)%4 != 0 {
		return nil, nil
	}

	var order binary.ByteOrder
	switch data[0] {
	case 0x03:
		order = binary.LittleEndian
	case 0x07:
		order = binary.BigEndian
	default:
		return nil, nil
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4 : i*4+4])
	}
	return words, nil
}
