// Package spirq reflects a compiled SPIR-V shader module and reports, per
// declared entry point, the pipeline interface it exposes: input/output
// variables, an optional push-constant block, and descriptor bindings, each
// with full structural type information and the access pattern the entry
// point's reachable code actually exercises.
//
// Example:
//
//	data, err := os.ReadFile("shader.spv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eps, err := spirq.ReflectBytes(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ep := range eps {
//	    fmt.Println(ep.Model, ep.Name)
//	}
package spirq

import (
	"github.com/gogpu/spirq/reflect"
	"github.com/gogpu/spirq/spirvbytes"
)

// EntryPoint is one OpEntryPoint's reflected result.
type EntryPoint = reflect.EntryPoint

// Reflect reflects an already-decoded SPIR-V module: words in native endian
// order, as produced by spirvbytes.Words or assembled directly by a caller
// that already has the module as a uint32 slice.
func Reflect(words []uint32) ([]EntryPoint, error) {
	return reflect.Reflect(words)
}

// ReflectBytes reflects a SPIR-V module exactly as it sits on disk or
// arrives over the wire: a byte slice in either endianness, identified by
// its leading magic-number byte order mark.
func ReflectBytes(data []byte) ([]EntryPoint, error) {
	words, err := spirvbytes.Words(data)
	if err != nil {
		return nil, err
	}
	return reflect.Reflect(words)
}
