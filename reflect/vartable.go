package reflect

import (
	"github.com/gogpu/spirq/spirv"
	"github.com/gogpu/spirq/spirverr"
	"github.com/gogpu/spirq/types"
)

// variable is one OpVariable: its storage class and the type it points to.
// spec.md 4.D.
type variable struct {
	ID            uint32
	StorageClass  spirv.StorageClass
	PointeeTypeID uint32
	Pointee       types.Type
}

// buildVarTable records every OpVariable's storage class and pointee type,
// resolving the pointer type id through tt.pointers.
func buildVarTable(instrs []spirv.Instruction, tt *typeTable) (map[uint32]variable, error) {
	vars := map[uint32]variable{}
	for _, instr := range instrs {
		if instr.Op != spirv.OpVariable {
			continue
		}
		v := spirv.DecodeOpVariable(instr.Operands)
		ptr, ok := tt.pointers[v.ResultType]
		if !ok {
			return nil, spirverr.Corruptedf("OpVariable %d: result type %d is not a declared pointer type", v.Result, v.ResultType)
		}
		pointee, ok := tt.types[ptr.Pointee]
		if !ok {
			return nil, spirverr.Corruptedf("OpVariable %d: pointee type %d not yet declared", v.Result, ptr.Pointee)
		}
		vars[v.Result] = variable{ID: v.Result, StorageClass: v.StorageClass, PointeeTypeID: ptr.Pointee, Pointee: pointee}
	}
	return vars, nil
}

// isBuiltIn reports whether id carries a BuiltIn decoration: such variables
// are excluded from every reflection map (spec.md 4.D).
func isBuiltIn(tt *typeTable, id uint32) bool {
	return tt.decorationsFor(id).has(spirv.DecorationBuiltIn)
}

// isInterfaceClass reports whether sc is Input or Output.
func isInterfaceClass(sc spirv.StorageClass) bool {
	return sc == spirv.StorageClassInput || sc == spirv.StorageClassOutput
}

// isDescriptorClass reports whether sc is one of the storage classes that
// route through a (set, binding) descriptor rather than a location.
func isDescriptorClass(sc spirv.StorageClass) bool {
	switch sc {
	case spirv.StorageClassUniform, spirv.StorageClassUniformConstant, spirv.StorageClassStorageBuffer:
		return true
	default:
		return false
	}
}

// descriptorTypeOf determines the concrete DescriptorType variant for a
// descriptor-class variable from its storage class, pointee type id
// (needed to check the Block/BufferBlock decoration), and pointee type,
// per spec.md 4.D. Image-array multibind is flattened to the element's
// DescriptorType (spec.md 4.E tie-break: "the DescriptorType is that of a
// single element").
func descriptorTypeOf(tt *typeTable, sc spirv.StorageClass, pointeeTypeID uint32, pointee types.Type) (types.DescriptorType, error) {
	elem := pointee
	if arr, ok := pointee.(types.Array); ok {
		elem = arr.Elem
	}

	switch tv := elem.(type) {
	case types.Struct:
		if sc == spirv.StorageClassStorageBuffer || tt.decorationsFor(pointeeTypeID).has(spirv.DecorationBufferBlock) {
			return types.StorageBuffer{Struct: tv}, nil
		}
		return types.UniformBuffer{Struct: tv}, nil
	case types.Image:
		if tv.Class == types.ImageStorage {
			return types.StorageImageDescriptor{Image: tv}, nil
		}
		return types.SampledImageDescriptor{Image: tv}, nil
	case types.Sampler:
		return types.SamplerDescriptor{}, nil
	case types.SampledImage:
		return types.CombinedImageSampler{Image: tv.Image}, nil
	case types.SubpassData:
		return types.SubpassInput{Multisampled: tv.Multisampled}, nil
	default:
		return nil, spirverr.Unsupportedf("no descriptor type models pointee kind %T", elem)
	}
}
