package types

import (
	"hash/fnv"
	"strconv"
)

// Hash computes a deterministic content hash of a Type, folding in its tag,
// primitive widths, member offsets, strides, and child hashes, so that two
// structurally equal type trees always hash equal. This is the structural-
// equality primitive Manifest.Merge uses to detect descriptor conflicts
// (spec.md 9 "Hashing for structural equality"), adapted from the teacher's
// string-keyed type-dedup table (ir.TypeRegistry.normalizeType) into a
// single accumulated uint64 instead of a map key.
func Hash(t Type) uint64 {
	h := fnv.New64a()
	writeType(h, t)
	return h.Sum64()
}

// HashDescriptor is Hash's counterpart for DescriptorType, used by
// Manifest.Merge to detect conflicting redeclarations of the same binding.
func HashDescriptor(d DescriptorType) uint64 {
	h := fnv.New64a()
	writeDescriptor(h, d)
	return h.Sum64()
}

type hasher interface {
	Write(p []byte) (int, error)
}

func writeStr(h hasher, s string) {
	_, _ = h.Write([]byte(s))
	_, _ = h.Write([]byte{0})
}

func writeUint(h hasher, v uint64) {
	_, _ = h.Write([]byte(strconv.FormatUint(v, 16)))
	_, _ = h.Write([]byte{':'})
}

func writeType(h hasher, t Type) {
	switch v := t.(type) {
	case Scalar:
		writeStr(h, "scalar")
		writeUint(h, uint64(v.Kind))
		writeUint(h, uint64(v.Width))
	case Vector:
		writeStr(h, "vector")
		writeUint(h, uint64(v.Count))
		writeType(h, v.Elem)
	case Matrix:
		writeStr(h, "matrix")
		writeUint(h, uint64(v.Columns))
		writeUint(h, uint64(v.Stride))
		if v.ColumnMajor {
			writeUint(h, 1)
		} else {
			writeUint(h, 0)
		}
		writeType(h, v.Column)
	case Array:
		writeStr(h, "array")
		writeUint(h, uint64(v.Count))
		writeUint(h, uint64(v.Stride))
		if v.Unsized {
			writeUint(h, 1)
		} else {
			writeUint(h, 0)
		}
		writeType(h, v.Elem)
	case Struct:
		writeStr(h, "struct")
		writeUint(h, uint64(len(v.Members)))
		for _, m := range v.Members {
			writeStr(h, m.Name)
			writeUint(h, uint64(m.Offset))
			writeType(h, m.Type)
		}
	case Image:
		writeStr(h, "image")
		writeUint(h, uint64(v.Dim))
		writeUint(h, uint64(v.Class))
		writeUint(h, uint64(v.Format))
		writeUint(h, boolToUint(v.Multisampled))
		writeUint(h, boolToUint(v.Arrayed))
		writeUint(h, boolToUint(v.Depth))
	case Sampler:
		writeStr(h, "sampler")
	case SampledImage:
		writeStr(h, "sampled_image")
		writeType(h, v.Image)
	case SubpassData:
		writeStr(h, "subpass_data")
		writeUint(h, boolToUint(v.Multisampled))
	default:
		writeStr(h, "unknown")
	}
}

func writeDescriptor(h hasher, d DescriptorType) {
	switch v := d.(type) {
	case UniformBuffer:
		writeStr(h, "uniform_buffer")
		writeType(h, v.Struct)
	case StorageBuffer:
		writeStr(h, "storage_buffer")
		writeType(h, v.Struct)
	case SampledImageDescriptor:
		writeStr(h, "sampled_image_desc")
		writeType(h, v.Image)
	case StorageImageDescriptor:
		writeStr(h, "storage_image_desc")
		writeType(h, v.Image)
	case SamplerDescriptor:
		writeStr(h, "sampler_desc")
	case CombinedImageSampler:
		writeStr(h, "combined_image_sampler")
		writeType(h, v.Image)
	case SubpassInput:
		writeStr(h, "subpass_input")
		writeUint(h, boolToUint(v.Multisampled))
		writeUint(h, uint64(v.InputAttachmentIndex))
	default:
		writeStr(h, "unknown_descriptor")
	}
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
