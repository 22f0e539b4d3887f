package types

import "github.com/gogpu/spirq/spirv"

// Type is a closed sum over the structural type kinds SPIR-V can declare.
// Concrete variants: Scalar, Vector, Matrix, Array, Struct, Image, Sampler,
// SampledImage, SubpassData.
type Type interface {
	// Size returns the type's byte size as used inside a struct or array:
	// for an unsized array this is 0, per spec.md's "treat an unsized
	// trailing array as zero-sized" non-goal.
	Size() uint32
	isType()
}

// ScalarKind distinguishes the four SPIR-V scalar kinds.
type ScalarKind uint8

const (
	Bool ScalarKind = iota
	SInt
	UInt
	Float
)

func (k ScalarKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case SInt:
		return "int"
	case UInt:
		return "uint"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// Scalar is a SPIR-V scalar type: bool, or a signed/unsigned int or float
// of a given bit width.
type Scalar struct {
	Kind  ScalarKind
	Width uint32 // bits; 0 for bool, which declares no width, though its Size() is 4
}

func (Scalar) isType() {}

func (s Scalar) Size() uint32 {
	if s.Kind == Bool {
		return 4
	}
	return s.Width / 8
}

// Vector is a SPIR-V vector type: a component scalar and a component count
// in [2, 4].
type Vector struct {
	Elem  Scalar
	Count uint32 // component count, 2..=4
}

func (Vector) isType() {}

func (v Vector) Size() uint32 { return v.Elem.Size() * v.Count }

// Matrix is a SPIR-V matrix type: a column vector, a column count, and the
// stride/majorness the enclosing struct member decorated it with. Stride
// and ColumnMajor are zero-valued until a struct member decoration attaches
// them (spec.md 4.C: "Matrix stride and majorness are not stored on the
// Matrix type at declaration time").
type Matrix struct {
	Column      Vector
	Columns     uint32 // 2..=4
	Stride      uint32
	ColumnMajor bool
}

func (Matrix) isType() {}

func (m Matrix) Size() uint32 {
	if m.Stride == 0 {
		return m.Column.Size() * m.Columns
	}
	return m.Stride * m.Columns
}

// Array is a SPIR-V array (fixed-length) or runtime array (unsized,
// trailing, zero-sized per this package's scope) type.
type Array struct {
	Elem    Type
	Count   uint32 // element count; meaningless when Unsized
	Unsized bool
	Stride  uint32
}

func (Array) isType() {}

func (a Array) Size() uint32 {
	if a.Unsized {
		return 0
	}
	return a.Count * a.Stride
}

// StructMember is one field of a Struct: its optional debug name, its byte
// offset from the start of the struct, and its type.
type StructMember struct {
	Name   string
	Offset uint32
	Type   Type
}

// Struct is a SPIR-V struct type: an optional debug name and an ordered
// list of members whose offsets strictly increase.
type Struct struct {
	Name    string
	Members []StructMember
}

func (Struct) isType() {}

// Size is max(member.Offset + member.Type.Size()) over all members, 0 for
// an empty struct. Padding to a containing array's stride is the array's
// job (spec.md 3: "rounded to the struct's declared stride if used inside
// an array"), not the struct's own Size.
func (s Struct) Size() uint32 {
	var max uint32
	for _, m := range s.Members {
		end := m.Offset + m.Type.Size()
		if end > max {
			max = end
		}
	}
	return max
}

// ImageClass distinguishes a sampled (texture) image from a storage image.
type ImageClass uint8

const (
	ImageSampled ImageClass = iota
	ImageStorage
)

// Image is a SPIR-V OpTypeImage type.
type Image struct {
	Dim          spirv.Dim
	Class        ImageClass
	Format       spirv.ImageFormat
	Multisampled bool
	Arrayed      bool
	Depth        bool
}

func (Image) isType() {}
func (Image) Size() uint32 { return 0 } // opaque handle, not a buffer-resident type

// Sampler is a SPIR-V OpTypeSampler type.
type Sampler struct{}

func (Sampler) isType() {}
func (Sampler) Size() uint32 { return 0 }

// SampledImage is a SPIR-V OpTypeSampledImage type: an image combined with
// its sampling state (GLSL's combined sampler types, e.g. sampler2D).
type SampledImage struct {
	Image Image
}

func (SampledImage) isType() {}
func (SampledImage) Size() uint32 { return 0 }

// SubpassData is a SPIR-V OpTypeImage with Dim = SubpassData: an input
// attachment read in a fragment shader without an explicit sampler.
type SubpassData struct {
	Multisampled bool
}

func (SubpassData) isType() {}
func (SubpassData) Size() uint32 { return 0 }
