// Package reflect walks a decoded SPIR-V instruction stream in two passes —
// a type/decoration table build, then an entry-point reachability walk —
// and emits one manifest.Manifest per OpEntryPoint. The two-pass split
// mirrors spec.md 4.C/4.E and is grounded on the id→content dedup pattern in
// _examples/gogpu-naga/ir/registry.go, adapted from a builder (dedup on
// insert) to a reader (one slot per id, filled forward-reference-only,
// since SPIR-V guarantees declaration before use within a module section).
package reflect

import (
	"github.com/gogpu/spirq/spirv"
	"github.com/gogpu/spirq/spirverr"
	"github.com/gogpu/spirq/types"
)

// decorationSet maps a decoration kind to its literal operands (the
// operands following the decoration kind itself in OpDecorate/
// OpMemberDecorate). A nil decorationSet behaves like an empty one for
// reads: uint32Of and has both tolerate it.
type decorationSet map[spirv.Decoration][]uint32

func (d decorationSet) uint32Of(dec spirv.Decoration) (uint32, bool) {
	ops, ok := d[dec]
	if !ok || len(ops) == 0 {
		return 0, false
	}
	return ops[0], true
}

func (d decorationSet) has(dec spirv.Decoration) bool {
	_, ok := d[dec]
	return ok
}

// pointerType records an OpTypePointer's storage class and pointee type id;
// pointers are not themselves a types.Type (spec.md 4.C).
type pointerType struct {
	StorageClass spirv.StorageClass
	Pointee      uint32
}

// typeTable is the id-indexed state spec.md 4.C's single forward pass
// builds: names, member names, decorations, constants, assembled types, and
// pointer records.
type typeTable struct {
	names             map[uint32]string
	memberNames       map[uint32]map[uint32]string
	decorations       map[uint32]decorationSet
	memberDecorations map[uint32]map[uint32]decorationSet
	constants         map[uint32]uint64
	types             map[uint32]types.Type
	pointers          map[uint32]pointerType
}

func newTypeTable() *typeTable {
	return &typeTable{
		names:             map[uint32]string{},
		memberNames:       map[uint32]map[uint32]string{},
		decorations:       map[uint32]decorationSet{},
		memberDecorations: map[uint32]map[uint32]decorationSet{},
		constants:         map[uint32]uint64{},
		types:             map[uint32]types.Type{},
		pointers:          map[uint32]pointerType{},
	}
}

func (tt *typeTable) decorationsFor(id uint32) decorationSet {
	d, ok := tt.decorations[id]
	if !ok {
		d = decorationSet{}
		tt.decorations[id] = d
	}
	return d
}

func (tt *typeTable) memberDecorationsFor(structID, member uint32) decorationSet {
	m, ok := tt.memberDecorations[structID]
	if !ok {
		m = map[uint32]decorationSet{}
		tt.memberDecorations[structID] = m
	}
	d, ok := m[member]
	if !ok {
		d = decorationSet{}
		m[member] = d
	}
	return d
}

func (tt *typeTable) memberNameFor(structID, member uint32) string {
	m, ok := tt.memberNames[structID]
	if !ok {
		return ""
	}
	return m[member]
}

func (tt *typeTable) setMemberName(structID, member uint32, name string) {
	m, ok := tt.memberNames[structID]
	if !ok {
		m = map[uint32]string{}
		tt.memberNames[structID] = m
	}
	m[member] = name
}

// buildTypeTable runs the single forward pass over instrs. Because SPIR-V's
// annotation section (OpName/OpDecorate/OpMemberDecorate) always precedes
// its type-declaration section, decorations referenced while assembling a
// type are already present by the time that type's instruction is reached.
func buildTypeTable(instrs []spirv.Instruction) (*typeTable, error) {
	tt := newTypeTable()

	for _, instr := range instrs {
		switch instr.Op {
		case spirv.OpName:
			v := spirv.DecodeOpName(instr.Operands)
			tt.names[v.Target] = v.Name
		case spirv.OpMemberName:
			v := spirv.DecodeOpMemberName(instr.Operands)
			tt.setMemberName(v.Type, v.Member, v.Name)
		case spirv.OpDecorate:
			v := spirv.DecodeOpDecorate(instr.Operands)
			tt.decorationsFor(v.Target)[v.Decoration] = v.Operands
		case spirv.OpMemberDecorate:
			v := spirv.DecodeOpMemberDecorate(instr.Operands)
			tt.memberDecorationsFor(v.StructType, v.Member)[v.Decoration] = v.Operands

		case spirv.OpConstant, spirv.OpSpecConstant:
			v := spirv.DecodeOpConstant(instr.Operands)
			tt.constants[v.Result] = uint64(v.Value)

		case spirv.OpTypeBool:
			result := instr.Operands[0]
			tt.types[result] = types.Scalar{Kind: types.Bool}
		case spirv.OpTypeInt:
			v := spirv.DecodeOpTypeInt(instr.Operands)
			kind := types.UInt
			if v.Signed {
				kind = types.SInt
			}
			tt.types[v.Result] = types.Scalar{Kind: kind, Width: v.Width}
		case spirv.OpTypeFloat:
			v := spirv.DecodeOpTypeFloat(instr.Operands)
			tt.types[v.Result] = types.Scalar{Kind: types.Float, Width: v.Width}
		case spirv.OpTypeVector:
			v := spirv.DecodeOpTypeVector(instr.Operands)
			elem, ok := tt.types[v.ComponentType].(types.Scalar)
			if !ok {
				return nil, spirverr.Corruptedf("OpTypeVector %d: component type %d is not a declared scalar", v.Result, v.ComponentType)
			}
			tt.types[v.Result] = types.Vector{Elem: elem, Count: v.ComponentCount}
		case spirv.OpTypeMatrix:
			v := spirv.DecodeOpTypeMatrix(instr.Operands)
			col, ok := tt.types[v.ColumnType].(types.Vector)
			if !ok {
				return nil, spirverr.Corruptedf("OpTypeMatrix %d: column type %d is not a declared vector", v.Result, v.ColumnType)
			}
			tt.types[v.Result] = types.Matrix{Column: col, Columns: v.ColumnCount}
		case spirv.OpTypeArray:
			v := spirv.DecodeOpTypeArray(instr.Operands)
			elem, ok := tt.types[v.ElementType]
			if !ok {
				return nil, spirverr.Corruptedf("OpTypeArray %d: element type %d not yet declared", v.Result, v.ElementType)
			}
			length, ok := tt.constants[v.Length]
			if !ok {
				return nil, spirverr.Corruptedf("OpTypeArray %d: length id %d is not a known integer constant", v.Result, v.Length)
			}
			stride, _ := tt.decorationsFor(v.Result).uint32Of(spirv.DecorationArrayStride)
			tt.types[v.Result] = types.Array{Elem: elem, Count: uint32(length), Stride: stride}
		case spirv.OpTypeRuntimeArray:
			v := spirv.DecodeOpTypeRuntimeArray(instr.Operands)
			elem, ok := tt.types[v.ElementType]
			if !ok {
				return nil, spirverr.Corruptedf("OpTypeRuntimeArray %d: element type %d not yet declared", v.Result, v.ElementType)
			}
			stride, _ := tt.decorationsFor(v.Result).uint32Of(spirv.DecorationArrayStride)
			tt.types[v.Result] = types.Array{Elem: elem, Unsized: true, Stride: stride}
		case spirv.OpTypeStruct:
			v := spirv.DecodeOpTypeStruct(instr.Operands)
			s, err := tt.buildStruct(v)
			if err != nil {
				return nil, err
			}
			tt.types[v.Result] = s
		case spirv.OpTypePointer:
			v := spirv.DecodeOpTypePointer(instr.Operands)
			tt.pointers[v.Result] = pointerType{StorageClass: v.StorageClass, Pointee: v.PointeeType}
		case spirv.OpTypeSampler:
			result := instr.Operands[0]
			tt.types[result] = types.Sampler{}
		case spirv.OpTypeImage:
			v := spirv.DecodeOpTypeImage(instr.Operands)
			if v.Dim == spirv.DimSubpassData {
				tt.types[v.Result] = types.SubpassData{Multisampled: v.MS}
				continue
			}
			class := types.ImageSampled
			if v.Sampled == 2 {
				class = types.ImageStorage
			}
			tt.types[v.Result] = types.Image{
				Dim:          v.Dim,
				Class:        class,
				Format:       v.Format,
				Multisampled: v.MS,
				Arrayed:      v.Arrayed,
				Depth:        v.Depth == 1,
			}
		case spirv.OpTypeSampledImage:
			v := spirv.DecodeOpTypeSampledImage(instr.Operands)
			img, ok := tt.types[v.ImageType].(types.Image)
			if !ok {
				return nil, spirverr.Corruptedf("OpTypeSampledImage %d: image type %d is not a declared image", v.Result, v.ImageType)
			}
			tt.types[v.Result] = types.SampledImage{Image: img}
		}
	}

	return tt, nil
}

// buildStruct assembles a Struct from a decoded OpTypeStruct, attaching
// each member's offset, name, and (when the member is a Matrix, or an Array
// of Matrix) its stride and majorness from the member's own decorations —
// spec.md 4.C: matrix stride/majorness live on the enclosing member
// decoration, not on the Matrix type at declaration time.
func (tt *typeTable) buildStruct(v spirv.OpTypeStructView) (types.Struct, error) {
	s := types.Struct{Name: tt.names[v.Result]}
	for i, memberTypeID := range v.Members {
		memberType, ok := tt.types[memberTypeID]
		if !ok {
			return types.Struct{}, spirverr.Corruptedf("OpTypeStruct %d: member %d type %d not yet declared", v.Result, i, memberTypeID)
		}
		decs := tt.memberDecorationsFor(v.Result, uint32(i))
		offset, _ := decs.uint32Of(spirv.DecorationOffset)
		memberType = attachMatrixLayout(memberType, decs)
		s.Members = append(s.Members, types.StructMember{
			Name:   tt.memberNameFor(v.Result, uint32(i)),
			Offset: offset,
			Type:   memberType,
		})
	}
	return s, nil
}

// attachMatrixLayout propagates a member's MatrixStride/RowMajor decoration
// onto its type when that type is a Matrix, or recursively onto the element
// type of an Array of Matrix (spec.md 4.C: "If the member type is an Array
// of Matrix, propagate the same to its element").
func attachMatrixLayout(t types.Type, decs decorationSet) types.Type {
	switch tt := t.(type) {
	case types.Matrix:
		if stride, ok := decs.uint32Of(spirv.DecorationMatrixStride); ok {
			tt.Stride = stride
		}
		tt.ColumnMajor = !decs.has(spirv.DecorationRowMajor)
		return tt
	case types.Array:
		tt.Elem = attachMatrixLayout(tt.Elem, decs)
		return tt
	default:
		return t
	}
}
