package spirv

// LiteralString decodes a SPIR-V literal string starting at words[0]: a
// null-terminated UTF-8 byte sequence packed 4-to-a-word, little-endian
// within each word regardless of the module's on-disk endianness (the
// ingress layer already normalized words to native uint32s). It returns the
// decoded string and the number of words consumed.
func LiteralString(words []uint32) (string, int) {
	buf := make([]byte, 0, len(words)*4)
	consumed := 0
	for _, w := range words {
		consumed++
		b0 := byte(w)
		b1 := byte(w >> 8)
		b2 := byte(w >> 16)
		b3 := byte(w >> 24)
		if b0 == 0 {
			return string(buf), consumed
		}
		buf = append(buf, b0)
		if b1 == 0 {
			return string(buf), consumed
		}
		buf = append(buf, b1)
		if b2 == 0 {
			return string(buf), consumed
		}
		buf = append(buf, b2)
		if b3 == 0 {
			return string(buf), consumed
		}
		buf = append(buf, b3)
	}
	return string(buf), consumed
}

// OpNameView exposes OpName's operands: Target <literal string>.
type OpNameView struct {
	Target uint32
	Name   string
}

// DecodeOpName reads an OpName instruction's operands.
func DecodeOpName(operands []uint32) OpNameView {
	name, _ := LiteralString(operands[1:])
	return OpNameView{Target: operands[0], Name: name}
}

// OpMemberNameView exposes OpMemberName: Type, Member <literal number>, Name.
type OpMemberNameView struct {
	Type   uint32
	Member uint32
	Name   string
}

func DecodeOpMemberName(operands []uint32) OpMemberNameView {
	name, _ := LiteralString(operands[2:])
	return OpMemberNameView{Type: operands[0], Member: operands[1], Name: name}
}

// OpEntryPointView exposes OpEntryPoint: ExecutionModel, EntryPoint (function
// id), Name, Interface (ids of referenced global variables).
type OpEntryPointView struct {
	Model      ExecutionModel
	Function   uint32
	Name       string
	Interface  []uint32
}

func DecodeOpEntryPoint(operands []uint32) OpEntryPointView {
	name, nameWords := LiteralString(operands[2:])
	rest := operands[2+nameWords:]
	iface := make([]uint32, len(rest))
	copy(iface, rest)
	return OpEntryPointView{
		Model:     ExecutionModel(operands[0]),
		Function:  operands[1],
		Name:      name,
		Interface: iface,
	}
}

// OpDecorateView exposes OpDecorate: Target, Decoration, Operands (extra
// literal operands specific to the decoration, e.g. the location number).
type OpDecorateView struct {
	Target     uint32
	Decoration Decoration
	Operands   []uint32
}

func DecodeOpDecorate(operands []uint32) OpDecorateView {
	return OpDecorateView{
		Target:     operands[0],
		Decoration: Decoration(operands[1]),
		Operands:   operands[2:],
	}
}

// OpMemberDecorateView exposes OpMemberDecorate: StructType, Member,
// Decoration, Operands.
type OpMemberDecorateView struct {
	StructType uint32
	Member     uint32
	Decoration Decoration
	Operands   []uint32
}

func DecodeOpMemberDecorate(operands []uint32) OpMemberDecorateView {
	return OpMemberDecorateView{
		StructType: operands[0],
		Member:     operands[1],
		Decoration: Decoration(operands[2]),
		Operands:   operands[3:],
	}
}

// OpTypeIntView exposes OpTypeInt: Result, Width, Signedness.
type OpTypeIntView struct {
	Result   uint32
	Width    uint32
	Signed   bool
}

func DecodeOpTypeInt(operands []uint32) OpTypeIntView {
	return OpTypeIntView{Result: operands[0], Width: operands[1], Signed: operands[2] == 1}
}

// OpTypeFloatView exposes OpTypeFloat: Result, Width.
type OpTypeFloatView struct {
	Result uint32
	Width  uint32
}

func DecodeOpTypeFloat(operands []uint32) OpTypeFloatView {
	return OpTypeFloatView{Result: operands[0], Width: operands[1]}
}

// OpTypeVectorView exposes OpTypeVector: Result, ComponentType, ComponentCount.
type OpTypeVectorView struct {
	Result         uint32
	ComponentType  uint32
	ComponentCount uint32
}

func DecodeOpTypeVector(operands []uint32) OpTypeVectorView {
	return OpTypeVectorView{Result: operands[0], ComponentType: operands[1], ComponentCount: operands[2]}
}

// OpTypeMatrixView exposes OpTypeMatrix: Result, ColumnType, ColumnCount.
type OpTypeMatrixView struct {
	Result      uint32
	ColumnType  uint32
	ColumnCount uint32
}

func DecodeOpTypeMatrix(operands []uint32) OpTypeMatrixView {
	return OpTypeMatrixView{Result: operands[0], ColumnType: operands[1], ColumnCount: operands[2]}
}

// OpTypeArrayView exposes OpTypeArray: Result, ElementType, Length (id of an
// OpConstant/OpSpecConstant).
type OpTypeArrayView struct {
	Result      uint32
	ElementType uint32
	Length      uint32
}

func DecodeOpTypeArray(operands []uint32) OpTypeArrayView {
	return OpTypeArrayView{Result: operands[0], ElementType: operands[1], Length: operands[2]}
}

// OpTypeRuntimeArrayView exposes OpTypeRuntimeArray: Result, ElementType.
type OpTypeRuntimeArrayView struct {
	Result      uint32
	ElementType uint32
}

func DecodeOpTypeRuntimeArray(operands []uint32) OpTypeRuntimeArrayView {
	return OpTypeRuntimeArrayView{Result: operands[0], ElementType: operands[1]}
}

// OpTypeStructView exposes OpTypeStruct: Result, Members (member type ids in order).
type OpTypeStructView struct {
	Result  uint32
	Members []uint32
}

func DecodeOpTypeStruct(operands []uint32) OpTypeStructView {
	members := make([]uint32, len(operands)-1)
	copy(members, operands[1:])
	return OpTypeStructView{Result: operands[0], Members: members}
}

// OpTypePointerView exposes OpTypePointer: Result, StorageClass, PointeeType.
type OpTypePointerView struct {
	Result       uint32
	StorageClass StorageClass
	PointeeType  uint32
}

func DecodeOpTypePointer(operands []uint32) OpTypePointerView {
	return OpTypePointerView{Result: operands[0], StorageClass: StorageClass(operands[1]), PointeeType: operands[2]}
}

// OpTypeImageView exposes OpTypeImage's full operand set.
type OpTypeImageView struct {
	Result       uint32
	SampledType  uint32
	Dim          Dim
	Depth        uint32 // 0 = not depth, 1 = depth, 2 = unknown
	Arrayed      bool
	MS           bool
	Sampled      uint32 // 0 = unknown, 1 = sampled, 2 = storage
	Format       ImageFormat
}

func DecodeOpTypeImage(operands []uint32) OpTypeImageView {
	v := OpTypeImageView{
		Result:      operands[0],
		SampledType: operands[1],
		Dim:         Dim(operands[2]),
		Depth:       operands[3],
		Arrayed:     operands[4] != 0,
		MS:          operands[5] != 0,
		Sampled:     operands[6],
		Format:      ImageFormat(operands[7]),
	}
	return v
}

// OpTypeSampledImageView exposes OpTypeSampledImage: Result, ImageType.
type OpTypeSampledImageView struct {
	Result    uint32
	ImageType uint32
}

func DecodeOpTypeSampledImage(operands []uint32) OpTypeSampledImageView {
	return OpTypeSampledImageView{Result: operands[0], ImageType: operands[1]}
}

// OpVariableView exposes OpVariable: ResultType (pointer type id), Result, StorageClass.
type OpVariableView struct {
	ResultType   uint32
	Result       uint32
	StorageClass StorageClass
}

func DecodeOpVariable(operands []uint32) OpVariableView {
	return OpVariableView{ResultType: operands[0], Result: operands[1], StorageClass: StorageClass(operands[2])}
}

// OpConstantView exposes OpConstant/OpSpecConstant: ResultType, Result, Value
// (only the low 32 bits of the literal are modeled; 64-bit constants are
// rare as array lengths and not required by this package).
type OpConstantView struct {
	ResultType uint32
	Result     uint32
	Value      uint32
}

func DecodeOpConstant(operands []uint32) OpConstantView {
	return OpConstantView{ResultType: operands[0], Result: operands[1], Value: operands[2]}
}

// OpLoadView exposes OpLoad: ResultType, Result, Pointer.
type OpLoadView struct {
	ResultType uint32
	Result     uint32
	Pointer    uint32
}

func DecodeOpLoad(operands []uint32) OpLoadView {
	return OpLoadView{ResultType: operands[0], Result: operands[1], Pointer: operands[2]}
}

// OpStoreView exposes OpStore: Pointer, Object.
type OpStoreView struct {
	Pointer uint32
	Object  uint32
}

func DecodeOpStore(operands []uint32) OpStoreView {
	return OpStoreView{Pointer: operands[0], Object: operands[1]}
}

// OpAccessChainView exposes OpAccessChain/OpInBoundsAccessChain: ResultType,
// Result, Base, Indexes.
type OpAccessChainView struct {
	ResultType uint32
	Result     uint32
	Base       uint32
	Indexes    []uint32
}

func DecodeOpAccessChain(operands []uint32) OpAccessChainView {
	idx := make([]uint32, len(operands)-3)
	copy(idx, operands[3:])
	return OpAccessChainView{ResultType: operands[0], Result: operands[1], Base: operands[2], Indexes: idx}
}

// OpFunctionView exposes OpFunction: ResultType, Result, Control, FunctionType.
type OpFunctionView struct {
	ResultType   uint32
	Result       uint32
	Control      uint32
	FunctionType uint32
}

func DecodeOpFunction(operands []uint32) OpFunctionView {
	return OpFunctionView{
		ResultType:   operands[0],
		Result:       operands[1],
		Control:      operands[2],
		FunctionType: operands[3],
	}
}

// OpFunctionCallView exposes OpFunctionCall: ResultType, Result, Function, Arguments.
type OpFunctionCallView struct {
	ResultType uint32
	Result     uint32
	Function   uint32
	Arguments  []uint32
}

func DecodeOpFunctionCall(operands []uint32) OpFunctionCallView {
	args := make([]uint32, len(operands)-3)
	copy(args, operands[3:])
	return OpFunctionCallView{ResultType: operands[0], Result: operands[1], Function: operands[2], Arguments: args}
}

// ImageOperand exposes the result + image/sampled-image operand shared by
// every image sample/fetch/gather/read/write opcode, which is all the
// reflector needs to attribute access to the underlying variable.
type ImageOperand struct {
	Image uint32 // the id loaded from the image/sampled-image variable
}

// DecodeImageOperand extracts the image operand common to the image
// instruction family. For sample/fetch/gather/read ops it is operands[2]
// (the first operand after ResultType/Result); for OpImageWrite, which has
// no result, it is operands[0].
func DecodeImageOperand(op OpCode, operands []uint32) ImageOperand {
	if op == OpImageWrite {
		return ImageOperand{Image: operands[0]}
	}
	return ImageOperand{Image: operands[2]}
}
