package reflect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirq/manifest"
	"github.com/gogpu/spirq/reflect"
	"github.com/gogpu/spirq/spirv"
	"github.com/gogpu/spirq/types"
)

func opEntryPoint(model spirv.ExecutionModel, function uint32, name string, iface ...uint32) []uint32 {
	operands := []uint32{uint32(model), function}
	operands = append(operands, encStr(name)...)
	operands = append(operands, iface...)
	return ins(spirv.OpEntryPoint, operands...)
}

func opName(target uint32, name string) []uint32 {
	return ins(spirv.OpName, append([]uint32{target}, encStr(name)...)...)
}

func opMemberName(typeID, member uint32, name string) []uint32 {
	return ins(spirv.OpMemberName, append([]uint32{typeID, member}, encStr(name)...)...)
}

func f32Vec4() types.Vector { return types.Vector{Elem: types.Scalar{Kind: types.Float, Width: 32}, Count: 4} }

// scenario 1: minimal vertex+fragment pair (spec.md 8, scenario 1).
func TestScenarioVertexFragmentPair(t *testing.T) {
	const (
		voidT = 1
		fnT   = 2
		f32T  = 3
		vec4T = 4
		ptrOut = 5
		ptrIn  = 6

		glPos   = 10
		colorOut = 11
		colorIn  = 12
		fragOut  = 13

		vertFn = 20
		fragFn = 30
	)

	words := module(1000,
		ins(spirv.OpTypeVoid, voidT),
		ins(spirv.OpTypeFunction, fnT, voidT),
		ins(spirv.OpTypeFloat, f32T, 32),
		ins(spirv.OpTypeVector, vec4T, f32T, 4),
		ins(spirv.OpTypePointer, ptrOut, uint32(spirv.StorageClassOutput), vec4T),
		ins(spirv.OpTypePointer, ptrIn, uint32(spirv.StorageClassInput), vec4T),

		ins(spirv.OpDecorate, glPos, uint32(spirv.DecorationBuiltIn), uint32(spirv.BuiltInPosition)),
		ins(spirv.OpDecorate, colorOut, uint32(spirv.DecorationLocation), 0),
		ins(spirv.OpDecorate, colorIn, uint32(spirv.DecorationLocation), 0),
		ins(spirv.OpDecorate, fragOut, uint32(spirv.DecorationLocation), 0),

		ins(spirv.OpVariable, ptrOut, glPos, uint32(spirv.StorageClassOutput)),
		ins(spirv.OpVariable, ptrOut, colorOut, uint32(spirv.StorageClassOutput)),
		ins(spirv.OpVariable, ptrIn, colorIn, uint32(spirv.StorageClassInput)),
		ins(spirv.OpVariable, ptrOut, fragOut, uint32(spirv.StorageClassOutput)),

		opEntryPoint(spirv.ExecutionModelVertex, vertFn, "main", glPos, colorOut),
		opEntryPoint(spirv.ExecutionModelFragment, fragFn, "main", colorIn, fragOut),

		ins(spirv.OpFunction, voidT, vertFn, 0, fnT),
		ins(spirv.OpStore, glPos, 999),
		ins(spirv.OpStore, colorOut, 999),
		ins(spirv.OpFunctionEnd),

		ins(spirv.OpFunction, voidT, fragFn, 0, fnT),
		ins(spirv.OpLoad, vec4T, 900, colorIn),
		ins(spirv.OpStore, fragOut, 900),
		ins(spirv.OpFunctionEnd),
	)

	eps, err := reflect.Reflect(words)
	require.NoError(t, err)
	require.Len(t, eps, 2)

	vertex := eps[0]
	require.Equal(t, spirv.ExecutionModelVertex, vertex.Model)
	// gl_Position is BuiltIn-decorated and must be excluded entirely, leaving
	// exactly the one explicit output location below.
	require.Len(t, vertex.Manifest.Outputs(), 1)
	vOut, ok := vertex.Manifest.GetOutput(manifest.InterfaceLocation{Location: 0})
	require.True(t, ok)
	require.Equal(t, f32Vec4(), vOut)

	fragment := eps[1]
	require.Equal(t, spirv.ExecutionModelFragment, fragment.Model)
	fIn, ok := fragment.Manifest.GetInput(manifest.InterfaceLocation{Location: 0})
	require.True(t, ok)
	require.Equal(t, f32Vec4(), fIn)
	fOut, ok := fragment.Manifest.GetOutput(manifest.InterfaceLocation{Location: 0})
	require.True(t, ok)
	require.Equal(t, f32Vec4(), fOut)
}

// scenario 2: UBO with struct layout (spec.md 8, scenario 2).
func TestScenarioUBOStructLayout(t *testing.T) {
	const (
		voidT = 1
		fnT   = 2
		f32T  = 3
		vec4T = 4
		mat4T = 5
		structT = 6
		ptrT  = 7
		uboVar = 10
		fn    = 20
	)

	words := module(1000,
		ins(spirv.OpTypeVoid, voidT),
		ins(spirv.OpTypeFunction, fnT, voidT),
		ins(spirv.OpTypeFloat, f32T, 32),
		ins(spirv.OpTypeVector, vec4T, f32T, 4),
		ins(spirv.OpTypeMatrix, mat4T, vec4T, 4),

		ins(spirv.OpMemberDecorate, structT, 0, uint32(spirv.DecorationOffset), 0),
		ins(spirv.OpMemberDecorate, structT, 0, uint32(spirv.DecorationMatrixStride), 16),
		ins(spirv.OpMemberDecorate, structT, 1, uint32(spirv.DecorationOffset), 64),
		ins(spirv.OpDecorate, structT, uint32(spirv.DecorationBlock)),
		opMemberName(structT, 0, "mvp"),
		opMemberName(structT, 1, "t"),

		ins(spirv.OpTypeStruct, structT, mat4T, f32T),
		ins(spirv.OpTypePointer, ptrT, uint32(spirv.StorageClassUniform), structT),

		ins(spirv.OpDecorate, uboVar, uint32(spirv.DecorationDescriptorSet), 0),
		ins(spirv.OpDecorate, uboVar, uint32(spirv.DecorationBinding), 1),
		ins(spirv.OpVariable, ptrT, uboVar, uint32(spirv.StorageClassUniform)),

		opEntryPoint(spirv.ExecutionModelFragment, fn, "main"),

		ins(spirv.OpFunction, voidT, fn, 0, fnT),
		ins(spirv.OpLoad, structT, 900, uboVar),
		ins(spirv.OpFunctionEnd),
	)

	eps, err := reflect.Reflect(words)
	require.NoError(t, err)
	require.Len(t, eps, 1)

	m := eps[0].Manifest
	desc, ok := m.GetDesc(manifest.DescriptorBinding{Set: 0, Binding: 1})
	require.True(t, ok)
	ubo, ok := desc.(types.UniformBuffer)
	require.True(t, ok)
	require.Len(t, ubo.Struct.Members, 2)

	res := m.ResolveDesc("0.1.mvp")
	require.True(t, res.Found)
	require.NotNil(t, res.Member)
	require.Equal(t, uint32(0), res.Member.Offset)
	mat, ok := res.Member.Type.(types.Matrix)
	require.True(t, ok)
	require.Equal(t, uint32(4), mat.Columns)

	res = m.ResolveDesc("0.1.t")
	require.True(t, res.Found)
	require.NotNil(t, res.Member)
	require.Equal(t, uint32(64), res.Member.Offset)
}

// scenario 3: storage buffer with unsized trailing array (spec.md 8, scenario 3).
func TestScenarioStorageBufferUnsizedArray(t *testing.T) {
	const (
		voidT = 1
		fnT   = 2
		u32T  = 3
		arrT  = 4
		structT = 5
		ptrT  = 6
		ssboVar = 10
		fn    = 20
	)

	words := module(1000,
		ins(spirv.OpTypeVoid, voidT),
		ins(spirv.OpTypeFunction, fnT, voidT),
		ins(spirv.OpTypeInt, u32T, 32, 0),

		ins(spirv.OpDecorate, arrT, uint32(spirv.DecorationArrayStride), 4),
		ins(spirv.OpTypeRuntimeArray, arrT, u32T),

		ins(spirv.OpMemberDecorate, structT, 0, uint32(spirv.DecorationOffset), 0),
		ins(spirv.OpMemberDecorate, structT, 1, uint32(spirv.DecorationOffset), 4),
		opMemberName(structT, 0, "header"),
		opMemberName(structT, 1, "data"),
		ins(spirv.OpTypeStruct, structT, u32T, arrT),

		ins(spirv.OpTypePointer, ptrT, uint32(spirv.StorageClassStorageBuffer), structT),
		ins(spirv.OpDecorate, ssboVar, uint32(spirv.DecorationDescriptorSet), 0),
		ins(spirv.OpDecorate, ssboVar, uint32(spirv.DecorationBinding), 2),
		ins(spirv.OpVariable, ptrT, ssboVar, uint32(spirv.StorageClassStorageBuffer)),

		opEntryPoint(spirv.ExecutionModelGLCompute, fn, "main"),

		ins(spirv.OpFunction, voidT, fn, 0, fnT),
		ins(spirv.OpLoad, structT, 900, ssboVar),
		ins(spirv.OpStore, ssboVar, 900),
		ins(spirv.OpFunctionEnd),
	)

	eps, err := reflect.Reflect(words)
	require.NoError(t, err)

	m := eps[0].Manifest
	bind := manifest.DescriptorBinding{Set: 0, Binding: 2}
	desc, ok := m.GetDesc(bind)
	require.True(t, ok)
	_, ok = desc.(types.StorageBuffer)
	require.True(t, ok)

	res := m.ResolveDesc("0.2.data")
	require.True(t, res.Found)
	require.NotNil(t, res.Member)
	require.Equal(t, uint32(4), res.Member.Offset)
	arr, ok := res.Member.Type.(types.Array)
	require.True(t, ok)
	require.True(t, arr.Unsized)
	require.Equal(t, uint32(4), arr.Stride)

	access, ok := m.GetDescAccess(bind)
	require.True(t, ok)
	require.Equal(t, types.ReadWrite, access)
}

// scenario 4: push-constant resolution across stages (spec.md 8, scenario 4).
func TestScenarioPushConstantAcrossStages(t *testing.T) {
	const (
		voidT = 1
		fnT   = 2
		f32T  = 3
		vec4T = 4
		mat4T = 5
		vec3T = 6
		structT = 7
		ptrT  = 8
		pcVar = 10
		vertFn = 20
		fragFn = 30
	)

	words := module(1000,
		ins(spirv.OpTypeVoid, voidT),
		ins(spirv.OpTypeFunction, fnT, voidT),
		ins(spirv.OpTypeFloat, f32T, 32),
		ins(spirv.OpTypeVector, vec4T, f32T, 4),
		ins(spirv.OpTypeMatrix, mat4T, vec4T, 4),
		ins(spirv.OpTypeVector, vec3T, f32T, 3),

		ins(spirv.OpMemberDecorate, structT, 0, uint32(spirv.DecorationOffset), 0),
		ins(spirv.OpMemberDecorate, structT, 0, uint32(spirv.DecorationMatrixStride), 16),
		ins(spirv.OpMemberDecorate, structT, 1, uint32(spirv.DecorationOffset), 64),
		opMemberName(structT, 0, "view"),
		opMemberName(structT, 1, "eye"),
		ins(spirv.OpTypeStruct, structT, mat4T, vec3T),

		ins(spirv.OpTypePointer, ptrT, uint32(spirv.StorageClassPushConstant), structT),
		ins(spirv.OpVariable, ptrT, pcVar, uint32(spirv.StorageClassPushConstant)),

		opEntryPoint(spirv.ExecutionModelVertex, vertFn, "main", pcVar),
		opEntryPoint(spirv.ExecutionModelFragment, fragFn, "main", pcVar),

		ins(spirv.OpFunction, voidT, vertFn, 0, fnT),
		ins(spirv.OpLoad, structT, 900, pcVar),
		ins(spirv.OpFunctionEnd),

		ins(spirv.OpFunction, voidT, fragFn, 0, fnT),
		ins(spirv.OpLoad, structT, 901, pcVar),
		ins(spirv.OpFunctionEnd),
	)

	eps, err := reflect.Reflect(words)
	require.NoError(t, err)
	require.Len(t, eps, 2)

	vs, fs := eps[0].Manifest, eps[1].Manifest

	res := vs.ResolvePushConst(".view")
	require.True(t, res.Found)
	require.Equal(t, uint32(0), res.Member.Offset)

	res = vs.ResolvePushConst(".eye")
	require.True(t, res.Found)
	require.Equal(t, uint32(64), res.Member.Offset)

	merged, err := vs.Merge(fs)
	require.NoError(t, err)
	pc, ok := merged.GetPushConst()
	require.True(t, ok)
	require.Len(t, pc.Members, 2)
}

// scenario 5: name collisions (spec.md 8, scenario 5).
func TestScenarioNameCollision(t *testing.T) {
	const (
		voidT   = 1
		fnT     = 2
		f32T    = 3
		structT = 4
		ptrT    = 5
		descA   = 10
		descB   = 11
		fn      = 20
	)

	words := module(1000,
		ins(spirv.OpTypeVoid, voidT),
		ins(spirv.OpTypeFunction, fnT, voidT),
		ins(spirv.OpTypeFloat, f32T, 32),
		ins(spirv.OpMemberDecorate, structT, 0, uint32(spirv.DecorationOffset), 0),
		ins(spirv.OpTypeStruct, structT, f32T),
		ins(spirv.OpTypePointer, ptrT, uint32(spirv.StorageClassUniform), structT),

		opName(descA, "foo"),
		opName(descB, "foo"),
		ins(spirv.OpDecorate, descA, uint32(spirv.DecorationDescriptorSet), 0),
		ins(spirv.OpDecorate, descA, uint32(spirv.DecorationBinding), 0),
		ins(spirv.OpDecorate, descB, uint32(spirv.DecorationDescriptorSet), 0),
		ins(spirv.OpDecorate, descB, uint32(spirv.DecorationBinding), 1),
		ins(spirv.OpVariable, ptrT, descA, uint32(spirv.StorageClassUniform)),
		ins(spirv.OpVariable, ptrT, descB, uint32(spirv.StorageClassUniform)),

		opEntryPoint(spirv.ExecutionModelFragment, fn, "main"),

		ins(spirv.OpFunction, voidT, fn, 0, fnT),
		ins(spirv.OpLoad, structT, 900, descA),
		ins(spirv.OpLoad, structT, 901, descB),
		ins(spirv.OpFunctionEnd),
	)

	eps, err := reflect.Reflect(words)
	require.NoError(t, err)

	// Reflection succeeds despite both descriptors sharing the name "foo";
	// whichever binding is visited first (resourceIDs iteration is
	// unordered) wins the name, matching scenario 5's "returns the first".
	m := eps[0].Manifest
	nameA, okA := m.GetDescName(manifest.DescriptorBinding{Set: 0, Binding: 0})
	nameB, okB := m.GetDescName(manifest.DescriptorBinding{Set: 0, Binding: 1})
	require.True(t, okA != okB, "exactly one binding should claim the name")
	if okA {
		require.Equal(t, "foo", nameA)
	} else {
		require.Equal(t, "foo", nameB)
	}

	otherM := manifest.New()
	require.NoError(t, otherM.SetName("foo", manifest.DescriptorLocator{Binding: manifest.DescriptorBinding{Set: 9, Binding: 9}}))
	_, err = m.Merge(otherM)
	require.Error(t, err)
}

// scenario 6: multibind sampler array (spec.md 8, scenario 6).
func TestScenarioMultibindSamplerArray(t *testing.T) {
	const (
		voidT = 1
		fnT   = 2
		f32T  = 3
		imgT  = 4
		sampledImgT = 5
		lenConstT = 6
		lenConst  = 7
		arrT  = 8
		ptrT  = 9
		texVar = 10
		fn    = 20
	)

	words := module(1000,
		ins(spirv.OpTypeVoid, voidT),
		ins(spirv.OpTypeFunction, fnT, voidT),
		ins(spirv.OpTypeFloat, f32T, 32),
		ins(spirv.OpTypeImage, imgT, f32T, uint32(spirv.Dim2D), 0, 0, 0, 1, 0),
		ins(spirv.OpTypeSampledImage, sampledImgT, imgT),

		ins(spirv.OpTypeInt, lenConstT, 32, 0),
		ins(spirv.OpConstant, lenConstT, lenConst, 8),
		ins(spirv.OpTypeArray, arrT, sampledImgT, lenConst),

		ins(spirv.OpTypePointer, ptrT, uint32(spirv.StorageClassUniformConstant), arrT),
		ins(spirv.OpDecorate, texVar, uint32(spirv.DecorationDescriptorSet), 0),
		ins(spirv.OpDecorate, texVar, uint32(spirv.DecorationBinding), 0),
		ins(spirv.OpVariable, ptrT, texVar, uint32(spirv.StorageClassUniformConstant)),

		opEntryPoint(spirv.ExecutionModelFragment, fn, "main"),

		ins(spirv.OpFunction, voidT, fn, 0, fnT),
		// OpImageSampleImplicitLod = 87: a read-only sample op, not worth its
		// own named constant in the opcode table (see spirv/enums.go).
		ins(spirv.OpCode(87), sampledImgT, 900, texVar, 901, 0),
		ins(spirv.OpFunctionEnd),
	)

	eps, err := reflect.Reflect(words)
	require.NoError(t, err)

	m := eps[0].Manifest
	require.Len(t, m.Descs(), 1)
	desc, ok := m.GetDesc(manifest.DescriptorBinding{Set: 0, Binding: 0})
	require.True(t, ok)
	_, ok = desc.(types.CombinedImageSampler)
	require.True(t, ok)
}
