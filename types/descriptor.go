package types

// DescriptorType classifies a descriptor-kind resource bound at a
// (set, binding) pair. It is a closed sum like Type; each variant carries
// the underlying Type needed to resolve member accesses into it.
type DescriptorType interface {
	isDescriptorType()
}

// UniformBuffer is a `uniform` block: a Struct, read-only from the shader's
// perspective.
type UniformBuffer struct {
	Struct Struct
}

func (UniformBuffer) isDescriptorType() {}

// StorageBuffer is a `buffer` block: a Struct, possibly with a trailing
// unsized array member, readable and/or writable depending on observed
// shader-body access and NonReadable/NonWritable decorations.
type StorageBuffer struct {
	Struct Struct
}

func (StorageBuffer) isDescriptorType() {}

// SampledImageDescriptor is a standalone sampled-image (texture) resource,
// i.e. declared with a `UniformConstant` OpTypeImage whose Sampled field
// marks it as sampled rather than combined with a sampler.
type SampledImageDescriptor struct {
	Image Image
}

func (SampledImageDescriptor) isDescriptorType() {}

// StorageImageDescriptor is a read/write image resource (GLSL's `image2D`
// and friends).
type StorageImageDescriptor struct {
	Image Image
}

func (StorageImageDescriptor) isDescriptorType() {}

// SamplerDescriptor is a standalone sampler resource (GLSL's `sampler`,
// used with a separately-bound texture).
type SamplerDescriptor struct{}

func (SamplerDescriptor) isDescriptorType() {}

// CombinedImageSampler is an image bundled with its own sampler (GLSL's
// `sampler2D` and friends), SPIR-V's OpTypeSampledImage used as a
// descriptor rather than an intermediate value.
type CombinedImageSampler struct {
	Image Image
}

func (CombinedImageSampler) isDescriptorType() {}

// SubpassInput is a fragment-shader input attachment read via SPIR-V's
// Dim = SubpassData image kind (GLSL's `subpassInput`). InputAttachmentIndex
// is the attachment index carried by the InputAttachmentIndex decoration.
type SubpassInput struct {
	Multisampled         bool
	InputAttachmentIndex uint32
}

func (SubpassInput) isDescriptorType() {}
