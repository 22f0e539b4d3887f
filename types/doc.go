// Package types models the structural type graph a SPIR-V module describes:
// scalars, vectors, matrices, arrays, structs, images, samplers, and the
// descriptor-resource kinds (uniform buffer, storage buffer, sampled image,
// and so on) built on top of them.
//
// Type and DescriptorType are closed tagged sums, the same way the teacher's
// ir.TypeInner is: an unexported marker method on an interface, with one
// concrete struct per variant. Resolution and sizing are exhaustive type
// switches over the variants; there is no dynamic dispatch.
package types
