// Package manifest holds the per-entry-point resource record the reflect
// package builds, its cross-stage merge semantics, and the symbol grammar
// used to address a resource or one of its fields by a dotted path. It is
// grounded on _examples/original_source/src/lib.rs's Manifest/merge* family,
// with the two corrections noted in the accompanying design ledger: resolve
// helpers stay within their own map (the source crosses them), and push
// constant merge requires hash equality on overlapping members (the source
// does not check it).
package manifest

import (
	"sort"

	"github.com/gogpu/spirq/spirverr"
	"github.com/gogpu/spirq/types"
)

// InterfaceLocation addresses a pipeline-stage input or output variable.
// Two inputs sharing a Location but differing in Component are distinct
// entries: the struct's field-wise equality already gives this for free.
type InterfaceLocation struct {
	Location  uint32
	Component uint32
}

// DescriptorBinding addresses a descriptor-kind resource.
type DescriptorBinding struct {
	Set     uint32
	Binding uint32
}

// ResourceLocator is the reverse index from a name to the resource it names:
// exactly one of InputLocator, OutputLocator, DescriptorLocator.
type ResourceLocator interface {
	isResourceLocator()
}

type InputLocator struct{ Location InterfaceLocation }

func (InputLocator) isResourceLocator() {}

type OutputLocator struct{ Location InterfaceLocation }

func (OutputLocator) isResourceLocator() {}

type DescriptorLocator struct{ Binding DescriptorBinding }

func (DescriptorLocator) isResourceLocator() {}

// Manifest is one entry point's typed resource record: inputs, outputs,
// an optional push-constant block, descriptor bindings, their observed
// access patterns, and the name→locator reverse index.
type Manifest struct {
	PushConst *types.Struct

	inputs  map[InterfaceLocation]types.Type
	outputs map[InterfaceLocation]types.Type
	descs   map[DescriptorBinding]types.DescriptorType
	access  map[DescriptorBinding]types.AccessType
	names   map[string]ResourceLocator
}

// New returns an empty Manifest ready for a reflector to populate.
func New() *Manifest {
	return &Manifest{
		inputs:  map[InterfaceLocation]types.Type{},
		outputs: map[InterfaceLocation]types.Type{},
		descs:   map[DescriptorBinding]types.DescriptorType{},
		access:  map[DescriptorBinding]types.AccessType{},
		names:   map[string]ResourceLocator{},
	}
}

// SetInput records an input interface variable. Callers (the reflect
// package) are expected to call this at most once per location.
func (m *Manifest) SetInput(loc InterfaceLocation, t types.Type) { m.inputs[loc] = t }

// SetOutput records an output interface variable.
func (m *Manifest) SetOutput(loc InterfaceLocation, t types.Type) { m.outputs[loc] = t }

// SetDesc records a descriptor binding and its observed access pattern. An
// access of 0 (declared but never touched, or fully capped by NonReadable+
// NonWritable) is never recorded in the access map — spec.md 8 forbids a
// binding with access 0 — but the binding itself, its type, and any name
// still stand: GetDesc/Descs still see it, only GetDescAccess reports absent.
func (m *Manifest) SetDesc(bind DescriptorBinding, d types.DescriptorType, access types.AccessType) {
	m.descs[bind] = d
	if access != 0 {
		m.access[bind] = access
	}
}

// SetName registers name as the reverse lookup for locator. A second
// registration of the same name against a different locator within one
// stage is a *spirverr.Error of Kind Mismatched (spec.md 4.E step 5).
func (m *Manifest) SetName(name string, locator ResourceLocator) error {
	if existing, ok := m.names[name]; ok && existing != locator {
		return spirverr.Mismatchedf("name %q is already bound to a different resource in this stage", name)
	}
	m.names[name] = locator
	return nil
}

// GetPushConst returns the push-constant struct, if the entry point declares one.
func (m *Manifest) GetPushConst() (types.Struct, bool) {
	if m.PushConst == nil {
		return types.Struct{}, false
	}
	return *m.PushConst, true
}

func (m *Manifest) GetInput(loc InterfaceLocation) (types.Type, bool) {
	t, ok := m.inputs[loc]
	return t, ok
}

func (m *Manifest) GetOutput(loc InterfaceLocation) (types.Type, bool) {
	t, ok := m.outputs[loc]
	return t, ok
}

func (m *Manifest) GetDesc(bind DescriptorBinding) (types.DescriptorType, bool) {
	d, ok := m.descs[bind]
	return d, ok
}

func (m *Manifest) GetDescAccess(bind DescriptorBinding) (types.AccessType, bool) {
	a, ok := m.access[bind]
	return a, ok
}

func (m *Manifest) GetInputName(loc InterfaceLocation) (string, bool) {
	for name, locator := range m.names {
		if il, ok := locator.(InputLocator); ok && il.Location == loc {
			return name, true
		}
	}
	return "", false
}

func (m *Manifest) GetOutputName(loc InterfaceLocation) (string, bool) {
	for name, locator := range m.names {
		if ol, ok := locator.(OutputLocator); ok && ol.Location == loc {
			return name, true
		}
	}
	return "", false
}

func (m *Manifest) GetDescName(bind DescriptorBinding) (string, bool) {
	for name, locator := range m.names {
		if dl, ok := locator.(DescriptorLocator); ok && dl.Binding == bind {
			return name, true
		}
	}
	return "", false
}

// InputEntry is one (location, type) pair yielded by Inputs.
type InputEntry struct {
	Location InterfaceLocation
	Type     types.Type
}

// Inputs returns every input entry, ordered by (location, component) for
// deterministic iteration.
func (m *Manifest) Inputs() []InputEntry {
	out := make([]InputEntry, 0, len(m.inputs))
	for loc, t := range m.inputs {
		out = append(out, InputEntry{Location: loc, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return lessLocation(out[i].Location, out[j].Location) })
	return out
}

// OutputEntry is one (location, type) pair yielded by Outputs.
type OutputEntry struct {
	Location InterfaceLocation
	Type     types.Type
}

func (m *Manifest) Outputs() []OutputEntry {
	out := make([]OutputEntry, 0, len(m.outputs))
	for loc, t := range m.outputs {
		out = append(out, OutputEntry{Location: loc, Type: t})
	}
	sort.Slice(out, func(i, j int) bool { return lessLocation(out[i].Location, out[j].Location) })
	return out
}

// DescEntry is one (binding, type, access) triple yielded by Descs.
type DescEntry struct {
	Binding DescriptorBinding
	Type    types.DescriptorType
	Access  types.AccessType
}

func (m *Manifest) Descs() []DescEntry {
	out := make([]DescEntry, 0, len(m.descs))
	for bind, d := range m.descs {
		out = append(out, DescEntry{Binding: bind, Type: d, Access: m.access[bind]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Binding.Set != out[j].Binding.Set {
			return out[i].Binding.Set < out[j].Binding.Set
		}
		return out[i].Binding.Binding < out[j].Binding.Binding
	})
	return out
}

func lessLocation(a, b InterfaceLocation) bool {
	if a.Location != b.Location {
		return a.Location < b.Location
	}
	return a.Component < b.Component
}

// Merge combines m (the earlier pipeline stage) with other (the later
// stage) into a new Manifest, per spec.md 4.F:
//   - outputs: replaced by other's (downstream stage wins);
//   - inputs: kept from m;
//   - push constants: member-wise union, requiring hash-equal types on any
//     offset both sides declare;
//   - descriptors: union, requiring hash-equal DescriptorType on collision;
//   - names: union, requiring an identical locator on collision;
//   - access: bitwise OR per binding.
//
// Merge never mutates m or other; on error the returned Manifest is nil and
// neither argument is affected.
func (m *Manifest) Merge(other *Manifest) (*Manifest, error) {
	result := New()

	for loc, t := range m.inputs {
		result.inputs[loc] = t
	}
	for loc, t := range other.outputs {
		result.outputs[loc] = t
	}

	pc, err := mergePushConst(m.PushConst, other.PushConst)
	if err != nil {
		return nil, err
	}
	result.PushConst = pc

	if err := mergeDescs(result, m, other); err != nil {
		return nil, err
	}
	if err := mergeNames(result, m, other); err != nil {
		return nil, err
	}
	mergeAccess(result, m, other)

	return result, nil
}

func mergePushConst(a, b *types.Struct) (*types.Struct, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}

	byOffset := map[uint32]types.StructMember{}
	for _, mem := range a.Members {
		byOffset[mem.Offset] = mem
	}
	for _, mem := range b.Members {
		existing, ok := byOffset[mem.Offset]
		if ok {
			if types.Hash(existing.Type) != types.Hash(mem.Type) {
				return nil, spirverr.Mismatchedf("push constant member at offset %d has conflicting types across stages", mem.Offset)
			}
			continue
		}
		byOffset[mem.Offset] = mem
	}

	offsets := make([]uint32, 0, len(byOffset))
	for off := range byOffset {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	merged := &types.Struct{Name: a.Name}
	for _, off := range offsets {
		merged.Members = append(merged.Members, byOffset[off])
	}
	return merged, nil
}

func mergeDescs(result, a, b *Manifest) error {
	for bind, d := range a.descs {
		result.descs[bind] = d
	}
	for bind, d := range b.descs {
		if existing, ok := result.descs[bind]; ok && types.HashDescriptor(existing) != types.HashDescriptor(d) {
			return spirverr.Mismatchedf("descriptor binding (%d,%d) has conflicting types across stages", bind.Set, bind.Binding)
		}
		result.descs[bind] = d
	}
	return nil
}

func mergeNames(result, a, b *Manifest) error {
	for name, locator := range a.names {
		result.names[name] = locator
	}
	for name, locator := range b.names {
		if existing, ok := result.names[name]; ok && existing != locator {
			return spirverr.Mismatchedf("name %q resolves to different resources across merged stages", name)
		}
		result.names[name] = locator
	}
	return nil
}

func mergeAccess(result, a, b *Manifest) {
	for bind, acc := range a.access {
		result.access[bind] = acc
	}
	for bind, acc := range b.access {
		result.access[bind] = result.access[bind].Combine(acc)
	}
}
