package manifest

import "github.com/gogpu/spirq/types"

// InterfaceResolution is the result of resolving a symbol against a
// Manifest's input or output map.
type InterfaceResolution struct {
	Found    bool
	Location InterfaceLocation
	Type     types.Type
}

// MemberResolution is a successfully-descended offset/type pair inside a
// descriptor or push-constant's underlying struct.
type MemberResolution struct {
	Offset uint32
	Type   types.Type
}

// DescResolution is the result of resolving a symbol against a Manifest's
// descriptor map. Found is true whenever the descriptor-level binding itself
// resolves, even when Member is nil: spec.md 4.F calls this out explicitly
// ("partial resolution is a feature") for an empty remaining symbol or one
// whose trailing segments fail to match.
type DescResolution struct {
	Found   bool
	Binding DescriptorBinding
	Desc    types.DescriptorType
	Member  *MemberResolution
}

// PushConstResolution is the result of resolving a leading-empty-segment
// symbol against a Manifest's push-constant struct.
type PushConstResolution struct {
	Found  bool
	Member *MemberResolution
}

// ResolveInput resolves sym against the input map only (not the output
// map): spec.md 9 Open Question (i) calls out that the source this spec is
// distilled from crosses resolve_input/resolve_output against the wrong
// map; this implementation takes the explicit, non-crossed contract.
func (m *Manifest) ResolveInput(sym string) InterfaceResolution {
	return m.resolveInterface(sym, m.inputs, func(l ResourceLocator) (InterfaceLocation, bool) {
		il, ok := l.(InputLocator)
		return il.Location, ok
	})
}

// ResolveOutput resolves sym against the output map only.
func (m *Manifest) ResolveOutput(sym string) InterfaceResolution {
	return m.resolveInterface(sym, m.outputs, func(l ResourceLocator) (InterfaceLocation, bool) {
		ol, ok := l.(OutputLocator)
		return ol.Location, ok
	})
}

func (m *Manifest) resolveInterface(
	sym string,
	table map[InterfaceLocation]types.Type,
	asLocation func(ResourceLocator) (InterfaceLocation, bool),
) InterfaceResolution {
	segs := parseSymbol(sym)
	if len(segs) == 0 {
		return InterfaceResolution{}
	}

	var loc InterfaceLocation
	switch segs[0].kind {
	case segIndex:
		loc.Location = segs[0].index
		switch len(segs) {
		case 1:
			// component defaults to 0
		case 2:
			if segs[1].kind != segIndex {
				return InterfaceResolution{}
			}
			loc.Component = segs[1].index
		default:
			return InterfaceResolution{}
		}
	case segName:
		if len(segs) != 1 {
			return InterfaceResolution{}
		}
		locator, ok := m.names[segs[0].name]
		if !ok {
			return InterfaceResolution{}
		}
		resolved, ok := asLocation(locator)
		if !ok {
			return InterfaceResolution{}
		}
		loc = resolved
	default:
		return InterfaceResolution{}
	}

	t, ok := table[loc]
	if !ok {
		return InterfaceResolution{}
	}
	return InterfaceResolution{Found: true, Location: loc, Type: t}
}

// ResolveDesc resolves sym against the descriptor map: two leading integer
// segments address a DescriptorBinding directly, or a single name segment
// looks the binding up through the name index. Remaining segments descend
// into the descriptor's underlying struct.
func (m *Manifest) ResolveDesc(sym string) DescResolution {
	segs := parseSymbol(sym)
	if len(segs) == 0 {
		return DescResolution{}
	}

	var binding DescriptorBinding
	var rest []segment
	switch segs[0].kind {
	case segIndex:
		if len(segs) < 2 || segs[1].kind != segIndex {
			return DescResolution{}
		}
		binding = DescriptorBinding{Set: segs[0].index, Binding: segs[1].index}
		rest = segs[2:]
	case segName:
		locator, ok := m.names[segs[0].name]
		if !ok {
			return DescResolution{}
		}
		dl, ok := locator.(DescriptorLocator)
		if !ok {
			return DescResolution{}
		}
		binding = dl.Binding
		rest = segs[1:]
	default:
		return DescResolution{}
	}

	desc, ok := m.descs[binding]
	if !ok {
		return DescResolution{}
	}
	result := DescResolution{Found: true, Binding: binding, Desc: desc}
	if len(rest) == 0 {
		return result
	}

	base := descUnderlyingType(desc)
	if base == nil {
		return result
	}
	offset, t, ok := descend(base, rest, 0)
	if !ok {
		return result
	}
	result.Member = &MemberResolution{Offset: offset, Type: t}
	return result
}

// ResolvePushConst resolves a leading-empty-segment symbol against the
// push-constant struct, descending remaining segments the same way
// ResolveDesc does.
func (m *Manifest) ResolvePushConst(sym string) PushConstResolution {
	segs := parseSymbol(sym)
	if len(segs) == 0 || segs[0].kind != segEmpty {
		return PushConstResolution{}
	}
	if m.PushConst == nil {
		return PushConstResolution{}
	}
	result := PushConstResolution{Found: true}
	rest := segs[1:]
	if len(rest) == 0 {
		return result
	}
	offset, t, ok := descend(*m.PushConst, rest, 0)
	if !ok {
		return result
	}
	result.Member = &MemberResolution{Offset: offset, Type: t}
	return result
}

func descUnderlyingType(d types.DescriptorType) types.Type {
	switch dd := d.(type) {
	case types.UniformBuffer:
		return dd.Struct
	case types.StorageBuffer:
		return dd.Struct
	default:
		return nil
	}
}

// descend walks segs into t, accumulating the byte offset per spec.md 4.F:
// struct member adds the member's own offset; array element adds
// index*stride; matrix column adds index*stride. An out-of-range index, an
// unknown member name, or a segment kind that doesn't fit the current type
// fails resolution (false), not an error.
func descend(t types.Type, segs []segment, offset uint32) (uint32, types.Type, bool) {
	if len(segs) == 0 {
		return offset, t, true
	}
	seg := segs[0]

	switch tt := t.(type) {
	case types.Struct:
		switch seg.kind {
		case segIndex:
			if int(seg.index) >= len(tt.Members) {
				return 0, nil, false
			}
			mem := tt.Members[seg.index]
			return descend(mem.Type, segs[1:], offset+mem.Offset)
		case segName:
			for _, mem := range tt.Members {
				if mem.Name == seg.name {
					return descend(mem.Type, segs[1:], offset+mem.Offset)
				}
			}
			return 0, nil, false
		default:
			return 0, nil, false
		}
	case types.Array:
		if seg.kind != segIndex {
			return 0, nil, false
		}
		if !tt.Unsized && seg.index >= tt.Count {
			return 0, nil, false
		}
		return descend(tt.Elem, segs[1:], offset+seg.index*tt.Stride)
	case types.Matrix:
		if seg.kind != segIndex {
			return 0, nil, false
		}
		if seg.index >= tt.Columns {
			return 0, nil, false
		}
		return descend(tt.Column, segs[1:], offset+seg.index*tt.Stride)
	default:
		return 0, nil, false
	}
}
