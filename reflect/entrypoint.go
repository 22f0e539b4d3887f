package reflect

import (
	"github.com/gogpu/spirq/manifest"
	"github.com/gogpu/spirq/spirv"
	"github.com/gogpu/spirq/spirverr"
	"github.com/gogpu/spirq/types"
)

// EntryPoint is one OpEntryPoint's reflected result: the pipeline stage it
// targets, its declared name, and the Manifest of resources it uses.
type EntryPoint struct {
	Model    spirv.ExecutionModel
	Name     string
	Manifest *manifest.Manifest
}

// Reflect decodes words as a SPIR-V module and reflects every declared
// entry point in module order, per spec.md 4.E/6. It fails all-or-nothing:
// on any error no EntryPoint is returned (spec.md 7 propagation rule).
func Reflect(words []uint32) ([]EntryPoint, error) {
	_, instrs, err := spirv.Decode(words)
	if err != nil {
		return nil, err
	}

	tt, err := buildTypeTable(instrs)
	if err != nil {
		return nil, err
	}
	vars, err := buildVarTable(instrs, tt)
	if err != nil {
		return nil, err
	}
	funcs := splitFunctions(instrs)

	var entryPoints []EntryPoint
	for _, instr := range instrs {
		if instr.Op != spirv.OpEntryPoint {
			continue
		}
		v := spirv.DecodeOpEntryPoint(instr.Operands)

		ep, err := reflectEntryPoint(v, tt, vars, funcs)
		if err != nil {
			return nil, err
		}
		entryPoints = append(entryPoints, ep)
	}
	return entryPoints, nil
}

func reflectEntryPoint(
	v spirv.OpEntryPointView,
	tt *typeTable,
	vars map[uint32]variable,
	funcs map[uint32]function,
) (EntryPoint, error) {
	reached := reachableFunctions(funcs, v.Function)
	walk := newAccessWalk()
	walk.walk(reached)

	resourceIDs := map[uint32]bool{}
	for id := range walk.touched {
		resourceIDs[id] = true
	}
	for _, id := range v.Interface {
		resourceIDs[id] = true
	}

	m := manifest.New()

	for id := range resourceIDs {
		if isBuiltIn(tt, id) {
			continue
		}
		vr, ok := vars[id]
		if !ok {
			continue
		}
		name, hasName := tt.names[id]

		switch {
		case isInterfaceClass(vr.StorageClass):
			decs := tt.decorationsFor(id)
			loc, _ := decs.uint32Of(spirv.DecorationLocation)
			comp, _ := decs.uint32Of(spirv.DecorationComponent)
			il := manifest.InterfaceLocation{Location: loc, Component: comp}

			if vr.StorageClass == spirv.StorageClassInput {
				m.SetInput(il, vr.Pointee)
				if hasName {
					// First registration wins silently on a same-stage name
					// collision (spec.md 8 scenario 5: two resources
					// sharing an OpName "reflection succeeds but
					// get_desc_name returns the first") — a looser rule
					// than 4.E step 5's prose, which the worked scenario
					// overrides; see DESIGN.md.
					_ = m.SetName(name, manifest.InputLocator{Location: il})
				}
			} else {
				m.SetOutput(il, vr.Pointee)
				if hasName {
					_ = m.SetName(name, manifest.OutputLocator{Location: il})
				}
			}

		case vr.StorageClass == spirv.StorageClassPushConstant:
			s, ok := vr.Pointee.(types.Struct)
			if !ok {
				return EntryPoint{}, spirverr.Corruptedf("push constant variable %d does not point to a struct", id)
			}
			m.PushConst = &s

		case isDescriptorClass(vr.StorageClass):
			decs := tt.decorationsFor(id)
			set, _ := decs.uint32Of(spirv.DecorationDescriptorSet)
			binding, _ := decs.uint32Of(spirv.DecorationBinding)
			bind := manifest.DescriptorBinding{Set: set, Binding: binding}

			descType, err := descriptorTypeOf(tt, vr.StorageClass, vr.PointeeTypeID, vr.Pointee)
			if err != nil {
				return EntryPoint{}, err
			}
			if si, ok := descType.(types.SubpassInput); ok {
				si.InputAttachmentIndex, _ = decs.uint32Of(spirv.DecorationInputAttachmentIndex)
				descType = si
			}

			// Declared but never loaded/stored in a reachable body (or fully
			// capped by NonReadable+NonWritable) still gets its binding,
			// type, and name recorded: SetDesc itself omits only the access
			// entry when access is 0, per spec.md 8's "no binding recorded
			// with access 0".
			access := capAccess(walk.touched[id], decs)
			m.SetDesc(bind, descType, access)
			if hasName {
				_ = m.SetName(name, manifest.DescriptorLocator{Binding: bind})
			}
		}
	}

	return EntryPoint{Model: v.Model, Name: v.Name, Manifest: m}, nil
}
