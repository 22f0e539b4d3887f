package reflect

import (
	"github.com/gogpu/spirq/spirv"
	"github.com/gogpu/spirq/types"
)

// function is one OpFunction..OpFunctionEnd body's instructions, keyed by
// the function's own result id.
type function struct {
	ID    uint32
	Instr []spirv.Instruction
}

// splitFunctions partitions the instruction stream into per-function
// bodies, keyed by the OpFunction result id. Instructions outside any
// function are dropped, since they are irrelevant to the call graph.
func splitFunctions(instrs []spirv.Instruction) map[uint32]function {
	funcs := map[uint32]function{}
	var current *function
	for _, instr := range instrs {
		switch instr.Op {
		case spirv.OpFunction:
			v := spirv.DecodeOpFunction(instr.Operands)
			f := function{ID: v.Result}
			funcs[v.Result] = f
			current = &f
		case spirv.OpFunctionEnd:
			if current != nil {
				funcs[current.ID] = *current
				current = nil
			}
		default:
			if current != nil {
				current.Instr = append(current.Instr, instr)
			}
		}
	}
	return funcs
}

// reachableFunctions runs a DFS from seed over OpFunctionCall edges,
// mirroring the visited-set call-graph walk the teacher's validator uses
// for cycle detection (_examples/gogpu-naga/ir/validate.go), reused here
// for reachability rather than cycle rejection.
func reachableFunctions(funcs map[uint32]function, seed uint32) []function {
	visited := map[uint32]bool{}
	var order []uint32
	var visit func(id uint32)
	visit = func(id uint32) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		f, ok := funcs[id]
		if !ok {
			return
		}
		for _, instr := range f.Instr {
			if instr.Op == spirv.OpFunctionCall {
				call := spirv.DecodeOpFunctionCall(instr.Operands)
				visit(call.Function)
			}
		}
	}
	visit(seed)

	out := make([]function, 0, len(order))
	for _, id := range order {
		if f, ok := funcs[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// accessWalk accumulates per-variable access flags by scanning the reached
// functions' instructions, forwarding OpAccessChain's base id through its
// result id so loads/stores on the chain result attribute to the root
// variable (spec.md 4.E step 2). OpLoad results are forwarded the same way,
// so image ops on a loaded image handle attribute to its variable.
type accessWalk struct {
	touched   map[uint32]types.AccessType
	chainBase map[uint32]uint32 // access-chain or load result id -> root variable id
}

func newAccessWalk() *accessWalk {
	return &accessWalk{
		touched:   map[uint32]types.AccessType{},
		chainBase: map[uint32]uint32{},
	}
}

// resolveBase follows chain-of-access-chain results back to the root
// variable id, or returns id unchanged if it isn't a chain result.
func (w *accessWalk) resolveBase(id uint32) uint32 {
	for {
		base, ok := w.chainBase[id]
		if !ok {
			return id
		}
		id = base
	}
}

func (w *accessWalk) mark(id uint32, access types.AccessType) {
	root := w.resolveBase(id)
	w.touched[root] = w.touched[root].Combine(access)
}

// walk scans fns' instructions and records the access each touched
// variable receives.
func (w *accessWalk) walk(fns []function) {
	for _, f := range fns {
		for _, instr := range f.Instr {
			switch {
			case instr.Op == spirv.OpLoad:
				v := spirv.DecodeOpLoad(instr.Operands)
				w.mark(v.Pointer, types.Read)
				w.chainBase[v.Result] = w.resolveBase(v.Pointer)
			case instr.Op == spirv.OpStore:
				v := spirv.DecodeOpStore(instr.Operands)
				w.mark(v.Pointer, types.Write)
			case instr.Op == spirv.OpAccessChain || instr.Op == spirv.OpInBoundsAccessChain:
				v := spirv.DecodeOpAccessChain(instr.Operands)
				w.chainBase[v.Result] = w.resolveBase(v.Base)
			case instr.Op == spirv.OpImageWrite:
				io := spirv.DecodeImageOperand(instr.Op, instr.Operands)
				w.mark(io.Image, types.Write)
			case spirv.IsImageSample(instr.Op):
				io := spirv.DecodeImageOperand(instr.Op, instr.Operands)
				w.mark(io.Image, types.Read)
			case instr.Op == spirv.OpAtomicLoad:
				if len(instr.Operands) >= 3 {
					w.mark(instr.Operands[2], types.Read)
				}
			case instr.Op == spirv.OpAtomicStore:
				if len(instr.Operands) >= 1 {
					w.mark(instr.Operands[0], types.Write)
				}
			case spirv.IsAtomic(instr.Op):
				// Atomic operand layout: ResultType, Result, Pointer, ... —
				// identical prefix to OpLoad for the pointer operand.
				if len(instr.Operands) >= 3 {
					w.mark(instr.Operands[2], types.ReadWrite)
				}
			}
		}
	}
}

// capAccess applies NonReadable/NonWritable decorations: they cap the
// recorded access, never add to it (spec.md 4.E step 4).
func capAccess(access types.AccessType, decs decorationSet) types.AccessType {
	if decs.has(spirv.DecorationNonWritable) {
		access &^= types.Write
	}
	if decs.has(spirv.DecorationNonReadable) {
		access &^= types.Read
	}
	return access
}
