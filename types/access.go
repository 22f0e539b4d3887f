package types

// AccessType is a 2-bit read/write flag set on a descriptor resource,
// derived from shader-body usage and capped by NonReadable/NonWritable
// decorations. It forms a semilattice under bitwise OR: combining two
// observed access patterns (e.g. across merged pipeline stages) never loses
// a bit either side already set.
type AccessType uint8

const (
	// Read indicates the resource was loaded from.
	Read AccessType = 1 << iota
	// Write indicates the resource was stored to.
	Write
)

const (
	ReadOnly  = Read
	WriteOnly = Write
	ReadWrite = Read | Write
)

// Valid reports whether a is one of the three well-formed nonzero values.
// Zero is never a valid stored access pattern (spec.md 8: "no binding is
// ever recorded with access 0").
func (a AccessType) Valid() bool {
	return a == ReadOnly || a == WriteOnly || a == ReadWrite
}

// Combine ORs two access patterns together, the operation both the
// reflector's read/write accumulation and Manifest merge use.
func (a AccessType) Combine(other AccessType) AccessType {
	return a | other
}

func (a AccessType) String() string {
	switch a {
	case ReadOnly:
		return "ReadOnly"
	case WriteOnly:
		return "WriteOnly"
	case ReadWrite:
		return "ReadWrite"
	default:
		return "None"
	}
}
