package manifest

import (
	"strconv"
	"strings"
)

// segKind distinguishes the three segment shapes the symbol grammar allows.
type segKind uint8

const (
	segIndex segKind = iota
	segName
	segEmpty // only valid as the leading segment: marks a push-constant path
)

type segment struct {
	kind  segKind
	index uint32
	name  string
}

// parseSymbol splits a dotted symbol into segments. A segment parses as an
// integer index when it consists entirely of decimal digits, as empty when
// the text between two dots (or before the first dot) is empty, and as a
// name segment otherwise. Examples from spec.md 4.F: "1", "aTexCoord",
// "0.1", "light.0", "1.0.bones.4", ".modelview".
func parseSymbol(sym string) []segment {
	parts := strings.Split(sym, ".")
	segs := make([]segment, len(parts))
	for i, p := range parts {
		switch {
		case p == "":
			segs[i] = segment{kind: segEmpty}
		default:
			if n, err := strconv.ParseUint(p, 10, 32); err == nil {
				segs[i] = segment{kind: segIndex, index: uint32(n)}
			} else {
				segs[i] = segment{kind: segName, name: p}
			}
		}
	}
	return segs
}
