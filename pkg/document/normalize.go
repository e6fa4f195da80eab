package document

import (
	"reflect"
	"sort"
)

// Normalize returns a canonical form of v for comparison: object keys are
// sorted lexicographically at every level, array element order is kept
// (arrays are ordered data, objects are not), scalars pass through.
// The input is never mutated.
func Normalize(v any) any {
	switch t := v.(type) {
	case Object:
		n := t.Clone()
		sort.SliceStable(n, func(i, j int) bool { return n[i].Key < n[j].Key })
		for i, m := range n {
			n[i].Value = Normalize(m.Value)
		}
		return n
	case Array:
		n := make(Array, len(t))
		for i, e := range t {
			n[i] = Normalize(e)
		}
		return n
	default:
		return v
	}
}

// Equal reports whether a and b are semantically equal: identical after
// normalization. Key order never matters, array order always does.
func Equal(a, b any) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}
