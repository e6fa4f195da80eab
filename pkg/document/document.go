// Package document provides the JSON value model used throughout zwconf.
//
// Device configuration files are loosely typed JSON trees. A decoded value
// is one of:
//   - nil (JSON null)
//   - bool
//   - json.Number (numeric text preserved verbatim)
//   - string
//   - [Object] (JSON object, insertion order preserved)
//   - [Array] (JSON array)
//
// Standard library maps discard key order, which matters here: resolved
// artifacts are diffed and re-serialized, and reordering every key on each
// round trip would make the output unstable and the diffs unreadable.
// Object is therefore a slice of members rather than a map.
//
// The package also defines normalization ([Normalize]) and semantic
// equality ([Equal]): two values are semantically equal iff their
// normalized forms (object keys sorted, array order untouched) are deeply
// identical.
package document

// Member is a single key/value entry in an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object with insertion order preserved.
// Lookups are linear; device configurations are small (tens of keys).
type Object []Member

// Array is a JSON array.
type Array []any

// Get returns the value for key and whether it is present.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set replaces the value for key in place, preserving its position.
// If key is absent the member is appended.
func (o *Object) Set(key string, value any) {
	for i, m := range *o {
		if m.Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	for i, m := range *o {
		if m.Key == key {
			*o = append((*o)[:i], (*o)[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Len returns the number of members.
func (o Object) Len() int { return len(o) }

// Clone returns a shallow copy: the member slice is copied, values are
// shared. Mutating the copy's membership does not affect the original.
func (o Object) Clone() Object {
	c := make(Object, len(o))
	copy(c, o)
	return c
}
