// Package diff computes semantic differences between two document trees.
//
// The differ reports key additions and removals, modified leaf values,
// and coarse array changes. It deliberately does not diff arrays
// element-by-element: device parameter arrays are rewritten wholesale
// when a template changes, so per-element output would be noise. Two
// values count as equal when document.Equal says so, meaning object key
// order never produces a difference.
package diff

import (
	"fmt"

	"github.com/zwavetools/zwconf/pkg/document"
)

// Kind classifies one difference entry.
type Kind string

// Entry kinds.
const (
	KeyRemoved          Kind = "removed"
	KeyAdded            Kind = "added"
	ValueModified       Kind = "modified"
	ArrayLengthChanged  Kind = "array-length"
	ArrayContentChanged Kind = "array-content"
)

// Entry is a single reported difference at a dotted path.
type Entry struct {
	Kind Kind
	Path string

	// Old and New carry compact serializations of the raw
	// (non-normalized) values for ValueModified entries.
	Old string
	New string

	// OldLen and NewLen are set for ArrayLengthChanged entries.
	OldLen int
	NewLen int
}

// String renders the entry for line-oriented display.
func (e Entry) String() string {
	switch e.Kind {
	case KeyRemoved:
		return fmt.Sprintf("- Removed key: %s", e.Path)
	case KeyAdded:
		return fmt.Sprintf("+ Added key: %s", e.Path)
	case ValueModified:
		return fmt.Sprintf("~ Modified: %s (old: %s, new: %s)", e.Path, e.Old, e.New)
	case ArrayLengthChanged:
		return fmt.Sprintf("~ Array length at %s: %d -> %d", e.Path, e.OldLen, e.NewLen)
	case ArrayContentChanged:
		return fmt.Sprintf("~ Array content at %s", e.Path)
	default:
		return fmt.Sprintf("? %s", e.Path)
	}
}

// Compare reports the semantic differences between old and new as an
// ordered list. The order is discovery order (old's keys first, then
// new's additions, then modifications) and is stable for a given pair of
// inputs. An empty result means the trees are semantically equal.
func Compare(oldValue, newValue any) []Entry {
	return compare(oldValue, newValue, "")
}

func compare(oldValue, newValue any, path string) []Entry {
	var entries []Entry

	oldObj, oldIsObj := oldValue.(document.Object)
	newObj, newIsObj := newValue.(document.Object)
	oldArr, oldIsArr := oldValue.(document.Array)
	newArr, newIsArr := newValue.(document.Array)

	switch {
	case oldIsObj && newIsObj:
		for _, m := range oldObj {
			if !newObj.Has(m.Key) {
				entries = append(entries, Entry{Kind: KeyRemoved, Path: childPath(path, m.Key)})
			}
		}
		for _, m := range newObj {
			if !oldObj.Has(m.Key) {
				entries = append(entries, Entry{Kind: KeyAdded, Path: childPath(path, m.Key)})
			}
		}
		for _, m := range oldObj {
			newMember, ok := newObj.Get(m.Key)
			if !ok {
				continue
			}
			if document.Equal(m.Value, newMember) {
				continue
			}
			if isContainer(m.Value) && isContainer(newMember) {
				entries = append(entries, compare(m.Value, newMember, childPath(path, m.Key))...)
			} else {
				entries = append(entries, modified(childPath(path, m.Key), m.Value, newMember))
			}
		}

	case oldIsArr && newIsArr:
		if len(oldArr) != len(newArr) {
			entries = append(entries, Entry{
				Kind:   ArrayLengthChanged,
				Path:   path,
				OldLen: len(oldArr),
				NewLen: len(newArr),
			})
		}
		if !document.Equal(oldArr, newArr) {
			entries = append(entries, Entry{Kind: ArrayContentChanged, Path: path})
		}

	default:
		// Mismatched kinds (object vs array, container vs scalar):
		// conservative single modification at this path.
		if !document.Equal(oldValue, newValue) {
			entries = append(entries, modified(path, oldValue, newValue))
		}
	}

	return entries
}

// isContainer reports whether v is an object or array.
func isContainer(v any) bool {
	switch v.(type) {
	case document.Object, document.Array:
		return true
	}
	return false
}

// modified builds a ValueModified entry with raw values serialized.
func modified(path string, oldValue, newValue any) Entry {
	return Entry{
		Kind: ValueModified,
		Path: path,
		Old:  compact(oldValue),
		New:  compact(newValue),
	}
}

func compact(v any) string {
	data, err := document.EncodeCompact(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// childPath joins a parent path and key with a dot.
func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
