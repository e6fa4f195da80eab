package diff

import (
	"reflect"
	"testing"

	"github.com/zwavetools/zwconf/pkg/document"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := document.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode(%q): %v", src, err)
	}
	return v
}

func kinds(entries []Entry) []Kind {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Kind, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

func TestCompareEqualDocuments(t *testing.T) {
	a := decode(t, `{"a": 1, "b": {"x": [1, 2]}}`)
	b := decode(t, `{"b": {"x": [1, 2]}, "a": 1}`)
	if entries := Compare(a, b); len(entries) != 0 {
		t.Errorf("Compare of reordered-but-equal documents = %v, want empty", entries)
	}
}

func TestCompareAddedRemoved(t *testing.T) {
	a := decode(t, `{"keep": 1, "gone": 2}`)
	b := decode(t, `{"keep": 1, "fresh": 3}`)

	entries := Compare(a, b)
	if len(entries) != 2 {
		t.Fatalf("Compare = %v, want 2 entries", entries)
	}
	if entries[0].Kind != KeyRemoved || entries[0].Path != "gone" {
		t.Errorf("entries[0] = %+v, want removed gone", entries[0])
	}
	if entries[1].Kind != KeyAdded || entries[1].Path != "fresh" {
		t.Errorf("entries[1] = %+v, want added fresh", entries[1])
	}
}

func TestCompareModifiedLeaf(t *testing.T) {
	a := decode(t, `{"cfg": {"timeout": 5}}`)
	b := decode(t, `{"cfg": {"timeout": 30}}`)

	entries := Compare(a, b)
	if len(entries) != 1 {
		t.Fatalf("Compare = %v, want 1 entry", entries)
	}
	e := entries[0]
	if e.Kind != ValueModified || e.Path != "cfg.timeout" {
		t.Errorf("entry = %+v", e)
	}
	if e.Old != "5" || e.New != "30" {
		t.Errorf("Old/New = %q/%q, want raw serializations", e.Old, e.New)
	}
}

func TestCompareArrays(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []Kind
	}{
		{
			name: "length and content",
			a:    `{"p": [1, 2]}`,
			b:    `{"p": [1, 2, 3]}`,
			want: []Kind{ArrayLengthChanged, ArrayContentChanged},
		},
		{
			name: "same length different content",
			a:    `{"p": [1, 2]}`,
			b:    `{"p": [2, 1]}`,
			want: []Kind{ArrayContentChanged},
		},
		{
			name: "equal arrays",
			a:    `{"p": [1, 2]}`,
			b:    `{"p": [1, 2]}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Compare(decode(t, tt.a), decode(t, tt.b)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareMismatchedTypes(t *testing.T) {
	a := decode(t, `{"v": {"a": 1}}`)
	b := decode(t, `{"v": [1]}`)

	entries := Compare(a, b)
	if len(entries) != 1 || entries[0].Kind != ValueModified || entries[0].Path != "v" {
		t.Errorf("Compare = %v, want single modified entry at v", entries)
	}
}

func TestCompareStableOrder(t *testing.T) {
	a := decode(t, `{"a": 1, "b": 2, "c": 3}`)
	b := decode(t, `{"a": 9, "c": 3, "d": 4}`)

	first := Compare(a, b)
	second := Compare(a, b)
	if !reflect.DeepEqual(first, second) {
		t.Error("Compare is not stable for identical inputs")
	}

	// Removals (old order), then additions (new order), then
	// modifications (old order).
	want := []Kind{KeyRemoved, KeyAdded, ValueModified}
	if !reflect.DeepEqual(kinds(first), want) {
		t.Errorf("kinds = %v, want %v", kinds(first), want)
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Kind: ArrayLengthChanged, Path: "paramInformation", OldLen: 4, NewLen: 5}
	want := "~ Array length at paramInformation: 4 -> 5"
	if e.String() != want {
		t.Errorf("String() = %q, want %q", e.String(), want)
	}
}
