package document

import "testing"

func mustDecode(t *testing.T, src string) any {
	t.Helper()
	v, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", src, err)
	}
	return v
}

func TestEqualIgnoresKeyOrder(t *testing.T) {
	a := mustDecode(t, `{"a": 1, "b": {"x": true, "y": false}}`)
	b := mustDecode(t, `{"b": {"y": false, "x": true}, "a": 1}`)
	if !Equal(a, b) {
		t.Error("Equal = false for reordered keys, want true")
	}
}

func TestEqualRespectsArrayOrder(t *testing.T) {
	a := mustDecode(t, `[1, 2]`)
	b := mustDecode(t, `[2, 1]`)
	if Equal(a, b) {
		t.Error("Equal = true for reordered array, want false")
	}
}

func TestEqualScalars(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same numbers", `1.5`, `1.5`, true},
		{"different numbers", `1`, `2`, false},
		{"same strings", `"x"`, `"x"`, true},
		{"null vs false", `null`, `false`, false},
		{"nested mixed", `{"p": [{"a": 1, "b": 2}]}`, `{"p": [{"b": 2, "a": 1}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Equal(mustDecode(t, tt.a), mustDecode(t, tt.b))
			if got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	obj := mustDecode(t, `{"b": 1, "a": 2}`).(Object)
	_ = Normalize(obj)
	if obj[0].Key != "b" {
		t.Errorf("Normalize mutated input, first key = %q", obj[0].Key)
	}
}
