package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/errors"
	"github.com/zwavetools/zwconf/pkg/jsontext"
)

// writeFile creates rel (with parents) under dir.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// resolveFixture loads rel from dir and resolves it with dir as base.
func resolveFixture(t *testing.T, dir, rel string) (any, *Resolver, error) {
	t.Helper()
	path := filepath.Join(dir, rel)
	doc, err := jsontext.ReadFile(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", rel, err)
	}
	r := New(dir)
	resolved, err := r.Resolve(doc, path)
	return resolved, r, err
}

func TestResolveNoImportsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0x027a/plain.json", `{"label": "ZEN77", "params": [1, 2, {"a": null}], "ok": true}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/plain.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	original, _ := jsontext.ReadFile(filepath.Join(dir, "0x027a/plain.json"))
	if !document.Equal(resolved, original) {
		t.Errorf("document without imports changed during resolution")
	}
}

func TestResolveOverridePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates/base.json", `{"t": {"a": 1, "b": 2}}`)
	writeFile(t, dir, "0x027a/dev.json", `{"merged": {"$import": "~/templates/base.json#t", "b": 99}}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	want, _ := document.Decode([]byte(`{"merged": {"a": 1, "b": 99}}`))
	if !document.Equal(resolved, want) {
		got, _ := document.EncodeCompact(resolved)
		t.Errorf("resolved = %s, want {\"merged\":{\"a\":1,\"b\":99}}", got)
	}
}

func TestResolveTransitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates/inner.json", `{"leaf": {"value": 42}}`)
	// Nested import inside a template resolves relative to the
	// template's own directory.
	writeFile(t, dir, "templates/outer.json", `{"mid": {"wrapped": {"$import": "inner.json#leaf"}}}`)
	writeFile(t, dir, "0x027a/dev.json", `{"top": {"$import": "~/templates/outer.json#mid"}}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	want, _ := document.Decode([]byte(`{"top": {"wrapped": {"value": 42}}}`))
	if !document.Equal(resolved, want) {
		got, _ := document.EncodeCompact(resolved)
		t.Errorf("resolved = %s", got)
	}

	if hasImportKey(resolved) {
		t.Error("$import key survived full resolution")
	}
}

// hasImportKey walks the tree looking for any surviving $import key.
func hasImportKey(v any) bool {
	switch t := v.(type) {
	case document.Object:
		if t.Has(ImportKey) {
			return true
		}
		for _, m := range t {
			if hasImportKey(m.Value) {
				return true
			}
		}
	case document.Array:
		for _, e := range t {
			if hasImportKey(e) {
				return true
			}
		}
	}
	return false
}

func TestResolveSelfReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0x027a/dev.json", `{
		"shared": {"unit": "seconds"},
		"param": {"$import": "#shared", "default": 5}
	}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	obj := resolved.(document.Object)
	param, _ := obj.Get("param")
	want, _ := document.Decode([]byte(`{"unit": "seconds", "default": 5}`))
	if !document.Equal(param, want) {
		got, _ := document.EncodeCompact(param)
		t.Errorf("param = %s", got)
	}
}

func TestResolveSelfReferenceInsideTemplate(t *testing.T) {
	// An empty-path import inside a template file must read from the
	// template file itself, not from the device file that imported it,
	// no matter the recursion depth.
	dir := t.TempDir()
	writeFile(t, dir, "templates/t.json", `{
		"own": {"source": "template"},
		"entry": {"$import": "#own"}
	}`)
	writeFile(t, dir, "0x027a/dev.json", `{
		"own": {"source": "device"},
		"v": {"$import": "~/templates/t.json#entry"}
	}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	obj := resolved.(document.Object)
	v, _ := obj.Get("v")
	want, _ := document.Decode([]byte(`{"source": "template"}`))
	if !document.Equal(v, want) {
		got, _ := document.EncodeCompact(v)
		t.Errorf("v = %s, self-reference resolved against the wrong file", got)
	}
}

func TestResolveNonObjectTemplateValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates/base.json", `{"unit": "seconds"}`)
	writeFile(t, dir, "0x027a/dev.json", `{"u": {"$import": "~/templates/base.json#unit"}}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	obj := resolved.(document.Object)
	if u, _ := obj.Get("u"); u != "seconds" {
		t.Errorf("u = %v, want the bare template string", u)
	}
}

func TestResolveMergeConflict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates/base.json", `{"unit": "seconds"}`)
	writeFile(t, dir, "0x027a/dev.json", `{"u": {"$import": "~/templates/base.json#unit", "extra": 1}}`)

	_, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if !errors.Is(err, errors.ErrCodeMergeConflict) {
		t.Fatalf("err = %v, want MERGE_CONFLICT", err)
	}
}

func TestResolveErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		device string
		code   errors.Code
	}{
		{
			name:   "missing separator",
			device: `{"v": {"$import": "templates/base.json"}}`,
			code:   errors.ErrCodeImportSyntax,
		},
		{
			name:   "missing template file",
			device: `{"v": {"$import": "~/templates/nope.json#t"}}`,
			code:   errors.ErrCodeTemplateNotFound,
		},
		{
			name:   "missing key",
			device: `{"v": {"$import": "~/templates/base.json#absent"}}`,
			code:   errors.ErrCodeKeyNotFound,
		},
		{
			name:   "non-string import value",
			device: `{"v": {"$import": 7}}`,
			code:   errors.ErrCodeImportSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "templates/base.json", `{"t": {"a": 1}}`)
			writeFile(t, dir, "0x027a/dev.json", tt.device)

			_, _, err := resolveFixture(t, dir, "0x027a/dev.json")
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestResolveCyclicImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates/a.json", `{"x": {"$import": "b.json#y"}}`)
	writeFile(t, dir, "templates/b.json", `{"y": {"$import": "a.json#x"}}`)
	writeFile(t, dir, "0x027a/dev.json", `{"v": {"$import": "~/templates/a.json#x"}}`)

	_, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if !errors.Is(err, errors.ErrCodeCyclicImport) {
		t.Fatalf("err = %v, want CYCLIC_IMPORT", err)
	}
}

func TestResolveSelfCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0x027a/dev.json", `{"a": {"$import": "#a"}}`)

	_, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if !errors.Is(err, errors.ErrCodeCyclicImport) {
		t.Fatalf("err = %v, want CYCLIC_IMPORT", err)
	}
}

func TestResolveRepeatedImportIsNotACycle(t *testing.T) {
	// Importing the same (file, key) pair twice sequentially is legal;
	// only revisiting a pair still being expanded is a cycle.
	dir := t.TempDir()
	writeFile(t, dir, "templates/base.json", `{"t": {"a": 1}}`)
	writeFile(t, dir, "0x027a/dev.json", `{
		"first": {"$import": "~/templates/base.json#t"},
		"second": {"$import": "~/templates/base.json#t"}
	}`)

	_, r, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if r.Cache().Loads() != 1 {
		t.Errorf("template file loaded %d times, want 1", r.Cache().Loads())
	}
	if r.Cache().Hits() != 1 {
		t.Errorf("cache hits = %d, want 1", r.Cache().Hits())
	}
}

func TestResolveArrayElements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "templates/base.json", `{"p": {"size": 1}}`)
	writeFile(t, dir, "0x027a/dev.json", `{
		"paramInformation": [
			{"$import": "~/templates/base.json#p", "num": 1},
			{"$import": "~/templates/base.json#p", "num": 2},
			{"num": 3}
		]
	}`)

	resolved, _, err := resolveFixture(t, dir, "0x027a/dev.json")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	want, _ := document.Decode([]byte(`{
		"paramInformation": [
			{"size": 1, "num": 1},
			{"size": 1, "num": 2},
			{"num": 3}
		]
	}`))
	if !document.Equal(resolved, want) {
		got, _ := document.EncodeCompact(resolved)
		t.Errorf("resolved = %s", got)
	}
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		in      string
		path    string
		key     string
		wantErr bool
	}{
		{in: "~/templates/master.json#partial", path: "~/templates/master.json", key: "partial"},
		{in: "#local", path: "", key: "local"},
		{in: "sibling.json#k", path: "sibling.json", key: "k"},
		{in: "no-separator", wantErr: true},
	}
	for _, tt := range tests {
		ref, err := ParseReference(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeImportSyntax) {
				t.Errorf("ParseReference(%q) err = %v, want IMPORT_SYNTAX", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseReference(%q) error: %v", tt.in, err)
			continue
		}
		if ref.Path != tt.path || ref.Key != tt.key {
			t.Errorf("ParseReference(%q) = %+v, want path %q key %q", tt.in, ref, tt.path, tt.key)
		}
	}
}
