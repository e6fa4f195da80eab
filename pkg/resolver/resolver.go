// Package resolver expands $import template references in device
// configuration documents.
//
// An import reference is an object containing the reserved key "$import"
// whose value has the form "[path]#key": path locates a template file
// (empty = the current file, "~/" = base-directory-relative, otherwise
// relative to the current file), key names a top-level entry in it.
// Sibling keys on the importing object are overrides merged on top of the
// expanded template, importer keys winning.
//
// Resolution is a synchronous recursive tree walk. One [Resolver] owns
// one [TemplateCache]; concurrent runs must each create their own
// Resolver.
//
//	r := resolver.New(baseDir)
//	resolved, err := r.Resolve(doc, "devices/0x027a/zen77.json")
package resolver

import (
	"github.com/zwavetools/zwconf/pkg/document"
	"github.com/zwavetools/zwconf/pkg/errors"
)

// Logger is the minimal logging interface the resolver needs.
// *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
}

// Resolver expands $import references for one resolution run.
type Resolver struct {
	baseDir string
	cache   *TemplateCache
	logger  Logger

	// visiting tracks (file, key) pairs on the active resolution stack.
	// Revisiting a pair that is still being expanded means the reference
	// chain loops, which would otherwise recurse without bound.
	visiting map[string]bool
}

// New creates a resolver with a fresh template cache. baseDir anchors
// "~/"-prefixed import paths.
func New(baseDir string) *Resolver {
	return &Resolver{
		baseDir:  baseDir,
		cache:    NewTemplateCache(),
		visiting: make(map[string]bool),
	}
}

// SetLogger enables debug logging of template loads and merges.
func (r *Resolver) SetLogger(l Logger) { r.logger = l }

// Cache exposes the per-run template cache, mainly for reporting how
// many distinct files a resolution touched.
func (r *Resolver) Cache() *TemplateCache { return r.cache }

// Resolve returns a copy of doc with every $import reference, at any
// depth, replaced by its fully expanded value. sourceFile is the path of
// the file doc was loaded from; import paths inside doc resolve relative
// to it. On error the whole resolution is abandoned: there is no
// partially resolved output.
func (r *Resolver) Resolve(doc any, sourceFile string) (any, error) {
	return r.resolveValue(doc, sourceFile)
}

// resolveValue walks one value. currentFile is per-frame: when recursion
// descends into a template, the template's own file becomes current, so
// relative (and empty/self) paths inside a template resolve against the
// template's location, not the importer's.
func (r *Resolver) resolveValue(v any, currentFile string) (any, error) {
	switch t := v.(type) {
	case document.Object:
		if t.Has(ImportKey) {
			return r.resolveImport(t, currentFile)
		}
		out := make(document.Object, 0, len(t))
		for _, m := range t {
			rv, err := r.resolveValue(m.Value, currentFile)
			if err != nil {
				return nil, err
			}
			out = append(out, document.Member{Key: m.Key, Value: rv})
		}
		return out, nil

	case document.Array:
		out := make(document.Array, len(t))
		for i, e := range t {
			rv, err := r.resolveValue(e, currentFile)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil

	default:
		// Null, booleans, numbers, and strings resolve to themselves.
		return v, nil
	}
}

// resolveImport expands one import node: load the template value, expand
// it transitively, then merge sibling overrides on top.
func (r *Resolver) resolveImport(node document.Object, currentFile string) (any, error) {
	rawRef, _ := node.Get(ImportKey)
	refString, ok := rawRef.(string)
	if !ok {
		return nil, errors.New(errors.ErrCodeImportSyntax, "%s value must be a string in %s", ImportKey, currentFile)
	}

	ref, err := ParseReference(refString)
	if err != nil {
		return nil, err
	}

	templateFile := ref.templateFile(currentFile, r.baseDir)

	template, err := r.cache.Load(templateFile)
	if err != nil {
		return nil, err
	}

	value, ok := template.Get(ref.Key)
	if !ok {
		return nil, errors.New(errors.ErrCodeKeyNotFound, "key %q not found in template %s", ref.Key, templateFile)
	}

	// Guard against reference cycles: the same (file, key) pair showing
	// up again while its own expansion is still in progress.
	visitKey := templateFile + "#" + ref.Key
	if r.visiting[visitKey] {
		return nil, errors.New(errors.ErrCodeCyclicImport, "cyclic import of %q", visitKey)
	}
	r.visiting[visitKey] = true
	if r.logger != nil {
		r.logger.Debugf("expanding %s (from %s)", visitKey, currentFile)
	}

	// Nested imports inside the template resolve relative to the
	// template's own file.
	resolved, err := r.resolveValue(value, templateFile)
	delete(r.visiting, visitKey)
	if err != nil {
		return nil, err
	}

	templateObj, isObject := resolved.(document.Object)
	if !isObject {
		if len(node) == 1 {
			return resolved, nil
		}
		return nil, errors.New(errors.ErrCodeMergeConflict,
			"cannot merge override keys onto non-object template value %q in %s", refString, currentFile)
	}

	// Shallow copy, then overlay the importing node's sibling keys.
	// Overrides resolve relative to the importing file, and always win
	// over template keys.
	merged := templateObj.Clone()
	for _, m := range node {
		if m.Key == ImportKey {
			continue
		}
		rv, err := r.resolveValue(m.Value, currentFile)
		if err != nil {
			return nil, err
		}
		merged.Set(m.Key, rv)
	}
	return merged, nil
}
