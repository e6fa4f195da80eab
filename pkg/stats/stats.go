// Package stats computes corpus-wide statistics over a device
// configuration tree.
//
// Two analyzers are provided, both simple tree walks over parsed (not
// import-expanded) documents:
//
//   - parameter keys: every key used by objects inside
//     "paramInformation" arrays, with occurrence counts. Useful for
//     spotting misspelled or legacy parameter fields.
//   - descriptions: frequency of top-level "description" values, for
//     finding copy-paste boilerplate across files.
//
// [Scan] walks the whole tree once and produces a [Report]; reports are
// memoized through pkg/cache keyed by a corpus fingerprint.
package stats

import (
	"sort"

	"github.com/zwavetools/zwconf/pkg/document"
)

// paramInformationKey is the array holding per-parameter definitions in
// a device configuration.
const paramInformationKey = "paramInformation"

// descriptionKey is the top-level field bucketed by the description
// analyzer.
const descriptionKey = "description"

// Report aggregates one corpus scan. It serializes to JSON for caching.
type Report struct {
	// Files is the number of documents parsed successfully.
	Files int `json:"files"`

	// Errors is the number of files that failed to parse. Scan errors
	// are tolerated and counted, never fatal.
	Errors int `json:"errors"`

	// ParamKeys maps parameter object keys to occurrence counts.
	ParamKeys map[string]int `json:"param_keys"`

	// Descriptions maps top-level description values (containers
	// serialized canonically) to occurrence counts.
	Descriptions map[string]int `json:"descriptions"`

	// NoDescription counts files without a top-level description.
	NoDescription int `json:"no_description"`
}

// newReport creates an empty report with initialized maps.
func newReport() *Report {
	return &Report{
		ParamKeys:    make(map[string]int),
		Descriptions: make(map[string]int),
	}
}

// addDocument folds one parsed document into the report.
func (r *Report) addDocument(doc any) {
	collectParamKeys(doc, r.ParamKeys)

	obj, ok := doc.(document.Object)
	if !ok {
		r.NoDescription++
		return
	}
	desc, ok := obj.Get(descriptionKey)
	if !ok {
		r.NoDescription++
		return
	}
	r.Descriptions[descriptionBucket(desc)]++
}

// ParamKeyNames returns the parameter keys sorted lexicographically.
func (r *Report) ParamKeyNames() []string {
	names := make([]string, 0, len(r.ParamKeys))
	for k := range r.ParamKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValueCount is one description bucket with its frequency.
type ValueCount struct {
	Value string
	Count int
}

// TopDescriptions returns description buckets ordered by frequency,
// most common first, ties broken by value for determinism.
func (r *Report) TopDescriptions() []ValueCount {
	out := make([]ValueCount, 0, len(r.Descriptions))
	for v, c := range r.Descriptions {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// collectParamKeys recursively finds paramInformation arrays and counts
// the keys of their object elements.
func collectParamKeys(v any, counts map[string]int) {
	switch t := v.(type) {
	case document.Object:
		if params, ok := t.Get(paramInformationKey); ok {
			if arr, ok := params.(document.Array); ok {
				for _, e := range arr {
					param, ok := e.(document.Object)
					if !ok {
						continue
					}
					for _, m := range param {
						counts[m.Key]++
					}
				}
			}
		}
		for _, m := range t {
			collectParamKeys(m.Value, counts)
		}
	case document.Array:
		for _, e := range t {
			collectParamKeys(e, counts)
		}
	}
}

// descriptionBucket converts a description value into a stable bucket
// string: strings as-is, anything else serialized canonically so two
// files with key-reordered description objects land in one bucket.
func descriptionBucket(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := document.EncodeCompact(document.Normalize(v))
	if err != nil {
		return "<unserializable>"
	}
	return string(data)
}
