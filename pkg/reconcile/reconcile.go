// Package reconcile decides whether a freshly resolved document replaces
// a previously materialized artifact, and maintains the artifact's
// version metadata.
//
// A resolved artifact carries two injected fields: "version", an integer
// that increases by exactly 1 whenever the resolved content changes
// semantically, and "last_update", an RFC 3339 timestamp. Comparison
// splices the previous artifact's metadata into the new document first,
// so the metadata itself never triggers a version bump.
//
// The overwrite decision is delegated to a [Decider] so the same engine
// serves both interactive use (prompt the human with the diff) and
// unattended use ([AcceptAll]). Declining is a no-op cancellation, not
// an error.
package reconcile

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/zwavetools/zwconf/pkg/diff"
	"github.com/zwavetools/zwconf/pkg/document"
)

// Metadata field names injected into resolved artifacts.
const (
	VersionKey    = "version"
	LastUpdateKey = "last_update"
)

// Status is the outcome classification of one reconciliation.
type Status string

// Reconciliation outcomes.
const (
	// StatusCreated: no previous artifact existed; version 1 assigned.
	StatusCreated Status = "created"

	// StatusUnchanged: semantically identical to the previous artifact;
	// nothing to write, version untouched.
	StatusUnchanged Status = "unchanged"

	// StatusUpdated: content changed and the decider accepted; version
	// bumped by one.
	StatusUpdated Status = "updated"

	// StatusCancelled: content changed but the decider declined.
	StatusCancelled Status = "cancelled"
)

// Decider supplies the overwrite decision when a reconciliation detects
// a semantic change against an existing artifact.
type Decider interface {
	// Confirm receives the semantic diff and reports whether the
	// existing artifact should be replaced.
	Confirm(entries []diff.Entry) (bool, error)
}

// AcceptAll is the unattended policy: every change is applied without
// confirmation.
type AcceptAll struct{}

// Confirm always accepts.
func (AcceptAll) Confirm([]diff.Entry) (bool, error) { return true, nil }

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(entries []diff.Entry) (bool, error)

// Confirm calls f.
func (f DeciderFunc) Confirm(entries []diff.Entry) (bool, error) { return f(entries) }

// Outcome describes the result of one reconciliation.
type Outcome struct {
	Status  Status
	Version int

	// Document is the artifact to persist for StatusCreated and
	// StatusUpdated; for StatusUnchanged it is the existing artifact.
	// Nil for StatusCancelled.
	Document document.Object

	// Diff holds the entries shown to the decider (Updated/Cancelled).
	Diff []diff.Entry
}

// Reconciler runs reconciliation cycles.
type Reconciler struct {
	decider Decider

	// now is replaceable for tests.
	now func() time.Time
}

// New creates a reconciler with the given overwrite decider.
func New(decider Decider) *Reconciler {
	return &Reconciler{decider: decider, now: time.Now}
}

// SetClock overrides the timestamp source. Intended for tests.
func (r *Reconciler) SetClock(now func() time.Time) { r.now = now }

// Reconcile compares the freshly resolved document against the previous
// artifact (nil when none exists) and returns the outcome. The input
// documents are not mutated.
func (r *Reconciler) Reconcile(resolved, previous document.Object) (Outcome, error) {
	timestamp := r.now().Format(time.RFC3339)

	if previous == nil {
		doc := resolved.Clone()
		doc.Set(VersionKey, json.Number("1"))
		doc.Set(LastUpdateKey, timestamp)
		return Outcome{Status: StatusCreated, Version: 1, Document: doc}, nil
	}

	previousVersion := versionOf(previous)

	// Splice the previous metadata into a comparison copy so only real
	// content differences count.
	comparison := resolved.Clone()
	if v, ok := previous.Get(VersionKey); ok {
		comparison.Set(VersionKey, v)
	} else {
		comparison.Set(VersionKey, json.Number("1"))
	}
	if v, ok := previous.Get(LastUpdateKey); ok {
		comparison.Set(LastUpdateKey, v)
	} else {
		comparison.Set(LastUpdateKey, timestamp)
	}

	if document.Equal(previous, comparison) {
		return Outcome{Status: StatusUnchanged, Version: previousVersion, Document: previous}, nil
	}

	entries := diff.Compare(previous, comparison)

	accepted, err := r.decider.Confirm(entries)
	if err != nil {
		return Outcome{}, err
	}
	if !accepted {
		return Outcome{Status: StatusCancelled, Version: previousVersion, Diff: entries}, nil
	}

	next := previousVersion + 1
	doc := resolved.Clone()
	doc.Set(VersionKey, json.Number(strconv.Itoa(next)))
	doc.Set(LastUpdateKey, timestamp)
	return Outcome{Status: StatusUpdated, Version: next, Document: doc, Diff: entries}, nil
}

// versionOf extracts the integer version of an artifact, defaulting to 1
// when the field is absent or unreadable.
func versionOf(doc document.Object) int {
	v, ok := doc.Get(VersionKey)
	if !ok {
		return 1
	}
	n, ok := v.(json.Number)
	if !ok {
		return 1
	}
	i, err := strconv.Atoi(n.String())
	if err != nil || i < 1 {
		return 1
	}
	return i
}
