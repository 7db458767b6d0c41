// Package resource implements a Resource: an absolute-URL path paired with
// a finite, ordered, non-empty set of Content representations unique per
// (media type, language).
package resource

import (
	"net/url"
	"time"

	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/kv"
)

// Resource is immutable; Move and AddRepresentations return new Resources
// that structurally share unaffected Content values.
type Resource struct {
	path string
	reps *kv.Ordered[content.Key, *content.Content]
}

// canonicalPath validates that raw is an absolute URL and strips its
// fragment; the query string is retained and participates in identity
// (spec.md §6).
func canonicalPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return "", newError("path must be an absolute URL: " + raw)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// New constructs a Resource. Representations are inserted in order; a later
// representation sharing an earlier one's (type, language) key replaces it
// in place (spec.md §3 invariant 1, §4.4).
func New(path string, contents ...*content.Content) (*Resource, error) {
	if len(contents) == 0 {
		return nil, newError("resource requires at least one representation")
	}
	canonical, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	reps := kv.NewOrdered[content.Key, *content.Content](len(contents))
	for _, c := range contents {
		reps.Put(c.Key(), c)
	}
	return &Resource{path: canonical, reps: reps}, nil
}

// Path returns the Resource's canonical absolute URL.
func (r *Resource) Path() string { return r.path }

// Contents returns the representations in final insertion order.
func (r *Resource) Contents() []*content.Content { return r.reps.Values() }

// Get returns the representation for key, if any.
func (r *Resource) Get(key content.Key) (*content.Content, bool) {
	return r.reps.Get(key)
}

// LastModified is the max of all representations' LastModified.
func (r *Resource) LastModified() time.Time {
	var max time.Time
	for _, c := range r.reps.Values() {
		if c.LastModified().After(max) {
			max = c.LastModified()
		}
	}
	return max
}

// Move returns a new Resource at newPath sharing this Resource's
// representations.
func (r *Resource) Move(newPath string) (*Resource, error) {
	canonical, err := canonicalPath(newPath)
	if err != nil {
		return nil, err
	}
	return &Resource{path: canonical, reps: r.reps.Clone()}, nil
}

// AddRepresentations returns a new Resource with the given representations
// merged in: existing keys are replaced in place, new keys are appended.
func (r *Resource) AddRepresentations(contents ...*content.Content) (*Resource, error) {
	next := r.reps.Clone()
	for _, c := range contents {
		next.Put(c.Key(), c)
	}
	return &Resource{path: r.path, reps: next}, nil
}

// Default returns the representation considered the resource's primary
// one: the first representation with no language, or — if every
// representation carries a language — the first matching defaultLanguage
// (may be nil, meaning "none configured"). Returns nil if neither applies.
//
// This selection rule is not specified by spec.md §4 directly; it resolves
// the Open Question recorded in SPEC_FULL.md for the file writer sink,
// which needs to know which representation is the unqualified
// "index.<ext>" file.
func (r *Resource) Default(defaultLanguage *langtag.Tag) *content.Content {
	for _, c := range r.reps.Values() {
		if c.Language() == nil {
			return c
		}
	}
	if defaultLanguage != nil {
		for _, c := range r.reps.Values() {
			if c.Language() == defaultLanguage {
				return c
			}
		}
	}
	return nil
}
