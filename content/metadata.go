package content

import (
	"time"

	"github.com/spf13/cast"

	"github.com/tangerg/pagestream/kv"
)

// Metadata is the opaque key->value bag a Content carries for things like
// title/date front-matter (spec.md §3). Values are untyped; Metadata
// supplies loosely-typed accessors via spf13/cast, mirroring the coercion
// helpers the teacher's ai/providers and ai/models packages lean on for
// provider-returned metadata maps.
type Metadata struct {
	kv *kv.Ordered[string, any]
}

// NewMetadata builds Metadata from an ordinary map. Iteration order of a Go
// map is unspecified, so callers that care about stable ordering should
// build it up with Set instead.
func NewMetadata(m map[string]any) Metadata {
	ordered := kv.NewOrdered[string, any](len(m))
	for k, v := range m {
		ordered.Put(k, v)
	}
	return Metadata{kv: ordered}
}

// EmptyMetadata returns a Metadata with no entries.
func EmptyMetadata() Metadata {
	return Metadata{kv: kv.NewOrdered[string, any]()}
}

// Set returns a new Metadata with key set to value, preserving all other
// entries (Metadata values are treated as immutable like the rest of
// Content).
func (m Metadata) Set(key string, value any) Metadata {
	next := m.clone()
	next.kv.Put(key, value)
	return next
}

func (m Metadata) clone() Metadata {
	if m.kv == nil {
		return EmptyMetadata()
	}
	return Metadata{kv: m.kv.Clone()}
}

// Get returns the raw value for key.
func (m Metadata) Get(key string) (any, bool) {
	if m.kv == nil {
		return nil, false
	}
	return m.kv.Get(key)
}

// Keys returns the metadata keys in insertion order.
func (m Metadata) Keys() []string {
	if m.kv == nil {
		return nil
	}
	return m.kv.Keys()
}

// String coerces the value at key to a string, returning "" if absent or
// unconvertible.
func (m Metadata) String(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := cast.ToStringE(v)
	return s
}

// StringOr is String with a caller-supplied fallback for an absent key.
func (m Metadata) StringOr(key, fallback string) string {
	if _, ok := m.Get(key); !ok {
		return fallback
	}
	return m.String(key)
}

// Time coerces the value at key to a time.Time.
func (m Metadata) Time(key string) (time.Time, bool) {
	v, ok := m.Get(key)
	if !ok {
		return time.Time{}, false
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
