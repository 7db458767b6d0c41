package kv

import "slices"

// Ordered is a key-value map that remembers insertion order. Putting an
// existing key replaces its value in place, keeping its original position —
// "last wins, replace in place of the prior position" is exactly the
// uniqueness rule spec.md §3 describes for a Resource's representations and
// §4.2 describes for media-type parameters.
type Ordered[K comparable, V any] struct {
	values Map[K, V]
	order  []K
}

// NewOrdered creates an empty Ordered map with an optional initial capacity.
func NewOrdered[K comparable, V any](capacity ...int) *Ordered[K, V] {
	return &Ordered[K, V]{values: New[K, V](capacity...)}
}

// Size returns the number of entries.
func (m *Ordered[K, V]) Size() int { return len(m.order) }

// Get retrieves the value for k.
func (m *Ordered[K, V]) Get(k K) (V, bool) { return m.values.Get(k) }

// ContainsKey reports whether k is present.
func (m *Ordered[K, V]) ContainsKey(k K) bool { return m.values.ContainsKey(k) }

// Put inserts or replaces the value for k. A replace keeps k at its original
// position in iteration order (matching §4.4: "the last representation
// wins for any duplicate key", not "moves to the end").
func (m *Ordered[K, V]) Put(k K, v V) *Ordered[K, V] {
	if !m.values.ContainsKey(k) {
		m.order = append(m.order, k)
	}
	m.values.Put(k, v)
	return m
}

// Remove deletes k, if present.
func (m *Ordered[K, V]) Remove(k K) {
	if !m.values.ContainsKey(k) {
		return
	}
	delete(m.values, k)
	if idx := slices.Index(m.order, k); idx != -1 {
		m.order = slices.Delete(m.order, idx, idx+1)
	}
}

// Keys returns the keys in insertion order.
func (m *Ordered[K, V]) Keys() []K { return slices.Clone(m.order) }

// Values returns the values in key-insertion order.
func (m *Ordered[K, V]) Values() []V {
	out := make([]V, 0, len(m.order))
	for _, k := range m.order {
		v, _ := m.values.Get(k)
		out = append(out, v)
	}
	return out
}

// ForEach visits every entry in insertion order.
func (m *Ordered[K, V]) ForEach(f func(k K, v V)) {
	for _, k := range m.order {
		v, _ := m.values.Get(k)
		f(k, v)
	}
}

// Clone returns a deep-enough copy (new backing map and order slice; values
// are copied by assignment).
func (m *Ordered[K, V]) Clone() *Ordered[K, V] {
	out := NewOrdered[K, V](m.Size())
	m.ForEach(func(k K, v V) { out.Put(k, v) })
	return out
}
