package asyncstream

import (
	"context"
	"io"
)

// mapReader applies mapper to each value read from an upstream Reader,
// modeled on the teacher's mapperReader (pkg/stream/utils.go), generalized
// to a fallible mapper since ResourceTransformer can fail.
type mapReader[T, U any] struct {
	upstream Reader[T]
	mapper   func(T) (U, error)
}

func (m *mapReader[T, U]) Read(ctx context.Context) (v U, err error) {
	in, err := m.upstream.Read(ctx)
	if err != nil {
		return v, err
	}
	return m.mapper(in)
}

// Map returns a Reader that applies mapper to every upstream value. A
// mapper error is surfaced from Read and the stream is not otherwise
// advanced past it; the caller decides whether to keep reading.
func Map[T, U any](upstream Reader[T], mapper func(T) (U, error)) Reader[U] {
	return &mapReader[T, U]{upstream: upstream, mapper: mapper}
}

// filterReader skips upstream values failing predicate, modeled on the
// teacher's filterReader.
type filterReader[T any] struct {
	upstream  Reader[T]
	predicate func(T) (bool, error)
}

func (f *filterReader[T]) Read(ctx context.Context) (v T, err error) {
	for {
		val, err := f.upstream.Read(ctx)
		if err != nil {
			return v, err
		}
		ok, err := f.predicate(val)
		if err != nil {
			return v, err
		}
		if ok {
			return val, nil
		}
	}
}

// Filter returns a Reader yielding only upstream values for which predicate
// returns true.
func Filter[T any](upstream Reader[T], predicate func(T) (bool, error)) Reader[T] {
	return &filterReader[T]{upstream: upstream, predicate: predicate}
}

// multiReader sequentially drains each Reader in turn, modeled on the
// teacher's multiReader (pkg/stream/utils.go), minus the nested-flattening
// optimization (our chains are shallow).
type multiReader[T any] struct {
	readers []Reader[T]
}

func (m *multiReader[T]) Read(ctx context.Context) (v T, err error) {
	for len(m.readers) > 0 {
		val, err := m.readers[0].Read(ctx)
		if err == nil {
			return val, nil
		}
		if err != io.EOF {
			return v, err
		}
		m.readers = m.readers[1:]
	}
	return v, io.EOF
}

// MultiReader concatenates readers: each is drained to completion before
// the next begins.
func MultiReader[T any](readers ...Reader[T]) Reader[T] {
	return &multiReader[T]{readers: readers}
}

// distinctReader drops values whose key has already been seen, modeled on
// the teacher's distinctReader but keyed by an explicit key function rather
// than requiring T itself be comparable (Resources are not comparable; their
// dedup key is their path).
type distinctReader[T any, K comparable] struct {
	upstream Reader[T]
	keyOf    func(T) K
	seen     map[K]struct{}
}

func (d *distinctReader[T, K]) Read(ctx context.Context) (v T, err error) {
	for {
		val, err := d.upstream.Read(ctx)
		if err != nil {
			return v, err
		}
		k := d.keyOf(val)
		if _, ok := d.seen[k]; ok {
			continue
		}
		d.seen[k] = struct{}{}
		return val, nil
	}
}

// DistinctBy returns a Reader that emits only the first value observed for
// each key; subsequent values sharing a key are dropped (first-wins dedup,
// per the resource pipeline's path-uniqueness rule).
func DistinctBy[T any, K comparable](upstream Reader[T], keyOf func(T) K) Reader[T] {
	return &distinctReader[T, K]{upstream: upstream, keyOf: keyOf, seen: make(map[K]struct{})}
}
