package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/tangerg/pagestream/resource"
)

// ResourceSet is the value type produced by GroupBy: the Resources sharing
// a group key, plus their combined LastModified.
type ResourceSet struct {
	Resources []*resource.Resource
}

// LastModified is the max LastModified over the set's members.
func (s *ResourceSet) LastModified() time.Time {
	var max time.Time
	for _, r := range s.Resources {
		if r.LastModified().After(max) {
			max = r.LastModified()
		}
	}
	return max
}

// GroupBy is a terminal operation: it iterates p fully, grouping Resources
// by keyFn. Resources for which keyFn reports ok=false are excluded.
//
// Declared as a package-level function rather than a method because Go
// does not allow a method to introduce its own type parameter beyond the
// receiver's.
func GroupBy[K comparable](ctx context.Context, p *Pipeline, keyFn func(*resource.Resource) (K, bool)) (map[K]*ResourceSet, error) {
	reader, err := p.reader(ctx)
	if err != nil {
		return nil, err
	}
	groups := make(map[K]*ResourceSet)
	for {
		r, err := reader.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		key, ok := keyFn(r)
		if !ok {
			continue
		}
		set, exists := groups[key]
		if !exists {
			set = &ResourceSet{}
			groups[key] = set
		}
		set.Resources = append(set.Resources, r)
	}
	return groups, nil
}

// GetLastModified returns the max LastModified across all Resources
// realized by p, and false if p yields no Resources.
func (p *Pipeline) GetLastModified(ctx context.Context) (time.Time, bool, error) {
	reader, err := p.reader(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	var max time.Time
	found := false
	for {
		r, err := reader.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return time.Time{}, false, err
		}
		found = true
		if r.LastModified().After(max) {
			max = r.LastModified()
		}
	}
	return max, found, nil
}
