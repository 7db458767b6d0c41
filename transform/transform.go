package transform

import (
	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/resource"
)

// ResourceTransformer maps a Resource to a new Resource, or fails.
type ResourceTransformer func(r *resource.Resource) (*resource.Resource, error)

// ContentTransformer maps a Content to a new Content, or fails.
type ContentTransformer func(c *content.Content) (*content.Content, error)

// Move returns a ResourceTransformer that applies pathFn to each Resource's
// path and relocates the Resource to the result.
func Move(pathFn func(path string) (string, error)) ResourceTransformer {
	return func(r *resource.Resource) (*resource.Resource, error) {
		newPath, err := pathFn(r.Path())
		if err != nil {
			return nil, err
		}
		return r.Move(newPath)
	}
}

// Transform maps representations satisfying criterion through contentFn,
// replacing them in place; representations not matching criterion pass
// through unchanged. The representation count is preserved.
func Transform(contentFn ContentTransformer, criteria ...any) ResourceTransformer {
	matches := firstCriterion(criteria)
	return func(r *resource.Resource) (*resource.Resource, error) {
		originals := r.Contents()
		next := make([]*content.Content, len(originals))
		changed := false
		for i, c := range originals {
			if !matches(c) {
				next[i] = c
				continue
			}
			mapped, err := contentFn(c)
			if err != nil {
				return nil, err
			}
			next[i] = mapped
			changed = true
		}
		if !changed {
			return r, nil
		}
		return resource.New(r.Path(), next...)
	}
}

// Diversify keeps every original representation and, for each one matching
// criterion, additionally appends contentFn(original). A Resource's
// (type, language) uniqueness rule still applies: an appended representation
// whose key collides with an existing one replaces it in place, per the
// Resource last-wins rule — callers who intend an unconditional replacement
// should use Transform instead.
func Diversify(contentFn ContentTransformer, criteria ...any) ResourceTransformer {
	matches := firstCriterion(criteria)
	return func(r *resource.Resource) (*resource.Resource, error) {
		originals := r.Contents()
		all := make([]*content.Content, 0, len(originals)*2)
		all = append(all, originals...)
		for _, c := range originals {
			if !matches(c) {
				continue
			}
			extra, err := contentFn(c)
			if err != nil {
				return nil, err
			}
			all = append(all, extra)
		}
		return resource.New(r.Path(), all...)
	}
}

// Replace returns a ContentTransformer that applies opts via Content.Replace.
func Replace(opts ...content.Option) ContentTransformer {
	return func(c *content.Content) (*content.Content, error) {
		return c.Replace(opts...)
	}
}
