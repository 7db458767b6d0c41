// Package transform implements the pure ResourceTransformer / ContentTransformer
// algebra: Move, Transform, Diversify and Replace, plus criterion normalization.
package transform

import (
	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/mediatype"
)

// Predicate is a normalized criterion: a function over a Content.
type Predicate func(c *content.Content) bool

// ToContentPredicate normalizes a criterion to a Predicate. Accepted forms:
//   - nil: always matches.
//   - Predicate or func(*content.Content) bool: used as-is.
//   - *mediatype.MediaType: matches Contents whose Type() the media type
//     Includes (wildcard-aware family match).
//   - *langtag.Tag: matches Contents whose Language() Matches the tag
//     (nil language never matches a non-nil criterion tag).
//
// Any other value panics; criteria are constructed by callers in this
// process, not parsed from untrusted input.
func ToContentPredicate(criterion any) Predicate {
	switch v := criterion.(type) {
	case nil:
		return func(*content.Content) bool { return true }
	case Predicate:
		return v
	case func(*content.Content) bool:
		return v
	case *mediatype.MediaType:
		return func(c *content.Content) bool {
			return v.Includes(c.Type())
		}
	case *langtag.Tag:
		return func(c *content.Content) bool {
			lang := c.Language()
			return lang != nil && lang.Matches(v)
		}
	default:
		panic("transform: unsupported criterion type")
	}
}

// firstCriterion returns the normalized predicate for an optional criterion
// argument; absent means "always matches".
func firstCriterion(criteria []any) Predicate {
	if len(criteria) == 0 {
		return ToContentPredicate(nil)
	}
	return ToContentPredicate(criteria[0])
}
