// Package langdetect implements the language-detection path transformer
// spec.md §6 describes: inspecting a Resource's path (or a designated
// query parameter) for an RFC 5646-looking segment, then populating or
// overriding every representation's language accordingly.
package langdetect

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/resource"
	"github.com/tangerg/pagestream/transform"
)

// tagLike matches a bare segment shaped like an RFC 5646 tag: 2-3 letter
// language, optional 4-letter script, optional 2-3 letter region.
var tagLike = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z]{4})?(-[A-Za-z]{2,3})?$`)

// Options configures Transform.
type Options struct {
	// SearchParam, if set, reads the language from this query parameter
	// instead of the path's first segment.
	SearchParam string
	// StripSegment removes the detected path segment from the Resource's
	// path. Has no effect when SearchParam is set (there is no segment to
	// strip).
	StripSegment bool
}

// Transform returns a ResourceTransformer that detects a language tag per
// opts and, when found, sets the language of every representation that
// lacks one and overrides those whose language differs (spec.md §6).
// Resources with no detectable tag pass through unchanged.
func Transform(opts Options) transform.ResourceTransformer {
	return func(r *resource.Resource) (*resource.Resource, error) {
		tagStr, strippedPath, found := detect(r.Path(), opts)
		if !found {
			return r, nil
		}
		tag, err := langtag.FromString(tagStr)
		if err != nil {
			return r, nil // not actually tag-shaped syntax; leave the Resource alone
		}
		slog.Debug("langdetect: accepted tag", "path", r.Path(), "tag", tag.DisplayName())

		originals := r.Contents()
		next := make([]*content.Content, len(originals))
		changed := false
		for i, c := range originals {
			if c.Language() == tag {
				next[i] = c
				continue
			}
			updated, err := c.Replace(content.WithLanguage(tag))
			if err != nil {
				return nil, err
			}
			next[i] = updated
			changed = true
		}

		path := r.Path()
		if opts.StripSegment && strippedPath != "" {
			path = strippedPath
		}
		if !changed && path == r.Path() {
			return r, nil
		}
		return resource.New(path, next...)
	}
}

// detect inspects raw per opts and returns the candidate tag string, the
// path with the detected segment stripped (path-segment mode only), and
// whether anything was found.
func detect(raw string, opts Options) (tagStr string, strippedPath string, found bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}

	if opts.SearchParam != "" {
		v := u.Query().Get(opts.SearchParam)
		if v == "" || !tagLike.MatchString(v) {
			return "", "", false
		}
		return v, "", true
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" || !tagLike.MatchString(segments[0]) {
		return "", "", false
	}

	candidate := segments[0]
	u.Path = "/" + strings.Join(segments[1:], "/")
	return candidate, u.String(), true
}
