// Package content implements a Resource's individual byte representation:
// a media type, an optional language, a lazily and idempotently
// materialized body, a last-modified timestamp, and opaque metadata.
package content

import (
	"context"
	"time"

	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/mediatype"
)

// Content is one immutable representation of a Resource. Construct with
// New, derive edited copies with Replace.
type Content struct {
	mediaType    *mediatype.MediaType
	language     *langtag.Tag
	lastModified time.Time
	metadata     Metadata
	body         *body
}

// New constructs a Content with an eager byte body. mediaType is required;
// language may be nil.
func New(mediaType *mediatype.MediaType, language *langtag.Tag, lastModified time.Time, body []byte) (*Content, error) {
	if mediaType == nil {
		return nil, newError("type is required")
	}
	return &Content{
		mediaType:    mediaType,
		language:     language,
		lastModified: lastModified,
		metadata:     EmptyMetadata(),
		body:         eagerBody(body),
	}, nil
}

// NewLazy is New but with the body produced on first access by thunk.
func NewLazy(mediaType *mediatype.MediaType, language *langtag.Tag, lastModified time.Time, thunk Thunk) (*Content, error) {
	if mediaType == nil {
		return nil, newError("type is required")
	}
	if thunk == nil {
		return nil, newError("thunk is required")
	}
	return &Content{
		mediaType:    mediaType,
		language:     language,
		lastModified: lastModified,
		metadata:     EmptyMetadata(),
		body:         lazyBody(thunk),
	}, nil
}

// Type returns the representation's media type.
func (c *Content) Type() *mediatype.MediaType { return c.mediaType }

// Language returns the representation's language tag, or nil.
func (c *Content) Language() *langtag.Tag { return c.language }

// LastModified returns the representation's timestamp.
func (c *Content) LastModified() time.Time { return c.lastModified }

// Metadata returns the representation's opaque metadata bag.
func (c *Content) Metadata() Metadata { return c.metadata }

// Key returns the (type, language) uniqueness key used by Resource to
// de-duplicate representations (spec.md §3 invariant 1).
func (c *Content) Key() Key {
	lang := ""
	if c.language != nil {
		lang = c.language.String()
	}
	return Key{MediaType: c.mediaType.String(), Language: lang}
}

// Key identifies a representation within a Resource.
type Key struct {
	MediaType string
	Language  string
}

// GetBody materializes and returns the byte payload. The first call (across
// all concurrent callers) invokes the underlying thunk; the result is
// cached for the lifetime of the Content (spec.md §4.3, §5).
func (c *Content) GetBody(ctx context.Context) ([]byte, error) {
	return c.body.get(ctx)
}

// replaceState accumulates the fields an Option mutates; zero value means
// "leave unchanged" except where a sentinel below says otherwise.
type replaceState struct {
	mediaType      *mediatype.MediaType
	mediaTypeErr   error
	hasLanguage    bool // true once any language-touching option ran
	language       *langtag.Tag
	languageErr    error
	hasBody        bool
	body           *body
	lastModified   *time.Time
	metadata       *Metadata
}

// Option mutates a pending Replace operation.
type Option func(*replaceState)

// WithType sets the type, accepting either a *mediatype.MediaType or a
// string to be parsed.
func WithType(t any) Option {
	return func(s *replaceState) {
		switch v := t.(type) {
		case *mediatype.MediaType:
			s.mediaType = v
		case string:
			s.mediaType, s.mediaTypeErr = mediatype.Parse(v)
		default:
			s.mediaTypeErr = newError("type must be *mediatype.MediaType or string")
		}
	}
}

// WithLanguage sets the language, accepting a *langtag.Tag, a string to be
// parsed, or nil to clear it.
func WithLanguage(l any) Option {
	return func(s *replaceState) {
		s.hasLanguage = true
		switch v := l.(type) {
		case nil:
			s.language = nil
		case *langtag.Tag:
			s.language = v
		case string:
			s.language, s.languageErr = langtag.FromString(v)
		default:
			s.languageErr = newError("language must be *langtag.Tag, string, or nil")
		}
	}
}

// WithBody replaces the body with eager bytes.
func WithBody(b []byte) Option {
	return func(s *replaceState) {
		s.hasBody = true
		s.body = eagerBody(b)
	}
}

// WithLazyBody replaces the body with a thunk, re-arming single-flight
// memoization.
func WithLazyBody(t Thunk) Option {
	return func(s *replaceState) {
		s.hasBody = true
		s.body = lazyBody(t)
	}
}

// WithLastModified sets the timestamp.
func WithLastModified(t time.Time) Option {
	return func(s *replaceState) { s.lastModified = &t }
}

// WithMetadata replaces the metadata bag.
func WithMetadata(m Metadata) Option {
	return func(s *replaceState) { s.metadata = &m }
}

// Replace returns a new Content with the given fields overridden; c is
// left untouched (spec.md §4.3).
func (c *Content) Replace(opts ...Option) (*Content, error) {
	state := &replaceState{}
	for _, opt := range opts {
		opt(state)
	}
	if state.mediaTypeErr != nil {
		return nil, state.mediaTypeErr
	}
	if state.languageErr != nil {
		return nil, state.languageErr
	}

	next := &Content{
		mediaType:    c.mediaType,
		language:     c.language,
		lastModified: c.lastModified,
		metadata:     c.metadata,
		body:         c.body,
	}
	if state.mediaType != nil {
		next.mediaType = state.mediaType
	}
	if state.hasLanguage {
		next.language = state.language
	}
	if state.hasBody {
		next.body = state.body
	}
	if state.lastModified != nil {
		next.lastModified = *state.lastModified
	}
	if state.metadata != nil {
		next.metadata = *state.metadata
	}
	return next, nil
}
