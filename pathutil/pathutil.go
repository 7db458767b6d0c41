// Package pathutil implements the pure URL path-rewriting helpers used by
// transformer pipelines and the file-system adapters: Rebase, RemoveBase,
// IsBasedOn, HavingExtension, IntoDirectory, ReplaceBasename and
// ExtractFromURL (spec.md §6).
package pathutil

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/tangerg/pagestream/resource"
)

// validateBase enforces the base-URL contract: it must end with "/" and
// must carry neither a query nor a fragment.
func validateBase(base string) (*url.URL, error) {
	if !strings.HasSuffix(base, "/") {
		return nil, newError("base must end with a slash: %s", base)
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, newError("invalid base %q: %v", base, err)
	}
	if u.RawQuery != "" {
		return nil, newError("base must not have a search component: %s", base)
	}
	if u.Fragment != "" || u.RawFragment != "" {
		return nil, newError("base must not have a hash component: %s", base)
	}
	return u, nil
}

// stripBase validates base, then reports whether raw (ignoring its
// fragment) starts with it, and if so the remainder.
func stripBase(raw, base string) (rel string, matched bool, err error) {
	baseURL, err := validateBase(base)
	if err != nil {
		return "", false, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, newError("invalid URL %q: %v", raw, err)
	}
	rawNoFragment := *u
	rawNoFragment.Fragment = ""
	rawNoFragment.RawFragment = ""
	baseStr := baseURL.String()
	full := rawNoFragment.String()
	if !strings.HasPrefix(full, baseStr) {
		return "", false, nil
	}
	return strings.TrimPrefix(full, baseStr), true, nil
}

// RemoveBase strips base from raw, returning the remainder (the path
// relative to base). Fails if base is malformed, or raw is not based on
// base.
func RemoveBase(raw, base string) (string, error) {
	rel, matched, err := stripBase(raw, base)
	if err != nil {
		return "", err
	}
	if !matched {
		return "", newError("not based on %s: %s", base, raw)
	}
	return rel, nil
}

// IsBasedOn reports whether raw starts with base (ignoring raw's fragment).
// A malformed base is itself reported as an error, per spec.md §7.
func IsBasedOn(raw, base string) (bool, error) {
	_, matched, err := stripBase(raw, base)
	if err != nil {
		return false, err
	}
	return matched, nil
}

// Rebase returns a path transformer that re-expresses a URL based on
// fromBase as the equivalent URL based on toBase, leaving URLs not based
// on fromBase unchanged (spec.md §6, scenario S5).
func Rebase(fromBase, toBase string) func(path string) (string, error) {
	return func(path string) (string, error) {
		rel, matched, err := stripBase(path, fromBase)
		if err != nil {
			return "", err
		}
		if !matched {
			return path, nil
		}
		toURL, err := validateBase(toBase)
		if err != nil {
			return "", err
		}
		return toURL.String() + rel, nil
	}
}

// HavingExtension returns a Resource predicate matching Resources whose
// path ends in one of exts (each compared case-insensitively, with or
// without a leading dot).
func HavingExtension(exts ...string) func(*resource.Resource) bool {
	normalized := make([]string, len(exts))
	for i, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized[i] = e
	}
	return func(r *resource.Resource) bool {
		path := strings.ToLower(r.Path())
		for _, e := range normalized {
			if strings.HasSuffix(path, e) {
				return true
			}
		}
		return false
	}
}

// IntoDirectory returns a path transformer that turns a file-shaped path
// into a directory-shaped one by appending a trailing slash. When
// stripExt is true, the final path segment's extension (if any) is
// removed first, e.g. "/blog/post.html" -> "/blog/post/".
func IntoDirectory(stripExt bool) func(path string) (string, error) {
	return func(path string) (string, error) {
		if strings.HasSuffix(path, "/") {
			return path, nil
		}
		if stripExt {
			if idx := strings.LastIndex(path, "."); idx >= 0 {
				if slash := strings.LastIndex(path, "/"); slash < idx {
					path = path[:idx]
				}
			}
		}
		return path + "/", nil
	}
}

// ReplaceBasename returns a path transformer that applies pattern.ReplaceAll
// to the final path segment only, leaving the rest of the path untouched.
func ReplaceBasename(pattern *regexp.Regexp, replacement string) func(path string) (string, error) {
	return func(path string) (string, error) {
		slash := strings.LastIndex(path, "/")
		dir, base := path[:slash+1], path[slash+1:]
		return dir + pattern.ReplaceAllString(base, replacement), nil
	}
}

// ExtractOptions customizes ExtractFromURL.
type ExtractOptions struct {
	// Base, if set, is stripped before matching pattern.
	Base string
	// Convert, if set, transforms the matched substring before it is
	// returned.
	Convert func(string) string
}

// ExtractFromURL applies pattern to raw (optionally after stripping
// opts.Base) and returns the first capture group (or, absent one, the
// whole match), optionally passed through opts.Convert. ok is false if
// pattern does not match.
func ExtractFromURL(raw string, pattern *regexp.Regexp, opts ExtractOptions) (string, bool, error) {
	subject := raw
	if opts.Base != "" {
		rel, err := RemoveBase(raw, opts.Base)
		if err != nil {
			return "", false, err
		}
		subject = rel
	}
	match := pattern.FindStringSubmatch(subject)
	if match == nil {
		return "", false, nil
	}
	result := match[0]
	if len(match) > 1 {
		result = match[1]
	}
	if opts.Convert != nil {
		result = opts.Convert(result)
	}
	return result, true, nil
}
