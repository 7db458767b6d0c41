// Package langtag implements RFC 5646-shaped language tags: an immutable,
// interned (language, script, region) triple with canonical parsing,
// pattern matching, and specificity reduction.
package langtag

import (
	"strings"
	"sync"
)

// Tag is an immutable, interned language tag. Two tags with equal canonical
// form are always the same pointer; compare with ==.
type Tag struct {
	language string // lowercase, 2-3 letters
	script   string // lowercase, 4 letters, "" if absent
	region   string // lowercase, 2-3 letters, "" if absent
	str      string // cached canonical textual form
}

var (
	internMu sync.RWMutex
	intern   = map[string]*Tag{}
)

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			if r < 'A' || r > 'Z' {
				return false
			}
		}
	}
	return true
}

func validLanguage(s string) bool {
	return (len(s) == 2 || len(s) == 3) && isAlpha(s)
}

func validScript(s string) bool {
	return len(s) == 4 && isAlpha(s)
}

func validRegion(s string) bool {
	return (len(s) == 2 || len(s) == 3) && isAlpha(s)
}

func canonicalKey(language, script, region string) string {
	var b strings.Builder
	b.WriteString(language)
	if script != "" {
		b.WriteByte('-')
		b.WriteString(script)
	}
	if region != "" {
		b.WriteByte('-')
		b.WriteString(region)
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (t *Tag) formatString() string {
	var b strings.Builder
	b.WriteString(t.language)
	if t.script != "" {
		b.WriteByte('-')
		b.WriteString(titleCase(t.script))
	}
	if t.region != "" {
		b.WriteByte('-')
		b.WriteString(strings.ToUpper(t.region))
	}
	return b.String()
}

// internedGet returns the interned Tag for the given already-lowercased,
// already-validated subtags, creating it on first use.
func internedGet(language, script, region string) *Tag {
	key := canonicalKey(language, script, region)

	internMu.RLock()
	if tag, ok := intern[key]; ok {
		internMu.RUnlock()
		return tag
	}
	internMu.RUnlock()

	internMu.Lock()
	defer internMu.Unlock()
	if tag, ok := intern[key]; ok {
		return tag
	}
	tag := &Tag{language: language, script: script, region: region}
	tag.str = tag.formatString()
	intern[key] = tag
	return tag
}

// Get validates and interns a tag from already-split subtags. script and
// region may be empty to denote absence.
func Get(language, script, region string) (*Tag, error) {
	language = strings.ToLower(language)
	script = strings.ToLower(script)
	region = strings.ToLower(region)

	if !validLanguage(language) {
		return nil, newError(InvalidLanguage, language)
	}
	if script != "" && !validScript(script) {
		return nil, newError(InvalidScript, script)
	}
	if region != "" && !validRegion(region) {
		return nil, newError(InvalidRegion, region)
	}
	return internedGet(language, script, region), nil
}

// FromString parses "lang[-script][-region]" textual form. The script
// segment must be exactly 4 letters and the region segment 2-3 letters, so
// a 3-segment tag is unambiguous. Underscores, empty segments, and extra
// segments are all rejected.
func FromString(s string) (*Tag, error) {
	if s == "" || strings.Contains(s, "_") {
		return nil, newError(InvalidTagString, s)
	}

	parts := strings.Split(s, "-")
	for _, p := range parts {
		if p == "" {
			return nil, newError(InvalidTagString, s)
		}
	}

	switch len(parts) {
	case 1:
		return Get(parts[0], "", "")
	case 2:
		if validScript(parts[1]) {
			return Get(parts[0], parts[1], "")
		}
		return Get(parts[0], "", parts[1])
	case 3:
		return Get(parts[0], parts[1], parts[2])
	default:
		return nil, newError(InvalidTagString, s)
	}
}

// MustFromString is FromString that panics on error; useful for package-level
// tag constants.
func MustFromString(s string) *Tag {
	tag, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return tag
}

// Language returns the canonical lowercase language subtag.
func (t *Tag) Language() string { return t.language }

// Script returns the canonical lowercase script subtag, or "" if absent.
func (t *Tag) Script() string { return t.script }

// Region returns the canonical lowercase region subtag, or "" if absent.
func (t *Tag) Region() string { return t.region }

// String returns the canonical textual form: lowercase language, TitleCase
// script, UPPERCASE region, joined by "-".
func (t *Tag) String() string { return t.str }

// Matches reports whether t matches pattern: same language, and for each of
// script/region, either pattern leaves it unconstrained (empty) or they are
// equal.
func (t *Tag) Matches(pattern *Tag) bool {
	if pattern == nil {
		return false
	}
	if t.language != pattern.language {
		return false
	}
	if pattern.script != "" && pattern.script != t.script {
		return false
	}
	if pattern.region != "" && pattern.region != t.region {
		return false
	}
	return true
}

// DisplayName returns a human-readable name for t. This stub returns the
// canonical tag string itself; a real CLDR-backed lookup (locale data,
// plural rules, translated language names) is out of scope here, but
// callers that only need "does this look like a real tag worth showing"
// can use this seam today and swap in a CLDR table later without
// changing call sites.
// TODO: back this with a CLDR language-name table instead of the raw tag.
func (t *Tag) DisplayName() string { return t.str }

// Reduce yields t's less-specific forms in the order {drop script, drop
// region, drop both}, skipping any that equal t itself, and skipping
// duplicates. If includeSelf, t itself is prepended.
func (t *Tag) Reduce(includeSelf bool) []*Tag {
	out := make([]*Tag, 0, 4)
	if includeSelf {
		out = append(out, t)
	}

	seen := map[*Tag]bool{t: true}
	add := func(script, region string) {
		candidate := internedGet(t.language, script, region)
		if seen[candidate] {
			return
		}
		seen[candidate] = true
		out = append(out, candidate)
	}

	// drop script
	add("", t.region)
	// drop region
	add(t.script, "")
	// drop both
	add("", "")

	return out
}
