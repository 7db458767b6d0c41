// Package mediatype implements IANA media types (RFC 6838): parsing,
// normalization, wildcard matching, and process-wide interning.
package mediatype

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

const wildcard = "*"

// MediaType is an interned, immutable type/subtype plus optional
// parameters. Equality is case-insensitive on type, subtype, and
// parameter names; parameter values compare case-sensitively per RFC 6838.
type MediaType struct {
	typ     string
	subtype string
	// paramNames/paramValues are parallel, insertion-ordered, and the names
	// are the lowercase canonical form used for equality; original casing
	// of values is preserved for serialization.
	paramNames  []string
	paramValues []string
	str         string
}

var (
	internMu sync.RWMutex
	intern   = map[string]*MediaType{}
)

var tokenChars *bitset.BitSet

func init() {
	tokenChars = bitset.New(128)
	for i := uint(0); i < 128; i++ {
		tokenChars.Set(i)
	}
	for i := uint(0); i <= 31; i++ {
		tokenChars.Clear(i)
	}
	tokenChars.Clear(127)
	for _, c := range "()<>@,;:\\\"/[]?={} \t" {
		tokenChars.Clear(uint(c))
	}
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r >= 128 || !tokenChars.Test(uint(r)) {
			return false
		}
	}
	return true
}

func sortedParamKey(names, values []string) string {
	// Parameters compare order-independently, so the intern key sorts them;
	// serialization (String()) keeps the order of the call that first
	// interned the instance.
	pairs := make([]string, len(names))
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < len(idx); i++ {
		for j := i + 1; j < len(idx); j++ {
			if names[idx[j]] < names[idx[i]] {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}
	for i, k := range idx {
		pairs[i] = names[k] + "=" + values[k]
	}
	return strings.Join(pairs, ";")
}

func intern_(typ, subtype string, names, values []string) *MediaType {
	key := typ + "/" + subtype + ";" + sortedParamKey(names, values)

	internMu.RLock()
	if mt, ok := intern[key]; ok {
		internMu.RUnlock()
		return mt
	}
	internMu.RUnlock()

	internMu.Lock()
	defer internMu.Unlock()
	if mt, ok := intern[key]; ok {
		return mt
	}
	mt := &MediaType{
		typ:         typ,
		subtype:     subtype,
		paramNames:  names,
		paramValues: values,
	}
	mt.str = mt.format()
	intern[key] = mt
	return mt
}

func (m *MediaType) format() string {
	var b strings.Builder
	b.WriteString(m.typ)
	b.WriteByte('/')
	b.WriteString(m.subtype)
	for i, name := range m.paramNames {
		b.WriteByte(';')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(m.paramValues[i])
	}
	return b.String()
}

// New constructs an interned MediaType from a type, subtype, and an
// optional ordered list of parameter (name, value) pairs.
func New(typ, subtype string, params ...[2]string) (*MediaType, error) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	subtype = strings.ToLower(strings.TrimSpace(subtype))

	if !isToken(typ) && typ != wildcard {
		return nil, newError(typ, "invalid type token")
	}
	if !isToken(subtype) && subtype != wildcard {
		return nil, newError(subtype, "invalid subtype token")
	}
	if typ == wildcard && subtype != wildcard {
		return nil, newError(typ+"/"+subtype, "wildcard type is legal only in */*")
	}

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for _, p := range params {
		name := strings.ToLower(strings.TrimSpace(p[0]))
		value := strings.TrimSpace(p[1])
		if !isToken(name) {
			return nil, newError(name, "invalid parameter name")
		}
		names, values = appendParam(names, values, name, value)
	}

	return intern_(typ, subtype, names, values), nil
}

func appendParam(names, values []string, name, value string) ([]string, []string) {
	for i, n := range names {
		if n == name {
			values[i] = value
			return names, values
		}
	}
	return append(names, name), append(values, value)
}

// Parse parses "type/subtype;param=value;...". A bare "*" is treated as
// "*/*".
func Parse(s string) (*MediaType, error) {
	raw := strings.TrimSpace(s)
	if raw == wildcard {
		raw = "*/*"
	}
	if raw == "" {
		return nil, newError(s, "media type must not be empty")
	}

	segments := strings.Split(raw, ";")
	fullType := strings.TrimSpace(segments[0])
	slash := strings.IndexByte(fullType, '/')
	if slash < 0 || slash == len(fullType)-1 {
		return nil, newError(s, "missing subtype after '/'")
	}
	typ := fullType[:slash]
	subtype := fullType[slash+1:]

	params := make([][2]string, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		eq := strings.IndexByte(seg, '=')
		if eq <= 0 {
			return nil, newError(s, "malformed parameter: "+seg)
		}
		params = append(params, [2]string{seg[:eq], seg[eq+1:]})
	}

	return New(typ, subtype, params...)
}

// MustParse is Parse that panics on error; useful for package-level
// constants.
func MustParse(s string) *MediaType {
	mt, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// Type returns the lowercase primary type.
func (m *MediaType) Type() string { return m.typ }

// Subtype returns the lowercase subtype.
func (m *MediaType) Subtype() string { return m.subtype }

// TypeAndSubtype returns "type/subtype" without parameters.
func (m *MediaType) TypeAndSubtype() string { return m.typ + "/" + m.subtype }

// Param returns the value of the named parameter (case-insensitive name).
func (m *MediaType) Param(name string) (string, bool) {
	name = strings.ToLower(name)
	for i, n := range m.paramNames {
		if n == name {
			return m.paramValues[i], true
		}
	}
	return "", false
}

// Charset is shorthand for Param("charset").
func (m *MediaType) Charset() string {
	v, _ := m.Param("charset")
	return v
}

// WithParameter returns a new, interned MediaType with name=value set
// (added or replaced).
func (m *MediaType) WithParameter(name, value string) (*MediaType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !isToken(name) {
		return nil, newError(name, "invalid parameter name")
	}
	names := append([]string(nil), m.paramNames...)
	values := append([]string(nil), m.paramValues...)
	names, values = appendParam(names, values, name, value)
	return intern_(m.typ, m.subtype, names, values), nil
}

// String returns the full "type/subtype;param=value" representation, with
// parameters in the order given to the call that first interned m; a later
// Parse of the same parameters in another order returns this same instance.
func (m *MediaType) String() string { return m.str }

func (m *MediaType) isWildcardType() bool    { return m.typ == wildcard }
func (m *MediaType) isWildcardSubtype() bool { return m.subtype == wildcard || strings.HasPrefix(m.subtype, "*+") }

// EqualsTypeAndSubtype reports whether type and subtype match exactly
// (parameters ignored).
func (m *MediaType) EqualsTypeAndSubtype(other *MediaType) bool {
	if other == nil {
		return false
	}
	return m.typ == other.typ && m.subtype == other.subtype
}

// Equals reports full equality: type, subtype, and parameter set (name
// case-insensitive, value case-sensitive), independent of parameter order.
func (m *MediaType) Equals(other *MediaType) bool {
	if other == nil {
		return false
	}
	if m == other {
		return true
	}
	if !m.EqualsTypeAndSubtype(other) {
		return false
	}
	if len(m.paramNames) != len(other.paramNames) {
		return false
	}
	for i, name := range m.paramNames {
		v, ok := other.Param(name)
		if !ok || v != m.paramValues[i] {
			return false
		}
	}
	return true
}

// Includes reports whether m is a superset pattern of other: a wildcard
// type matches anything; a wildcard subtype (optionally "*+suffix") matches
// any subtype sharing that suffix.
func (m *MediaType) Includes(other *MediaType) bool {
	if other == nil {
		return false
	}
	if m.isWildcardType() {
		return true
	}
	if m.typ != other.typ {
		return false
	}
	if m.subtype == other.subtype {
		return true
	}
	if !m.isWildcardSubtype() {
		return false
	}
	plus := strings.LastIndexByte(m.subtype, '+')
	if plus == -1 {
		return true
	}
	otherPlus := strings.LastIndexByte(other.subtype, '+')
	if otherPlus == -1 {
		return false
	}
	return m.subtype[plus+1:] == other.subtype[otherPlus+1:]
}

// IsCompatibleWith reports whether either of m/other includes the other.
func (m *MediaType) IsCompatibleWith(other *MediaType) bool {
	if other == nil {
		return false
	}
	return m.Includes(other) || other.Includes(m)
}
