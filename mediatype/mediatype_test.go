package mediatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndIntern(t *testing.T) {
	a, err := Parse("text/html; charset=UTF-8")
	require.NoError(t, err)
	b, err := Parse("TEXT/HTML;CHARSET=UTF-8")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "UTF-8", a.Charset())
}

func TestEqualsIgnoresParamOrder(t *testing.T) {
	a := MustParse("text/html;charset=utf-8;level=1")
	b := MustParse("text/html;level=1;charset=utf-8")
	assert.True(t, a.Equals(b))
}

func TestEqualsTypeAndSubtypeIgnoresParams(t *testing.T) {
	a := MustParse("text/html;charset=utf-8")
	b := MustParse("text/html")
	assert.True(t, a.EqualsTypeAndSubtype(b))
	assert.False(t, a.Equals(b))
}

func TestIncludesWildcard(t *testing.T) {
	textStar := MustParse("text/*")
	assert.True(t, textStar.Includes(MustParse("text/html")))
	assert.False(t, textStar.Includes(MustParse("application/json")))

	all := MustParse("*/*")
	assert.True(t, all.Includes(MustParse("image/png")))
}

func TestIncludesSuffixWildcard(t *testing.T) {
	apiPlusJSON := MustParse("application/*+json")
	assert.True(t, apiPlusJSON.Includes(MustParse("application/vnd.api+json")))
	assert.False(t, apiPlusJSON.Includes(MustParse("application/xml")))
}

func TestWithParameter(t *testing.T) {
	html := MustParse("text/html")
	withCharset, err := html.WithParameter("charset", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "text/html;charset=utf-8", withCharset.String())
	assert.Equal(t, "text/html", html.String())
}

func TestParseRejectsMissingSubtype(t *testing.T) {
	_, err := Parse("text")
	require.Error(t, err)
}

func TestParseRejectsBareWildcardType(t *testing.T) {
	_, err := Parse("*/html")
	require.Error(t, err)
}

func TestTypeByExtension(t *testing.T) {
	mt, ok := TypeByExtension(".md")
	require.True(t, ok)
	assert.Equal(t, "text/markdown", mt.TypeAndSubtype())
}
