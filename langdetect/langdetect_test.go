package langdetect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/mediatype"
	"github.com/tangerg/pagestream/resource"
)

func mustResource(t *testing.T, path string, contents ...*content.Content) *resource.Resource {
	t.Helper()
	r, err := resource.New(path, contents...)
	require.NoError(t, err)
	return r
}

func mustContent(t *testing.T, lang *langtag.Tag) *content.Content {
	t.Helper()
	c, err := content.New(mediatype.MustParse("text/html"), lang, time.Now(), []byte("x"))
	require.NoError(t, err)
	return c
}

func TestDetectsFromPathSegmentAndStrips(t *testing.T) {
	r := mustResource(t, "http://x/en/blog/post", mustContent(t, nil))
	tr := Transform(Options{StripSegment: true})

	out, err := tr(r)
	require.NoError(t, err)
	assert.Equal(t, "http://x/blog/post", out.Path())
	require.Len(t, out.Contents(), 1)
	require.NotNil(t, out.Contents()[0].Language())
	assert.Equal(t, "en", out.Contents()[0].Language().String())
}

func TestOverridesDifferingLanguage(t *testing.T) {
	r := mustResource(t, "http://x/ko/post", mustContent(t, langtag.MustFromString("en")))
	tr := Transform(Options{})

	out, err := tr(r)
	require.NoError(t, err)
	assert.Equal(t, "ko", out.Contents()[0].Language().String())
}

func TestSearchParamMode(t *testing.T) {
	r := mustResource(t, "http://x/post?lang=ko", mustContent(t, nil))
	tr := Transform(Options{SearchParam: "lang"})

	out, err := tr(r)
	require.NoError(t, err)
	assert.Equal(t, "ko", out.Contents()[0].Language().String())
	assert.Equal(t, "http://x/post?lang=ko", out.Path())
}

func TestNoDetectionLeavesResourceUnchanged(t *testing.T) {
	r := mustResource(t, "http://x/blog/post", mustContent(t, nil))
	tr := Transform(Options{})

	out, err := tr(r)
	require.NoError(t, err)
	assert.Same(t, r, out)
}
