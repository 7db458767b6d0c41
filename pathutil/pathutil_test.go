package pathutil

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/mediatype"
	"github.com/tangerg/pagestream/resource"
)

// S5: rebase(file:///tmp/foo/, http://x/) applied to file:///tmp/foo/bar/index.html
// -> http://x/bar/index.html; applied to file:///tmp/bar/index.html -> unchanged.
func TestScenario5Rebase(t *testing.T) {
	rebase := Rebase("file:///tmp/foo/", "http://x/")

	out, err := rebase("file:///tmp/foo/bar/index.html")
	require.NoError(t, err)
	assert.Equal(t, "http://x/bar/index.html", out)

	unchanged, err := rebase("file:///tmp/bar/index.html")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/bar/index.html", unchanged)
}

func TestRebaseRejectsBaseWithoutTrailingSlash(t *testing.T) {
	rebase := Rebase("file:///tmp/foo", "http://x/")
	_, err := rebase("file:///tmp/foo/bar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must end with a slash")
}

func TestRemoveBaseRejectsQueryOrHashBase(t *testing.T) {
	_, err := RemoveBase("http://x/a", "http://x/a/?q=1/")
	require.Error(t, err)

	_, err = RemoveBase("http://x/a", "http://x/a/#frag/")
	require.Error(t, err)
}

func TestIsBasedOn(t *testing.T) {
	ok, err := IsBasedOn("http://x/a/b", "http://x/a/")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsBasedOn("http://y/a/b", "http://x/a/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func mustResource(t *testing.T, path string) *resource.Resource {
	t.Helper()
	c, err := content.New(mediatype.MustParse("text/html"), nil, time.Now(), []byte("x"))
	require.NoError(t, err)
	r, err := resource.New(path, c)
	require.NoError(t, err)
	return r
}

func TestHavingExtension(t *testing.T) {
	pred := HavingExtension("html", ".md")
	assert.True(t, pred(mustResource(t, "http://x/a.html")))
	assert.True(t, pred(mustResource(t, "http://x/a.md")))
	assert.False(t, pred(mustResource(t, "http://x/a.json")))
}

func TestIntoDirectoryStripsExtension(t *testing.T) {
	into := IntoDirectory(true)
	out, err := into("http://x/blog/post.html")
	require.NoError(t, err)
	assert.Equal(t, "http://x/blog/post/", out)
}

func TestIntoDirectoryKeepsExtensionWhenNotStripping(t *testing.T) {
	into := IntoDirectory(false)
	out, err := into("http://x/blog/post.html")
	require.NoError(t, err)
	assert.Equal(t, "http://x/blog/post.html/", out)
}

func TestReplaceBasename(t *testing.T) {
	rename := ReplaceBasename(regexp.MustCompile(`\.html$`), ".htm")
	out, err := rename("http://x/blog/post.html")
	require.NoError(t, err)
	assert.Equal(t, "http://x/blog/post.htm", out)
}

func TestExtractFromURL(t *testing.T) {
	val, ok, err := ExtractFromURL("http://x/en/blog/post.html", regexp.MustCompile(`^([a-z]{2})/`), ExtractOptions{
		Base: "http://x/",
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "en", val)
}
