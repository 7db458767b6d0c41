package content

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/mediatype"
)

func TestGetBodySingleFlight(t *testing.T) {
	var calls atomic.Int32
	c, err := NewLazy(mediatype.MustParse("text/plain"), nil, time.Now(), func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []byte("hello"), nil
	})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	results := make([][]byte, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			b, err := c.GetBody(context.Background())
			require.NoError(t, err)
			results[i] = b
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "hello", string(r))
	}

	// cached afterwards too
	b, err := c.GetBody(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, int32(1), calls.Load())
}

func TestReplaceIsImmutable(t *testing.T) {
	original, err := New(mediatype.MustParse("text/html"), nil, time.Unix(0, 0), []byte("en"))
	require.NoError(t, err)

	translated, err := original.Replace(
		WithLanguage("ko"),
		WithBody([]byte("ko")),
	)
	require.NoError(t, err)

	assert.Nil(t, original.Language())
	require.NotNil(t, translated.Language())
	assert.Equal(t, "ko", translated.Language().String())

	origBody, _ := original.GetBody(context.Background())
	newBody, _ := translated.GetBody(context.Background())
	assert.Equal(t, "en", string(origBody))
	assert.Equal(t, "ko", string(newBody))
}

func TestReplaceClearLanguage(t *testing.T) {
	tagged, err := New(mediatype.MustParse("text/html"), langtag.MustFromString("en"), time.Now(), nil)
	require.NoError(t, err)

	cleared, err := tagged.Replace(WithLanguage(nil))
	require.NoError(t, err)
	assert.Nil(t, cleared.Language())
}

func TestKeyUsesTypeAndLanguage(t *testing.T) {
	en, _ := New(mediatype.MustParse("text/html"), langtag.MustFromString("en"), time.Now(), nil)
	ko, _ := New(mediatype.MustParse("text/html"), langtag.MustFromString("ko"), time.Now(), nil)
	assert.NotEqual(t, en.Key(), ko.Key())
}

func TestNewRequiresMediaType(t *testing.T) {
	_, err := New(nil, nil, time.Now(), nil)
	require.Error(t, err)
}
