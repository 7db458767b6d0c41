package pipeline

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/pagestream/asyncstream"
	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/langtag"
	"github.com/tangerg/pagestream/mediatype"
	"github.com/tangerg/pagestream/resource"
)

func mustContent(t *testing.T, lang *langtag.Tag, modified time.Time) *content.Content {
	t.Helper()
	c, err := content.New(mediatype.MustParse("text/html"), lang, modified, []byte("x"))
	require.NoError(t, err)
	return c
}

func mustResource(t *testing.T, path string, contents ...*content.Content) *resource.Resource {
	t.Helper()
	r, err := resource.New(path, contents...)
	require.NoError(t, err)
	return r
}

func paths(t *testing.T, ctx context.Context, p *Pipeline) []string {
	t.Helper()
	reader, err := p.reader(ctx)
	require.NoError(t, err)
	var out []string
	for {
		r, err := reader.Read(ctx)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, r.Path())
	}
}

// S1: A@/a(html,en), B@/b(html,ko), A'@/a(html,en,newer) -> emits A then B, A' discarded.
func TestScenario1DedupFirstWins(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, langtag.MustFromString("en"), time.Unix(1, 0)))
	b := mustResource(t, "http://x/b", mustContent(t, langtag.MustFromString("ko"), time.Unix(1, 0)))
	aPrime := mustResource(t, "http://x/a", mustContent(t, langtag.MustFromString("en"), time.Unix(99, 0)))

	p := FromResources([]*resource.Resource{a, b, aPrime})
	ctx := context.Background()
	assert.Equal(t, []string{"http://x/a", "http://x/b"}, paths(t, ctx, p))
}

func TestRealizationIsIdempotent(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))
	p := FromResources([]*resource.Resource{a})
	ctx := context.Background()

	first := paths(t, ctx, p)
	second := paths(t, ctx, p)
	assert.Equal(t, first, second)
}

func TestMapAssociativity(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))
	p := FromResources([]*resource.Resource{a})

	upper := func(r *resource.Resource) (*resource.Resource, error) { return r.Move(r.Path() + "/up") }
	bang := func(r *resource.Resource) (*resource.Resource, error) { return r.Move(r.Path() + "!") }

	chained := p.Map(upper).Map(bang)
	composed := p.Map(func(r *resource.Resource) (*resource.Resource, error) {
		r2, err := upper(r)
		if err != nil {
			return nil, err
		}
		return bang(r2)
	})

	ctx := context.Background()
	assert.Equal(t, paths(t, ctx, chained), paths(t, ctx, composed))
}

func TestAddReplacesSamePath(t *testing.T) {
	original := mustResource(t, "http://x/a", mustContent(t, nil, time.Unix(1, 0)))
	replacement := mustResource(t, "http://x/a", mustContent(t, nil, time.Unix(2, 0)))

	p := FromResources([]*resource.Resource{original}).Add(replacement)
	ctx := context.Background()

	groups, err := GroupBy(ctx, p, func(r *resource.Resource) (string, bool) { return r.Path(), true })
	require.NoError(t, err)
	require.Contains(t, groups, "http://x/a")
	assert.Len(t, groups["http://x/a"].Resources, 1)
	assert.Equal(t, replacement, groups["http://x/a"].Resources[0])
}

func TestUnionDedupsAcrossBoth(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))
	b := mustResource(t, "http://x/b", mustContent(t, nil, time.Now()))
	aAgain := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))

	left := FromResources([]*resource.Resource{a})
	right := FromResources([]*resource.Resource{aAgain, b})

	ctx := context.Background()
	assert.Equal(t, []string{"http://x/a", "http://x/b"}, paths(t, ctx, left.Union(right)))
}

func TestGetLastModifiedIsMax(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Unix(1, 0)))
	b := mustResource(t, "http://x/b", mustContent(t, nil, time.Unix(500, 0)))
	p := FromResources([]*resource.Resource{a, b})

	max, found, err := p.GetLastModified(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, time.Unix(500, 0), max)
}

func TestGetLastModifiedEmpty(t *testing.T) {
	p := FromResources(nil)
	_, found, err := p.GetLastModified(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestForEachAwaitsPendingConcurrently(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))
	b := mustResource(t, "http://x/b", mustContent(t, nil, time.Now()))
	p := FromResources([]*resource.Resource{a, b})

	var completed atomic.Int32
	err := p.ForEach(context.Background(), func(r *resource.Resource, index int) (Pending, error) {
		return func(ctx context.Context) error {
			completed.Add(1)
			return nil
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), completed.Load())
}

func TestForEachStopsOnSynchronousError(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))
	b := mustResource(t, "http://x/b", mustContent(t, nil, time.Now()))
	p := FromResources([]*resource.Resource{a, b})

	boom := assert.AnError
	var seen int
	err := p.ForEach(context.Background(), func(r *resource.Resource, index int) (Pending, error) {
		seen++
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, seen)
}

// S6: forEachWithReloading over a pipeline whose monitor yields twice then ends.
func TestScenario6ForEachWithReloading(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))

	events := asyncstream.OfSlice([]struct{}{{}, {}})
	p := FromSource(
		func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
			return asyncstream.OfSlice([]*resource.Resource{a}), nil
		},
		func(ctx context.Context) (Monitor, error) {
			return events, nil
		},
	)

	var calls atomic.Int32
	err := p.ForEachWithReloading(context.Background(), func(r *resource.Resource, index int) (Pending, error) {
		calls.Add(1)
		return nil, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load()) // initial + 2 reload events
}

func TestNoMonitorReturnsAfterInitialPass(t *testing.T) {
	a := mustResource(t, "http://x/a", mustContent(t, nil, time.Now()))
	p := FromResources([]*resource.Resource{a})

	var calls atomic.Int32
	err := p.ForEachWithReloading(context.Background(), func(r *resource.Resource, index int) (Pending, error) {
		calls.Add(1)
		return nil, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
