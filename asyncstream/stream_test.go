package asyncstream

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](t *testing.T, r Reader[T]) []T {
	t.Helper()
	var out []T
	ctx := context.Background()
	for {
		v, err := r.Read(ctx)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, v)
	}
}

func TestOfSliceDrain(t *testing.T) {
	r := OfSlice([]int{1, 2, 3})
	assert.Equal(t, []int{1, 2, 3}, drain(t, r))
}

func TestMapPropagatesError(t *testing.T) {
	r := Map[int, int](OfSlice([]int{1, 2, 3}), func(v int) (int, error) {
		if v == 2 {
			return 0, assertErr
		}
		return v * 10, nil
	})
	ctx := context.Background()
	v, err := r.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	_, err = r.Read(ctx)
	assert.ErrorIs(t, err, assertErr)
}

func TestFilterSkipsNonMatching(t *testing.T) {
	r := Filter[int](OfSlice([]int{1, 2, 3, 4}), func(v int) (bool, error) {
		return v%2 == 0, nil
	})
	assert.Equal(t, []int{2, 4}, drain(t, r))
}

func TestMultiReaderConcatenates(t *testing.T) {
	r := MultiReader[int](OfSlice([]int{1, 2}), OfSlice([]int{3, 4}))
	assert.Equal(t, []int{1, 2, 3, 4}, drain(t, r))
}

func TestDistinctByFirstWins(t *testing.T) {
	r := DistinctBy[int, int](OfSlice([]int{1, 1, 2, 1, 3}), func(v int) int { return v })
	assert.Equal(t, []int{1, 2, 3}, drain(t, r))
}

var assertErr = io.ErrUnexpectedEOF
