package pager

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves a numbered collection in fixed page sizes
type fakeServer struct {
	total     int
	pageSizes []int // Consumed in order; last size repeats
	failAt    int   // startIndex that errors, -1 for none
	requests  []int // startIndex of every request
}

func (f *fakeServer) fetch(_ context.Context, start int) ([]int, int, error) {
	f.requests = append(f.requests, start)
	if start == f.failAt {
		return nil, 0, errors.New("connection reset")
	}

	size := f.pageSizes[len(f.pageSizes)-1]
	if n := len(f.requests) - 1; n < len(f.pageSizes) {
		size = f.pageSizes[n]
	}

	var items []int
	for i := start; i < start+size && i < f.total; i++ {
		items = append(items, i)
	}
	return items, f.total, nil
}

func TestFetchAll_VariablePages(t *testing.T) {
	srv := &fakeServer{total: 25, pageSizes: []int{10, 10, 5}, failAt: -1}

	items, err := FetchAll(context.Background(), srv.fetch)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 10, 20}, srv.requests, "exactly three sequential page requests")
	require.Len(t, items, 25)
	for i, v := range items {
		assert.Equal(t, i, v, "items stay in server order")
	}
}

func TestFetchAll_AdvancesByReturnedCount(t *testing.T) {
	// Server caps pages at 7 regardless of what the client would like
	srv := &fakeServer{total: 20, pageSizes: []int{7}, failAt: -1}

	items, err := FetchAll(context.Background(), srv.fetch)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 7, 14}, srv.requests)
	assert.Len(t, items, 20)
}

func TestFetchAll_ZeroTotal(t *testing.T) {
	srv := &fakeServer{total: 0, pageSizes: []int{10}, failAt: -1}

	items, err := FetchAll(context.Background(), srv.fetch)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Len(t, srv.requests, 1)
}

func TestFetchAll_EmptyPageBeforeTotal(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, start int) ([]string, int, error) {
		calls++
		if start == 0 {
			return []string{"a", "b"}, 10, nil
		}
		return nil, 10, nil
	}

	items, err := FetchAll(context.Background(), fetch)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrNoProgress)
	assert.Equal(t, 2, calls, "terminates instead of spinning")
}

func TestFetchAll_PageErrorDiscardsPartial(t *testing.T) {
	srv := &fakeServer{total: 30, pageSizes: []int{10}, failAt: 20}

	items, err := FetchAll(context.Background(), srv.fetch)
	assert.Nil(t, items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page at 20")
	assert.Equal(t, []int{0, 10, 20}, srv.requests, "no retry")
}

func TestFetchAll_FirstPageError(t *testing.T) {
	srv := &fakeServer{total: 30, pageSizes: []int{10}, failAt: 0}

	items, err := FetchAll(context.Background(), srv.fetch)
	assert.Nil(t, items)
	assert.Error(t, err)
}

func TestFetchAll_TrimsOvershoot(t *testing.T) {
	fetch := func(_ context.Context, start int) ([]int, int, error) {
		if start == 0 {
			return []int{1, 2, 3}, 4, nil
		}
		return []int{4, 5, 6}, 4, nil
	}

	items, err := FetchAll(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, items)
}

func TestFetchAll_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(_ context.Context, start int) ([]int, int, error) {
		cancel()
		return []int{start}, 5, nil
	}

	items, err := FetchAll(ctx, fetch)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchAll_Progress(t *testing.T) {
	srv := &fakeServer{total: 25, pageSizes: []int{10}, failAt: -1}

	var seen [][2]int
	_, err := FetchAll(context.Background(), srv.fetch, WithProgress(func(loaded, total int) {
		seen = append(seen, [2]int{loaded, total})
	}))
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{10, 25}, {20, 25}, {25, 25}}, seen)
}

func TestFetchAll_HugeTotalDoesNotPreallocate(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, start int) ([]int, int, error) {
		calls++
		if start == 0 {
			return []int{1}, math.MaxInt, nil
		}
		return nil, math.MaxInt, nil
	}

	var items []int
	var err error
	require.NotPanics(t, func() {
		items, err = FetchAll(context.Background(), fetch)
	})
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrNoProgress)
	assert.Equal(t, 2, calls)
}
