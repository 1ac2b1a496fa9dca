package browse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAndWait(t *testing.T, f *Feed) FeedResult {
	t.Helper()
	require.True(t, f.LoadMore())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.Wait(ctx))
	return f.Result()
}

func TestFeed_AccumulatesUntilCount(t *testing.T) {
	api := &fakeAPI{count: 25}
	f := newTestCatalog(api).Feed(context.Background(), 20, nil)
	defer f.Close()

	res := f.Result()
	assert.Empty(t, res.Items)
	assert.True(t, res.HasNextPage)
	assert.False(t, res.IsLoading)

	res = loadAndWait(t, f)
	assert.Len(t, res.Items, 20)
	assert.True(t, res.HasNextPage)
	assert.Equal(t, 25, res.TotalCount)

	res = loadAndWait(t, f)
	assert.Len(t, res.Items, 25)
	assert.False(t, res.HasNextPage)
	for i, item := range res.Items {
		assert.Equal(t, i+1, mustID(t, item.URL), "order is page concatenation")
	}

	assert.False(t, f.LoadMore())
	assert.Equal(t, int32(2), api.listCalls.Load())
}

func TestFeed_LengthAfterKLoads(t *testing.T) {
	api := &fakeAPI{count: 95}
	f := newTestCatalog(api).Feed(context.Background(), 20, nil)
	defer f.Close()

	for k := 1; k <= 5; k++ {
		res := loadAndWait(t, f)
		assert.Len(t, res.Items, min(k*20, 95))
	}
	assert.False(t, f.Result().HasNextPage)
}

func TestFeed_LoadMoreCollapsesWhileFetching(t *testing.T) {
	api := &fakeAPI{count: 100, gate: make(chan struct{})}
	f := newTestCatalog(api).Feed(context.Background(), 20, nil)
	defer f.Close()

	require.True(t, f.LoadMore())
	assert.True(t, f.Result().IsLoading)
	assert.False(t, f.LoadMore())
	assert.False(t, f.LoadMore())

	close(api.gate)
	require.NoError(t, f.Wait(context.Background()))
	assert.Equal(t, int32(1), api.listCalls.Load())

	api.gate = make(chan struct{})
	require.True(t, f.LoadMore())
	res := f.Result()
	assert.True(t, res.IsFetchingNextPage)
	assert.False(t, res.IsLoading)
	close(api.gate)
	require.NoError(t, f.Wait(context.Background()))
	assert.Len(t, f.Result().Items, 40)
}

func TestFeed_CloseDiscardsResult(t *testing.T) {
	api := &fakeAPI{count: 100, gate: make(chan struct{})}
	f := newTestCatalog(api).Feed(context.Background(), 20, nil)

	require.True(t, f.LoadMore())
	f.Close()
	close(api.gate)
	require.NoError(t, f.Wait(context.Background()))

	assert.Empty(t, f.Result().Items)
	assert.False(t, f.LoadMore())
}

func TestFeed_RestoresFromCache(t *testing.T) {
	api := &fakeAPI{count: 100}
	catalog := newTestCatalog(api)

	first := catalog.Feed(context.Background(), 20, nil)
	loadAndWait(t, first)
	loadAndWait(t, first)
	first.Close()

	second := catalog.Feed(context.Background(), 20, nil)
	defer second.Close()
	res := second.Result()
	assert.Len(t, res.Items, 40)
	assert.Equal(t, int32(2), api.listCalls.Load())

	res = loadAndWait(t, second)
	assert.Len(t, res.Items, 60)
	assert.Equal(t, "mon-41", res.Items[40].Name)
}

func TestFeed_ErrorThenRetry(t *testing.T) {
	api := &fakeAPI{count: 30, listErr: assert.AnError}
	f := newTestCatalog(api).Feed(context.Background(), 20, nil)
	defer f.Close()

	res := loadAndWait(t, f)
	require.NotNil(t, res.Err)
	assert.Empty(t, res.Items)

	api.listErr = nil
	res = loadAndWait(t, f)
	assert.Nil(t, res.Err)
	assert.Len(t, res.Items, 20)
}
