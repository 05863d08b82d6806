package aggregate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/engine"
	"github.com/partscope/partscope/pkg/normalize"
	"github.com/partscope/partscope/pkg/sources"
)

type fakeFetcher struct {
	name  string
	raw   string
	err   error
	delay time.Duration
}

func (f fakeFetcher) Name() string { return f.name }

func (f fakeFetcher) Fetch(ctx context.Context, _ Query) ([]sources.RawItem, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return sources.ParseItems([]byte(f.raw))
}

var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func testEngine() *engine.Engine {
	return engine.New(engine.Config{
		Normalize: normalize.Config{
			Delivery:  delivery.Registry{"b": {Strategy: delivery.DirectFromAPI{Field: "apiDate"}}},
			Estimator: delivery.NewEstimator(time.UTC),
		},
	})
}

func TestRunMergesInFetcherOrder(t *testing.T) {
	var mu sync.Mutex
	var done []string

	res, err := Run(context.Background(), Config{
		Fetchers: []Fetcher{
			fakeFetcher{name: "a", raw: `[{"article":"1","price":10}]`, delay: 30 * time.Millisecond},
			fakeFetcher{name: "b", raw: `[{"article":"2","price":20,"deliveryDate":"2025-03-14"}]`},
			fakeFetcher{name: "c", err: errors.New("boom")},
		},
		Engine:      testEngine(),
		Concurrency: 3,
		Now:         func() time.Time { return fixedNow },
		OnSourceDone: func(sr SourceResult) {
			mu.Lock()
			done = append(done, sr.Source)
			mu.Unlock()
		},
	}, Query{Article: "1", Brand: ""})
	require.NoError(t, err)

	require.Len(t, res.Offers, 2)
	assert.Equal(t, "a", res.Offers[0].SourceID)
	assert.Equal(t, "b", res.Offers[1].SourceID)
	assert.Equal(t, "2025-03-14", res.Offers[1].DeliveryDate)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "source c")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, done)

	require.Len(t, res.Sources, 3)
	assert.Equal(t, "c", res.Sources[2].Source)
	assert.Error(t, res.Sources[2].Err)
}

func TestRunPerSourceTimeout(t *testing.T) {
	res, err := Run(context.Background(), Config{
		Fetchers: []Fetcher{
			fakeFetcher{name: "slow", raw: `[{"price":1}]`, delay: time.Second},
			fakeFetcher{name: "fast", raw: `[{"price":2}]`},
		},
		Engine:  testEngine(),
		Timeout: 50 * time.Millisecond,
	}, Query{})
	require.NoError(t, err)

	require.Len(t, res.Offers, 1)
	assert.Equal(t, "fast", res.Offers[0].SourceID)
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.Is(res.Errors[0], context.DeadlineExceeded))
}

func TestRunInvalidPayloadIsPerSource(t *testing.T) {
	res, err := Run(context.Background(), Config{
		Fetchers: []Fetcher{
			fakeFetcher{name: "broken", raw: `{"not":"an array"}`},
			fakeFetcher{name: "ok", raw: `[{"price":5}]`},
		},
		Engine: testEngine(),
	}, Query{})
	require.NoError(t, err)
	assert.Len(t, res.Offers, 1)
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.Is(res.Errors[0], sources.ErrInvalidInput))
}

func TestRunRequiresEngine(t *testing.T) {
	_, err := Run(context.Background(), Config{}, Query{})
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.json"), []byte(`[{"price":1},{"price":2}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.html"), []byte(`<table class="offers"><tbody>
		<tr><td class="article">X</td><td class="price">100</td></tr>
	</tbody></table>`), 0o644))

	items, err := DirFetcher{Dir: dir, Source: "api"}.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = DirFetcher{Dir: dir, Source: "shop"}.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "X", items[0].Text("article"))

	_, err = DirFetcher{Dir: dir, Source: "missing"}.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrNoCapture)

	fetchers := DirFetchers(dir, []string{"shop", "api"})
	require.Len(t, fetchers, 2)
	assert.Equal(t, "shop", fetchers[0].Name())
}
