package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/normalize"
	"github.com/partscope/partscope/pkg/offer"
	"github.com/partscope/partscope/pkg/ranking"
	"github.com/partscope/partscope/pkg/sources"
)

var msk = time.FixedZone("UTC+03:00", 3*3600)

func testEngine() *Engine {
	return New(Config{
		Normalize: normalize.Config{
			Delivery: delivery.Registry{
				"tradepoint": {Strategy: delivery.ScheduleBased{
					DeliveryWeekdays: []time.Weekday{time.Monday, time.Thursday},
					Readiness:        delivery.FromCutoff{Cutoff: delivery.Clock{Hour: 14}, Before: 24 * time.Hour, After: 48 * time.Hour},
				}},
			},
			Estimator: delivery.NewEstimator(msk),
		},
		Ranking: ranking.Registry{"tradepoint": ranking.DefaultPolicy()},
	})
}

func TestNormalizeAndRank(t *testing.T) {
	var rows []string
	for i := 1; i <= 10; i++ {
		rows = append(rows, fmt.Sprintf(`{"partNumber":"W712","manufacturer":"MANN","priceRub":%d,"available":%d}`, i*100, i))
	}
	raw, err := sources.ParseItems([]byte("[" + strings.Join(rows, ",") + "]"))
	require.NoError(t, err)

	now := time.Date(2025, 3, 12, 10, 0, 0, 0, msk)
	got, err := testEngine().NormalizeAndRank("tradepoint", raw, "Mann-Filter", now)
	require.NoError(t, err)

	// All offers share a date, so the cheapest is also the fastest.
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].Price)
	assert.Equal(t, "2025-03-17", got[0].DeliveryDate)
	assert.Equal(t, "Tradepoint", got[0].WarehouseName)
	assert.False(t, got[0].BrandNeedsReview)
}

func TestNormalizeAndRankPassThrough(t *testing.T) {
	raw, err := sources.ParseItems([]byte(`[{"price":10,"deliveryProbability":5},{"price":20}]`))
	require.NoError(t, err)

	got, err := testEngine().NormalizeAndRank("elsewhere", raw, "", time.Now())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, offer.SentinelDate, r.DeliveryDate)
	}
}

func TestNormalizeAndRankInvalidInput(t *testing.T) {
	_, err := testEngine().NormalizeAndRank("tradepoint", nil, "", time.Now())
	assert.True(t, errors.Is(err, normalize.ErrInvalidInput))
}

func TestComputeDeliveryDate(t *testing.T) {
	e := testEngine()
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, msk)

	assert.Equal(t, "2025-03-17", e.ComputeDeliveryDate("tradepoint", &offer.Result{}, now))
	assert.Equal(t, offer.SentinelDate, e.ComputeDeliveryDate("unknown", &offer.Result{}, now))
}
