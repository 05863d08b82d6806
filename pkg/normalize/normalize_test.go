package normalize

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/offer"
	"github.com/partscope/partscope/pkg/sources"
)

type countingLogger struct {
	sources.NopLogger
	warnings []string
}

func (l *countingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

var now = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func mustItems(t *testing.T, payload string) []sources.RawItem {
	t.Helper()
	items, err := sources.ParseItems([]byte(payload))
	require.NoError(t, err)
	return items
}

func newTestNormalizer(log sources.Logger) *Normalizer {
	seq := 0
	return New(Config{
		Delivery: delivery.Registry{
			"apex": {Strategy: delivery.DirectFromAPI{Field: "apiDate"}},
			"depot24": {
				Strategy: delivery.ShipmentScheduleBased{
					Readiness:        delivery.PlusHoursFromResult{Field: "deadlineMaxHours"},
					ShipmentWeekdays: []time.Weekday{time.Thursday},
					ShipmentCutoff:   delivery.Clock{Hour: 12},
					DeliveryDelay:    48 * time.Hour,
				},
				AvoidWeekdays: []time.Weekday{time.Saturday, time.Sunday},
			},
		},
		Estimator: delivery.NewEstimator(time.UTC),
		Log:       log,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
}

func TestNormalizeDerivedFields(t *testing.T) {
	n := newTestNormalizer(nil)
	items := mustItems(t, `[
		{"code":"0986452041","producer":"БОШ","price":{"value":500},"stock":4,"minOrder":0,
		 "flags":{"noReturn":true},"delivery":{"date":"2025-03-14T10:00:00Z","probability":92}},
		{"code":"0986452041","producer":"Febi","price":{"value":450},"stock":"под заказ","minOrder":4,
		 "delivery":{"probability":-3}}
	]`)

	got, err := n.Normalize("apex", items, "Bosch", now)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "apex", first.SourceID)
	assert.False(t, first.BrandNeedsReview)
	assert.False(t, first.Returnable)
	assert.Equal(t, 1, first.Multiplicity)
	assert.Equal(t, "2025-03-14", first.DeliveryDate)
	assert.Equal(t, 92.0, first.DeliveryProbability)

	second := got[1]
	assert.Equal(t, "id-2", second.ID)
	assert.True(t, second.BrandNeedsReview)
	assert.True(t, second.Returnable)
	assert.Equal(t, 4, second.Multiplicity)
	assert.Equal(t, offer.SentinelDate, second.DeliveryDate)
	assert.Equal(t, 0.0, second.DeliveryProbability)
	assert.Equal(t, "под заказ", second.Availability.Label)
}

func TestNormalizeDropsNonPositivePrices(t *testing.T) {
	n := newTestNormalizer(nil)
	items := mustItems(t, `[{"cost":0},{"cost":-1},{"cost":"abc"},{"cost":120,"oem":"X1","term":20}]`)

	got, err := n.Normalize("depot24", items, "", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X1", got[0].Article)
	// Ready Thu 06:00, ships Thu 12:00, +48h lands on Saturday, rolled to Monday.
	assert.Equal(t, "2025-03-17", got[0].DeliveryDate)
}

func TestNormalizeConfigGaps(t *testing.T) {
	log := &countingLogger{}
	n := newTestNormalizer(log)
	items := mustItems(t, `[{"article":"A1","brand":"Mahle","price":99,"deliveryProbability":80}, 7, "x"]`)

	got, err := n.Normalize("unknown-source", items, "Mahle", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].Article)
	assert.Equal(t, offer.SentinelDate, got[0].DeliveryDate)
	assert.False(t, got[0].BrandNeedsReview)
	// adapter gap, delivery gap, two skipped elements
	assert.Len(t, log.warnings, 4)
}

func TestNormalizeInvalidInput(t *testing.T) {
	n := newTestNormalizer(nil)

	_, err := n.Normalize("apex", nil, "Bosch", now)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	got, err := n.Normalize("apex", []sources.RawItem{}, "Bosch", now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeUniqueIDs(t *testing.T) {
	n := New(Config{})
	items := mustItems(t, `[{"price":1},{"price":2},{"price":3},{"price":4}]`)

	got, err := n.Normalize("generic", items, "", now)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range got {
		require.NotEmpty(t, r.ID)
		require.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestDeliveryDate(t *testing.T) {
	n := newTestNormalizer(nil)
	item := &offer.Result{SourceExtra: map[string]any{"apiDate": "2025-03-14T10:00:00Z"}}

	assert.Equal(t, "2025-03-14", n.DeliveryDate("apex", item, now))
	assert.Equal(t, offer.SentinelDate, n.DeliveryDate("nobody", item, now))
}

func TestNormalizeRuleUsesBusinessZone(t *testing.T) {
	msk := time.FixedZone("UTC+03:00", 3*3600)
	n := New(Config{
		Delivery: delivery.Registry{
			"northgate": {Strategy: delivery.ScheduleBased{
				DeliveryWeekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
				Readiness:        delivery.PlusHoursFromResult{Field: "deadlineMaxHours"},
				AllowSameDay:     true,
			}},
		},
		Estimator: delivery.NewEstimator(msk),
	})
	items := mustItems(t, `[{"article":"W712","brand":"MANN","price":640,"delivery_rule":"до 15:00"}]`)

	// Friday 15:30 in the business zone is 12:30 UTC, before a UTC-read cutoff.
	local := time.Date(2025, 3, 14, 15, 30, 0, 0, msk)
	for _, at := range []time.Time{local, local.UTC()} {
		got, err := n.Normalize("northgate", items, "Mann", at)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 72.0, got[0].DeadlineMaxHours, "now=%s", at)
		assert.Equal(t, "2025-03-17", got[0].DeliveryDate, "now=%s", at)
	}
}
