// Package normalize maps raw supplier items into canonical offers.
package normalize

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/partscope/partscope/pkg/brand"
	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/offer"
	"github.com/partscope/partscope/pkg/sources"
)

// ErrInvalidInput is returned when the item list itself is missing.
var ErrInvalidInput = sources.ErrInvalidInput

// Config holds everything a Normalizer needs. Nil fields get defaults.
type Config struct {
	Adapters  sources.Table     // defaults to sources.Builtin()
	Delivery  delivery.Registry // sources missing here get the sentinel date
	Estimator *delivery.Estimator
	Brands    *brand.Matcher // defaults to brand.Default
	Log       sources.Logger // optional; nil = no logging
	NewID     func() string  // defaults to uuid.NewString
}

// Normalizer turns one source's raw items into canonical offers. It holds
// only read-only configuration and is safe for concurrent use.
type Normalizer struct {
	adapters  sources.Table
	delivery  delivery.Registry
	estimator *delivery.Estimator
	brands    *brand.Matcher
	log       sources.Logger
	newID     func() string
}

// New builds a Normalizer from cfg.
func New(cfg Config) *Normalizer {
	n := &Normalizer{
		adapters:  cfg.Adapters,
		delivery:  cfg.Delivery,
		estimator: cfg.Estimator,
		brands:    cfg.Brands,
		log:       cfg.Log,
		newID:     cfg.NewID,
	}
	if n.adapters == nil {
		n.adapters = sources.Builtin()
	}
	if n.estimator == nil {
		n.estimator = delivery.NewEstimator(nil)
	}
	if n.brands == nil {
		n.brands = brand.Default
	}
	if n.log == nil {
		n.log = sources.NopLogger{}
	}
	if n.newID == nil {
		n.newID = uuid.NewString
	}
	return n
}

// Normalize decodes items for sourceID. Configuration gaps never drop items:
// an unknown source is read with the generic adapter and a missing delivery
// config yields the sentinel date. Only a nil item list is an error.
// now is read in the estimator's business location, free-text rules included.
func (n *Normalizer) Normalize(sourceID string, items []sources.RawItem, expectedBrand string, now time.Time) ([]offer.Result, error) {
	if items == nil {
		return nil, fmt.Errorf("no items for source %q: %w", sourceID, ErrInvalidInput)
	}

	adapter, known := n.adapters.Lookup(sourceID)
	if !known {
		n.log.Warnf("[normalize] no adapter for source %s, reading canonical field names", sourceID)
	}
	cfg, hasDelivery := n.delivery[sourceID]
	if !hasDelivery && len(items) > 0 {
		n.log.Warnf("[normalize] no delivery config for source %s, dates will be %s", sourceID, offer.SentinelDate)
	}

	now = now.In(n.estimator.Location())
	env := sources.Env{SourceID: sourceID, Now: now, Log: n.log}
	results := make([]offer.Result, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			n.log.Warnf("[normalize] %s: skipping item %d, not a JSON object", sourceID, i)
			continue
		}

		rec := adapter.Decode(item, env)
		if !(rec.Price > 0) || math.IsInf(rec.Price, 0) {
			n.log.Debugf("[normalize] %s: dropping %s/%s with price %v", sourceID, rec.Brand, rec.Article, rec.Price)
			continue
		}

		res := rec.Result
		res.SourceID = sourceID
		res.ID = n.newID()
		res.BrandNeedsReview = !n.brands.IsRelevantBrand(expectedBrand, res.Brand)
		res.Returnable = !rec.NoReturn
		res.Multiplicity = rec.Packing
		if res.Multiplicity < 1 {
			res.Multiplicity = 1
		}
		res.DeliveryProbability = finiteNonNegative(res.DeliveryProbability)
		res.DeadlineHours = finiteNonNegative(res.DeadlineHours)
		res.DeadlineMaxHours = finiteNonNegative(res.DeadlineMaxHours)

		if hasDelivery {
			day, ok := n.estimator.Estimate(cfg, &res, now)
			if !ok {
				n.log.Debugf("[delivery] %s: unresolved date for %s/%s (%s)", sourceID, res.Brand, res.Article, strategyName(cfg))
			}
			res.DeliveryDate = delivery.FormatDate(day, ok)
		} else {
			res.DeliveryDate = offer.SentinelDate
		}

		results = append(results, res)
	}
	return results, nil
}

// DeliveryDate computes a date for any item using sourceID's config.
func (n *Normalizer) DeliveryDate(sourceID string, item delivery.Fields, now time.Time) string {
	cfg, ok := n.delivery[sourceID]
	if !ok {
		n.log.Warnf("[normalize] no delivery config for source %s", sourceID)
		return offer.SentinelDate
	}
	return n.estimator.EstimateDate(cfg, item, now)
}

func finiteNonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func strategyName(cfg delivery.Config) string {
	if cfg.Strategy == nil {
		return "none"
	}
	return cfg.Strategy.Name()
}
