// Package engine exposes the two core entry points: normalize-and-rank for a
// source's raw items, and standalone delivery-date computation.
package engine

import (
	"time"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/normalize"
	"github.com/partscope/partscope/pkg/offer"
	"github.com/partscope/partscope/pkg/ranking"
	"github.com/partscope/partscope/pkg/sources"
)

// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	normalizer *normalize.Normalizer
	ranking    ranking.Registry
	log        sources.Logger
}

// Config wires the engine's registries.
type Config struct {
	Normalize normalize.Config
	Ranking   ranking.Registry
}

// New builds an Engine.
func New(cfg Config) *Engine {
	log := cfg.Normalize.Log
	if log == nil {
		log = sources.NopLogger{}
	}
	return &Engine{
		normalizer: normalize.New(cfg.Normalize),
		ranking:    cfg.Ranking,
		log:        log,
	}
}

// NormalizeAndRank turns one source's raw items into its ranked offers.
// A source without a ranking policy is returned unfiltered.
func (e *Engine) NormalizeAndRank(sourceID string, raw []sources.RawItem, expectedBrand string, now time.Time) ([]offer.Result, error) {
	results, err := e.normalizer.Normalize(sourceID, raw, expectedBrand, now)
	if err != nil {
		return nil, err
	}

	policy, ok := e.ranking[sourceID]
	if !ok {
		e.log.Debugf("[ranking] no policy for source %s, passing %d offers through", sourceID, len(results))
		return results, nil
	}
	return ranking.Rank(results, policy), nil
}

// ComputeDeliveryDate evaluates sourceID's delivery strategy for any item.
func (e *Engine) ComputeDeliveryDate(sourceID string, item delivery.Fields, now time.Time) string {
	return e.normalizer.DeliveryDate(sourceID, item, now)
}
