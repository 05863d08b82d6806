// Package ranking filters, deduplicates and orders one source's offers.
package ranking

import (
	"math"
	"sort"

	"github.com/partscope/partscope/pkg/offer"
)

// Policy bounds how many offers of one source reach the buyer.
type Policy struct {
	MinProbability            float64 `json:"minProbability"`
	TopPercent                float64 `json:"topPercent"`
	MaxItems                  int     `json:"maxItems"` // 0 = unbounded
	MinResultsBeforeFiltering int     `json:"minResultsBeforeFiltering"`
}

// DefaultPolicy is applied to opted-in sources that leave fields unset.
func DefaultPolicy() Policy {
	return Policy{
		MinProbability:            80,
		TopPercent:                0.10,
		MinResultsBeforeFiltering: 4,
	}
}

// Registry maps source ids to ranking policies. Sources without an entry are
// not ranked.
type Registry map[string]Policy

// Rank returns the offers p lets through, cheapest first. The input is not modified.
func Rank(items []offer.Result, p Policy) []offer.Result {
	kept := make([]offer.Result, 0, len(items))
	for _, it := range items {
		if it.DeliveryProbability >= p.MinProbability {
			kept = append(kept, it)
		}
	}
	kept = dedupe(kept)
	sortByPriceAndEpoch(kept)

	if len(kept) > p.MinResultsBeforeFiltering {
		n := topCount(len(kept), p.TopPercent)
		selected := make([]offer.Result, 0, n+1)
		selected = append(selected, kept[:n]...)
		if i, ok := fastest(kept); ok {
			selected = append(selected, kept[i])
		}
		kept = dedupe(selected)
		sortByPriceAndEpoch(kept)
	}

	if p.MaxItems > 0 && len(kept) > p.MaxItems {
		kept = kept[:p.MaxItems]
	}
	return kept
}

// RankAll ranks each source's group with its policy. Groups keep the order in
// which their source first appears; sources missing from reg pass through.
func RankAll(items []offer.Result, reg Registry) []offer.Result {
	var order []string
	groups := make(map[string][]offer.Result)
	for _, it := range items {
		if _, seen := groups[it.SourceID]; !seen {
			order = append(order, it.SourceID)
		}
		groups[it.SourceID] = append(groups[it.SourceID], it)
	}

	out := make([]offer.Result, 0, len(items))
	for _, src := range order {
		if p, ok := reg[src]; ok {
			out = append(out, Rank(groups[src], p)...)
			continue
		}
		out = append(out, groups[src]...)
	}
	return out
}

// dedupe keeps the first offer of every DedupKey.
func dedupe(items []offer.Result) []offer.Result {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for i := range items {
		k := offer.DedupKey(&items[i])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, items[i])
	}
	return out
}

func sortByPriceAndEpoch(items []offer.Result) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Price != items[j].Price {
			return items[i].Price < items[j].Price
		}
		return items[i].DeliveryEpoch() < items[j].DeliveryEpoch()
	})
}

// topCount is ceil(n*percent) clamped to [0, n]. The epsilon absorbs float
// noise such as 20*0.15 = 3.0000000000000004.
func topCount(n int, percent float64) int {
	if percent <= 0 || math.IsNaN(percent) {
		return 0
	}
	c := int(math.Ceil(float64(n)*percent - 1e-9))
	if c > n {
		return n
	}
	return c
}

// fastest returns the index of the earliest known delivery. Offers with the
// sentinel date or no timing data are never chosen.
func fastest(items []offer.Result) (int, bool) {
	best, bestEpoch := -1, int64(0)
	for i := range items {
		if !items[i].HasKnownDelivery() {
			continue
		}
		if e := items[i].DeliveryEpoch(); best < 0 || e < bestEpoch {
			best, bestEpoch = i, e
		}
	}
	return best, best >= 0
}
