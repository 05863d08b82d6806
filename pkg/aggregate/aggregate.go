// Package aggregate fans one part query out to many sources, runs each
// source's items through the engine as soon as they arrive and merges the
// outcome deterministically.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/partscope/partscope/pkg/engine"
	"github.com/partscope/partscope/pkg/offer"
	"github.com/partscope/partscope/pkg/sources"
)

// Logger abstracts logging so callers can use logrus or any other logger
// with printf-style methods.
type Logger = sources.Logger

// Query is the part a buyer is looking for.
type Query struct {
	Article string
	Brand   string
}

// Fetcher produces one source's raw items for a query. Implementations should
// honour ctx; Run stops waiting for them once it expires either way.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]sources.RawItem, error)
}

// Config holds everything Run needs.
type Config struct {
	Fetchers    []Fetcher
	Engine      *engine.Engine
	Concurrency int           // defaults to 5 if <= 0
	Timeout     time.Duration // per source; 0 = no limit
	Now         func() time.Time
	Log         Logger // optional; nil = no logging

	// OnSourceDone is called once per source from worker goroutines, as soon
	// as that source is ranked or has failed. Nil = no callback.
	OnSourceDone func(SourceResult)
}

// SourceResult is the outcome of a single source.
type SourceResult struct {
	Source  string
	Offers  []offer.Result
	Err     error
	Elapsed time.Duration
}

// Result is the merged response.
type Result struct {
	Offers  []offer.Result
	Sources []SourceResult // in Fetchers order
	Errors  []error        // non-fatal, one per failed source
}

// ErrNoEngine is returned when Config.Engine is nil.
var ErrNoEngine = errors.New("aggregate: engine is required")

// Run queries every fetcher concurrently. A failing or slow source only
// produces an entry in Result.Errors; the others are unaffected.
func Run(ctx context.Context, cfg Config, q Query) (*Result, error) {
	if cfg.Engine == nil {
		return nil, ErrNoEngine
	}
	log := cfg.Log
	if log == nil {
		log = sources.NopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	// all sources share one order time
	now := nowFn()

	perSource := make([]SourceResult, len(cfg.Fetchers))
	idxChan := make(chan int, len(cfg.Fetchers))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(cfg.Fetchers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				sr := processOneSource(ctx, cfg, cfg.Fetchers[idx], q, now, log)
				perSource[idx] = sr
				if cfg.OnSourceDone != nil {
					cfg.OnSourceDone(sr)
				}
			}
		}()
	}

	for i := range cfg.Fetchers {
		idxChan <- i
	}
	close(idxChan)
	wg.Wait()

	res := &Result{Sources: perSource}
	for _, sr := range perSource {
		if sr.Err != nil {
			res.Errors = append(res.Errors, sr.Err)
			continue
		}
		res.Offers = append(res.Offers, sr.Offers...)
	}
	log.Infof("[aggregate] %d offers from %d sources (%d failed)", len(res.Offers), len(perSource), len(res.Errors))
	return res, nil
}

// processOneSource fetches, normalizes and ranks a single source.
func processOneSource(ctx context.Context, cfg Config, f Fetcher, q Query, now time.Time, log Logger) SourceResult {
	start := time.Now()
	sr := SourceResult{Source: f.Name()}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	items, err := fetch(ctx, f, q)
	if err != nil {
		log.Warnf("[aggregate] failed to fetch %s: %v", f.Name(), err)
		sr.Err = fmt.Errorf("source %s: %w", f.Name(), err)
		sr.Elapsed = time.Since(start)
		return sr
	}
	if items == nil {
		items = []sources.RawItem{}
	}

	offers, err := cfg.Engine.NormalizeAndRank(f.Name(), items, q.Brand, now)
	if err != nil {
		log.Warnf("[aggregate] failed to normalize %s: %v", f.Name(), err)
		sr.Err = fmt.Errorf("source %s: %w", f.Name(), err)
	} else {
		log.Debugf("[aggregate] %s: %d raw items, %d offers", f.Name(), len(items), len(offers))
		sr.Offers = offers
	}
	sr.Elapsed = time.Since(start)
	return sr
}

// fetch returns as soon as either the fetcher or ctx is done.
func fetch(ctx context.Context, f Fetcher, q Query) ([]sources.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		items []sources.RawItem
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		items, err := f.Fetch(ctx, q)
		done <- outcome{items, err}
	}()

	select {
	case o := <-done:
		return o.items, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
