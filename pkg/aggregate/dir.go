package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/partscope/partscope/pkg/sources"
	"github.com/partscope/partscope/pkg/sources/storefront"
)

// ErrNoCapture is returned when a source has no captured response on disk.
var ErrNoCapture = errors.New("no captured response")

// DirFetcher replays captured source responses: <Dir>/<Source>.json holds a
// JSON array of items, <Dir>/<Source>.html a scraped storefront page.
type DirFetcher struct {
	Dir    string
	Source string
	// Layout decodes HTML captures; the zero value means storefront.DefaultLayout.
	Layout storefront.Layout
}

func (d DirFetcher) Name() string { return d.Source }

func (d DirFetcher) Fetch(ctx context.Context, _ Query) ([]sources.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := filepath.Join(d.Dir, d.Source)
	if data, err := os.ReadFile(base + ".json"); err == nil {
		return sources.ParseItems(data)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}

	data, err := os.ReadFile(base + ".html")
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", d.Source, ErrNoCapture)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}

	layout := d.Layout
	if layout.Row == "" {
		layout = storefront.DefaultLayout
	}
	return storefront.Decode(data, layout)
}

// DirFetchers returns one DirFetcher per source id, in the given order.
func DirFetchers(dir string, ids []string) []Fetcher {
	out := make([]Fetcher, 0, len(ids))
	for _, id := range ids {
		out = append(out, DirFetcher{Dir: dir, Source: id})
	}
	return out
}
