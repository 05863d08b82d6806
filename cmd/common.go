package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/partscope/partscope/internal/utils"
	"github.com/partscope/partscope/pkg/brand"
	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/engine"
	"github.com/partscope/partscope/pkg/normalize"
	"github.com/partscope/partscope/pkg/offer"
	"github.com/partscope/partscope/pkg/registry"
	"github.com/partscope/partscope/pkg/sources"
)

// setup is what every command builds from the global settings.
type setup struct {
	registry *registry.Registry
	adapters sources.Table
	loc      *time.Location
	brands   *brand.Matcher
	engine   *engine.Engine
}

func loadSetup() (*setup, error) {
	reg, err := registry.Load(viper.GetString("registry"))
	if err != nil {
		return nil, err
	}
	loc, err := utils.ParseBusinessZone(viper.GetString("timezone"))
	if err != nil {
		return nil, err
	}

	s := &setup{
		registry: reg,
		adapters: sources.Builtin(),
		loc:      loc,
		brands:   brand.Default.With(reg.BrandAliases),
	}
	s.engine = engine.New(engine.Config{
		Normalize: normalize.Config{
			Adapters:  s.adapters,
			Delivery:  reg.Delivery,
			Estimator: delivery.NewEstimator(loc),
			Brands:    s.brands,
			Log:       utils.Log,
		},
		Ranking: reg.Ranking,
	})
	return s, nil
}

// resolveNow parses the --now flag in the business timezone; empty means the wall clock.
func resolveNow(cmd *cobra.Command, loc *time.Location) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("now")
	if strings.TrimSpace(raw) == "" {
		return time.Now().In(loc), nil
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", raw, err)
	}
	return t.In(loc), nil
}

func wantJSON(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printOffers(offers []offer.Result) {
	if len(offers) == 0 {
		fmt.Println("No offers.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Brand", "Article", "Price", "Stock", "Delivery", "Prob %", "Warehouse", "Review"})
	for _, o := range offers {
		review := ""
		if o.BrandNeedsReview {
			review = "brand?"
		}
		t.AppendRow(table.Row{
			o.SourceID,
			o.Brand,
			o.Article,
			fmt.Sprintf("%.2f", o.Price),
			o.Availability.String(),
			displayDate(o.DeliveryDate),
			fmt.Sprintf("%.0f", o.DeliveryProbability),
			o.WarehouseName,
			review,
		})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(offers)})
	t.Render()
}

func displayDate(d string) string {
	if d == offer.SentinelDate {
		return "unknown"
	}
	return d
}
