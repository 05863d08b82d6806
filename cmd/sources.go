package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/partscope/partscope/pkg/delivery"
)

type sourceInfo struct {
	ID            string   `json:"id"`
	Adapter       string   `json:"adapter"`
	Strategy      string   `json:"strategy"`
	AvoidWeekdays []string `json:"avoidWeekdays,omitempty"`
	Ranking       string   `json:"ranking"`
}

// sourcesCmd lists what partscope knows about each source.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources with their adapter, delivery strategy and ranking policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup()
		if err != nil {
			return err
		}

		var infos []sourceInfo
		for _, id := range s.registry.Sources() {
			info := sourceInfo{ID: id, Adapter: "generic", Strategy: "-", Ranking: "pass-through"}
			if _, ok := s.adapters.Lookup(id); ok {
				info.Adapter = "built-in"
			}
			if cfg, ok := s.registry.Delivery[id]; ok && cfg.Strategy != nil {
				info.Strategy = describeStrategy(cfg.Strategy)
				for _, d := range cfg.AvoidWeekdays {
					info.AvoidWeekdays = append(info.AvoidWeekdays, shortDay(d))
				}
			}
			if p, ok := s.registry.Ranking[id]; ok {
				info.Ranking = fmt.Sprintf("prob>=%.0f top %.0f%% min %d", p.MinProbability, p.TopPercent*100, p.MinResultsBeforeFiltering)
				if p.MaxItems > 0 {
					info.Ranking += fmt.Sprintf(" max %d", p.MaxItems)
				}
			}
			infos = append(infos, info)
		}

		if wantJSON(cmd) {
			return printJSON(infos)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Source", "Adapter", "Delivery", "Avoid", "Ranking"})
		for _, i := range infos {
			t.AppendRow(table.Row{i.ID, i.Adapter, i.Strategy, strings.Join(i.AvoidWeekdays, ","), i.Ranking})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func describeStrategy(s delivery.Strategy) string {
	switch s := s.(type) {
	case delivery.DirectFromAPI:
		return fmt.Sprintf("direct (%s)", s.Field)
	case delivery.RuleBased:
		return fmt.Sprintf("rules (%d)", len(s.Rules))
	case delivery.ScheduleBased:
		return fmt.Sprintf("schedule %s", joinDays(s.DeliveryWeekdays))
	case delivery.ShipmentScheduleBased:
		return fmt.Sprintf("shipment %s %s +%s", joinDays(s.ShipmentWeekdays), s.ShipmentCutoff, s.DeliveryDelay)
	default:
		return s.Name()
	}
}

func joinDays(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = shortDay(d)
	}
	return strings.Join(names, ",")
}

func shortDay(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}
