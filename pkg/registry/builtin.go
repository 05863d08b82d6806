package registry

import (
	"time"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/ranking"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// Builtin returns fresh registries for the bundled sources.
func Builtin() *Registry {
	return &Registry{
		Delivery: delivery.Registry{
			"apex": {
				Strategy: delivery.DirectFromAPI{Field: "apiDate"},
			},
			"northgate": {
				Strategy: delivery.ScheduleBased{
					DeliveryWeekdays: weekdays,
					Readiness:        delivery.PlusHoursFromResult{Field: "deadlineMaxHours"},
					AllowSameDay:     true,
				},
			},
			"tradepoint": {
				Strategy: delivery.ScheduleBased{
					DeliveryWeekdays: []time.Weekday{time.Monday, time.Thursday},
					Readiness: delivery.FromCutoff{
						Cutoff: delivery.Clock{Hour: 14},
						Before: 24 * time.Hour,
						After:  48 * time.Hour,
					},
				},
			},
			"depot24": {
				Strategy: delivery.ShipmentScheduleBased{
					Readiness:        delivery.PlusHoursFromResult{Field: "deadlineMaxHours"},
					ShipmentWeekdays: []time.Weekday{time.Tuesday, time.Thursday},
					ShipmentCutoff:   delivery.Clock{Hour: 12},
					DeliveryDelay:    48 * time.Hour,
				},
				AvoidWeekdays: []time.Weekday{time.Saturday, time.Sunday},
			},
			"cornerstore": {
				Strategy: delivery.RuleBased{Rules: []delivery.Rule{
					{
						Window: delivery.Window{
							From: delivery.WeekTime{Weekday: time.Monday},
							To:   delivery.WeekTime{Weekday: time.Friday, Clock: delivery.Clock{Hour: 15, Minute: 59}},
						},
						Action: delivery.AfterDays{Days: 1},
					},
					{
						Window: delivery.Window{
							From: delivery.WeekTime{Weekday: time.Friday, Clock: delivery.Clock{Hour: 16}},
							To:   delivery.WeekTime{Weekday: time.Sunday, Clock: delivery.Clock{Hour: 23, Minute: 59}},
						},
						Action: delivery.NextWeekday{Weekday: time.Tuesday},
					},
				}},
				AvoidWeekdays: []time.Weekday{time.Sunday},
			},
		},
		Ranking: ranking.Registry{
			"apex": ranking.DefaultPolicy(),
			"northgate": {
				MinProbability:            70,
				TopPercent:                0.2,
				MaxItems:                  10,
				MinResultsBeforeFiltering: 4,
			},
			"tradepoint": ranking.DefaultPolicy(),
			"depot24": {
				MinProbability:            80,
				TopPercent:                0.1,
				MaxItems:                  5,
				MinResultsBeforeFiltering: 4,
			},
		},
	}
}
