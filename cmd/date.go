package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partscope/partscope/pkg/offer"
)

// dateCmd exposes the delivery-date engine on its own:
//
//	partscope date depot24 --deadline-max-hours 20 --now "2025-03-12 10:00"
//	partscope date apex --extra apiDate=2025-03-14T10:00:00Z
var dateCmd = &cobra.Command{
	Use:   "date <source>",
	Short: "Compute the delivery date a source would give an offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup()
		if err != nil {
			return err
		}
		now, err := resolveNow(cmd, s.loc)
		if err != nil {
			return err
		}

		item := &offer.Result{SourceID: args[0]}
		item.DeadlineHours, _ = cmd.Flags().GetFloat64("deadline-hours")
		item.DeadlineMaxHours, _ = cmd.Flags().GetFloat64("deadline-max-hours")

		extras, _ := cmd.Flags().GetStringSlice("extra")
		for _, kv := range extras {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid --extra %q: expected key=value", kv)
			}
			if item.SourceExtra == nil {
				item.SourceExtra = make(map[string]any)
			}
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				item.SourceExtra[k] = n
			} else {
				item.SourceExtra[k] = v
			}
		}

		date := s.engine.ComputeDeliveryDate(args[0], item, now)
		if wantJSON(cmd) {
			return printJSON(map[string]string{
				"sourceId":     args[0],
				"now":          now.Format("2006-01-02T15:04:05Z07:00"),
				"deliveryDate": date,
			})
		}
		fmt.Println(date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dateCmd)

	dateCmd.Flags().Float64("deadline-hours", 0, "Offer's minimum delivery hours")
	dateCmd.Flags().Float64("deadline-max-hours", 0, "Offer's maximum delivery hours")
	dateCmd.Flags().StringSlice("extra", nil, "Source-specific field as key=value (repeatable)")
	dateCmd.Flags().String("now", "", "Order time (default: now)")
}
