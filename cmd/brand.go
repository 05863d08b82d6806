package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/partscope/partscope/pkg/brand"
)

type brandReport struct {
	Expected          string  `json:"expected"`
	Actual            string  `json:"actual"`
	ExpectedToken     string  `json:"expectedToken"`
	ActualToken       string  `json:"actualToken"`
	ExpectedCanonical string  `json:"expectedCanonical,omitempty"`
	ActualCanonical   string  `json:"actualCanonical,omitempty"`
	Similarity        float64 `json:"similarity"`
	Match             bool    `json:"match"`
	Relevant          bool    `json:"relevant"`
}

// brandCmd explains how two brand spellings compare.
var brandCmd = &cobra.Command{
	Use:   "brand <expected> <actual>",
	Short: "Show how two brand names are standardized and matched",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup()
		if err != nil {
			return err
		}

		r := brandReport{
			Expected:      args[0],
			Actual:        args[1],
			ExpectedToken: brand.Standardize(args[0]),
			ActualToken:   brand.Standardize(args[1]),
			Match:         s.brands.IsBrandMatch(args[0], args[1]),
			Relevant:      s.brands.IsRelevantBrand(args[0], args[1]),
		}
		r.Similarity = brand.Similarity(r.ExpectedToken, r.ActualToken)
		r.ExpectedCanonical, _ = s.brands.CanonicalGroup(args[0])
		r.ActualCanonical, _ = s.brands.CanonicalGroup(args[1])

		if wantJSON(cmd) {
			return printJSON(r)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"", "Expected", "Actual"})
		t.AppendRow(table.Row{"Input", r.Expected, r.Actual})
		t.AppendRow(table.Row{"Token", r.ExpectedToken, r.ActualToken})
		t.AppendRow(table.Row{"Group", r.ExpectedCanonical, r.ActualCanonical})
		t.Render()

		fmt.Printf("similarity %.2f, match %v, relevant %v\n", r.Similarity, r.Match, r.Relevant)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(brandCmd)
}
