package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partscope/partscope/pkg/sources"
	"github.com/partscope/partscope/pkg/sources/storefront"
)

// rankCmd normalizes and ranks one captured response: partscope rank <source> <file>
var rankCmd = &cobra.Command{
	Use:   "rank <source> <file>",
	Short: "Normalize and rank one source's captured response (.json or .html)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup()
		if err != nil {
			return err
		}
		now, err := resolveNow(cmd, s.loc)
		if err != nil {
			return err
		}

		items, err := readCapture(args[1])
		if err != nil {
			return err
		}

		brandName, _ := cmd.Flags().GetString("brand")
		offers, err := s.engine.NormalizeAndRank(args[0], items, brandName, now)
		if err != nil {
			return err
		}

		if wantJSON(cmd) {
			return printJSON(offers)
		}
		printOffers(offers)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("brand", "", "Brand the buyer asked for")
	rankCmd.Flags().String("now", "", "Order time used for delivery dates (default: now)")
}

func readCapture(path string) ([]sources.RawItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return storefront.Decode(data, storefront.DefaultLayout)
	case ".json":
		return sources.ParseItems(data)
	default:
		return nil, fmt.Errorf("unsupported capture %s: expected .json or .html", path)
	}
}
