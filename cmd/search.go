package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/partscope/partscope/internal/utils"
	"github.com/partscope/partscope/pkg/aggregate"
)

// searchCmd implements: partscope search <article>
//
//	--brand string        Brand the buyer asked for
//	--captures string     Directory of captured responses (<source>.json / <source>.html)
//	--sources string      Comma-separated sources (default: every configured source)
//	--concurrency int     Sources queried at once
//	--timeout duration    Per-source time limit
//	--now string          Order time (default: now)
var searchCmd = &cobra.Command{
	Use:   "search <article>",
	Short: "Query every source for a part and print the merged, ranked offers",
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

		dir := viper.GetString("search.captures")
		if dir == "" {
			return fmt.Errorf("no captures directory: pass --captures or set search.captures in ~/.partscope.yaml")
		}
		timeout := viper.GetDuration("search.timeout")

		ids := s.registry.Sources()
		if only, _ := cmd.Flags().GetString("sources"); only != "" {
			ids = splitList(only)
		}

		brandName, _ := cmd.Flags().GetString("brand")
		q := aggregate.Query{Article: args[0], Brand: brandName}

		res, err := aggregate.Run(context.Background(), aggregate.Config{
			Fetchers:    aggregate.DirFetchers(dir, ids),
			Engine:      s.engine,
			Concurrency: viper.GetInt("search.concurrency"),
			Timeout:     timeout,
			Now:         func() time.Time { return now },
			Log:         utils.Log,
			OnSourceDone: func(sr aggregate.SourceResult) {
				if sr.Err == nil {
					utils.Log.Infof("%s: %d offers in %s", sr.Source, len(sr.Offers), sr.Elapsed.Round(time.Millisecond))
				}
			},
		}, q)
		if err != nil {
			return err
		}

		if wantJSON(cmd) {
			errs := make([]string, 0, len(res.Errors))
			for _, e := range res.Errors {
				errs = append(errs, e.Error())
			}
			return printJSON(map[string]interface{}{
				"query":  q,
				"offers": res.Offers,
				"errors": errs,
			})
		}

		printOffers(res.Offers)
		for _, e := range res.Errors {
			utils.Log.Warn(e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("brand", "", "Brand the buyer asked for")
	searchCmd.Flags().String("captures", "", "Directory of captured source responses")
	searchCmd.Flags().String("sources", "", "Comma-separated sources to query (default: all configured)")
	searchCmd.Flags().Int("concurrency", 5, "Number of sources queried concurrently")
	searchCmd.Flags().Duration("timeout", 10*time.Second, "Per-source timeout")
	searchCmd.Flags().String("now", "", "Order time used for delivery dates (default: now)")

	viper.BindPFlag("search.captures", searchCmd.Flags().Lookup("captures"))
	viper.BindPFlag("search.concurrency", searchCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("search.timeout", searchCmd.Flags().Lookup("timeout"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
