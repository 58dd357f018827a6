package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/atelierhq/trend-cli/internal/market"
	"github.com/atelierhq/trend-cli/internal/model"
)

var (
	marketSegment string
	marketZone    string
	marketFormat  string
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Print the market overview for a segment and zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		overview, err := market.NewAggregator(store, cfg.Market).Overview(ctx, market.Query{
			Segment:    model.ParseSegment(marketSegment),
			MarketZone: marketZone,
		})
		if err != nil {
			return err
		}

		switch marketFormat {
		case "table":
			printMoverTable(overview)
		case "csv":
			return writeMoverCSV(os.Stdout, overview)
		case "json":
			out, _ := json.MarshalIndent(overview, "", "  ")
			fmt.Println(string(out))
		default:
			return eris.Errorf("market: unknown format %q", marketFormat)
		}
		return nil
	},
}

func printMoverTable(overview *model.MarketOverview) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "SIDE\tCATEGORY\tGROWTH %\tAVG SCORE\tARTICLES\tSIGNAL")
	for _, m := range overview.Winners {
		fmt.Fprintf(w, "winner\t%s\t%+.2f\t%.2f\t%d\t%s\n",
			m.Category, m.GrowthPct, m.AvgTrendScore, m.ArticleCount, m.Signal)
	}
	for _, m := range overview.Losers {
		fmt.Fprintf(w, "loser\t%s\t%+.2f\t%.2f\t%d\t%s\n",
			m.Category, m.GrowthPct, m.AvgTrendScore, m.ArticleCount, m.Signal)
	}
	w.Flush()
}

func writeMoverCSV(f *os.File, overview *model.MarketOverview) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"side", "category", "growth_pct", "avg_trend_score", "article_count", "signal"}); err != nil {
		return eris.Wrap(err, "market: write csv header")
	}

	writeSide := func(side string, movers []model.MarketMover) error {
		for _, m := range movers {
			record := []string{
				side,
				m.Category,
				strconv.FormatFloat(m.GrowthPct, 'f', 2, 64),
				strconv.FormatFloat(m.AvgTrendScore, 'f', 2, 64),
				strconv.Itoa(m.ArticleCount),
				string(m.Signal),
			}
			if err := w.Write(record); err != nil {
				return eris.Wrap(err, "market: write csv record")
			}
		}
		return nil
	}
	if err := writeSide("winner", overview.Winners); err != nil {
		return err
	}
	if err := writeSide("loser", overview.Losers); err != nil {
		return err
	}

	w.Flush()
	return eris.Wrap(w.Error(), "market: flush csv")
}

func init() {
	marketCmd.Flags().StringVar(&marketSegment, "segment", "", "segment filter (homme or femme)")
	marketCmd.Flags().StringVar(&marketZone, "market-zone", "", "market zone filter")
	marketCmd.Flags().StringVar(&marketFormat, "format", "table", "output format: table, csv or json")
	rootCmd.AddCommand(marketCmd)
}
