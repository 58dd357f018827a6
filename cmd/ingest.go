package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/atelierhq/trend-cli/internal/catalog"
	"github.com/atelierhq/trend-cli/internal/enrich"
	"github.com/atelierhq/trend-cli/internal/ingest"
	"github.com/atelierhq/trend-cli/internal/model"
	"github.com/atelierhq/trend-cli/internal/pipeline"
	"github.com/atelierhq/trend-cli/internal/scoring"
)

var (
	ingestFile    string
	ingestSource  string
	ingestZone    string
	ingestRescore bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a batch of raw listings from a JSON file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		items, err := readItems(ingestFile)
		if err != nil {
			return err
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, err := buildIngestService(store)
		if err != nil {
			return err
		}

		report, err := svc.Run(ctx, items, ingest.Options{
			Source:     ingestSource,
			MarketZone: ingestZone,
			Rescore:    ingestRescore,
		})
		if err != nil {
			return err
		}

		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

// readItems decodes a raw listing batch. Both a bare array and a
// {"items": [...]} envelope are accepted.
func readItems(path string) ([]model.RawItem, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read input")
	}

	var items []model.RawItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Items []model.RawItem `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, eris.Wrap(err, "ingest: parse input")
	}
	return envelope.Items, nil
}

// buildIngestService wires the scoring engine, enrichment client and
// vocabulary override into an ingestion service.
func buildIngestService(store catalog.Store) (*ingest.Service, error) {
	override, err := pipeline.LoadVocabOverride(cfg.Ingest.VocabPath)
	if err != nil {
		return nil, err
	}

	engine := scoring.NewEngine(cfg.Scoring, override.HypeBrands)
	enricher := enrich.New(cfg.Enrich)
	return ingest.New(store, engine, enricher, cfg.Ingest, override), nil
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "JSON file of raw listings (default stdin)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source for items that carry none (default from config)")
	ingestCmd.Flags().StringVar(&ingestZone, "market-zone", "", "market zone for items that carry none (default from config)")
	ingestCmd.Flags().BoolVar(&ingestRescore, "rescore", false, "re-run keyword scoring on refreshed entries")
	rootCmd.AddCommand(ingestCmd)
}
