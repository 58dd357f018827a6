package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelierhq/trend-cli/internal/maintain"
	"github.com/atelierhq/trend-cli/internal/pipeline"
	"github.com/atelierhq/trend-cli/internal/scoring"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute keyword scores across the catalog",
	Long:  "Re-runs the keyword scoring engine on every keyword-scored entry, typically after a vocabulary change. Entries scored from a source growth signal are untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		override, err := pipeline.LoadVocabOverride(cfg.Ingest.VocabPath)
		if err != nil {
			return err
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		engine := scoring.NewEngine(cfg.Scoring, override.HypeBrands)
		summary, err := maintain.NewRescorer(store, engine, cfg.Decay.BatchSize).Run(ctx)
		if err != nil {
			return err
		}

		out, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}
