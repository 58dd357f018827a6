package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelierhq/trend-cli/internal/maintain"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove duplicate catalog entries",
	Long:  "Deletes entries that collapse to the same normalized brand and name within one segment, keeping the oldest. Cross-segment pairs are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := maintain.NewDeduper(store, cfg.Decay.BatchSize).Run(ctx)
		if err != nil {
			return err
		}

		out, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupCmd)
}
