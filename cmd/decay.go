package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelierhq/trend-cli/internal/maintain"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Apply staleness decay to entries not refreshed recently",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := maintain.NewDecayer(store, cfg.Decay).Run(ctx)
		if err != nil {
			return err
		}

		out, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decayCmd)
}
