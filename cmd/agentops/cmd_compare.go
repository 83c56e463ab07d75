package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentops/agentops/internal/comparison"
)

func newCompareCmd() *cobra.Command {
	var prompt string
	var models []string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one prompt through several models and rank the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			comps, err := buildComponents(cfg, logger, false)
			if err != nil {
				return err
			}

			results, err := comps.engine.Run(cmd.Context(), prompt, models)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]any{
				"results":        results,
				"recommendation": comparison.Recommend(results),
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "prompt to test across models")
	cmd.Flags().StringSliceVarP(&models, "models", "m", []string{"gpt-4o", "gpt-4o-mini"}, "model ids to compare")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}
