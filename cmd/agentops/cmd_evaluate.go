package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/pipeline"
)

func newEvaluateCmd() *cobra.Command {
	var file string
	var model string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one conversation from a JSON file and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			comps, err := buildComponents(cfg, logger, false)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read conversation file: %w", err)
			}
			var conv domain.Conversation
			if err := json.Unmarshal(raw, &conv); err != nil {
				return fmt.Errorf("parse conversation file: %w", err)
			}
			if model == "" {
				model = cfg.DeclaredModelDefault
			}

			agg, err := comps.executor.Run(cmd.Context(), conv, model, pipeline.RunMeta{UserID: "cli"})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(agg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to conversation JSON (array of {role, content})")
	cmd.Flags().StringVar(&model, "model", "", "model that produced the conversation (telemetry attribution)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
