package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentops/agentops/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentops",
		Short:         "Multi-evaluator conversation evaluation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newEvaluateCmd(), newCompareCmd(), newSeedCmd())
	return root
}

// loadConfig builds the process configuration and logger shared by all
// commands.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
