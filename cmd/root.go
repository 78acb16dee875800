package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/analysis"
	"github.com/validatehq/idea-cli/internal/config"
	"github.com/validatehq/idea-cli/internal/store"
	"github.com/validatehq/idea-cli/pkg/anthropic"
	"github.com/validatehq/idea-cli/pkg/serper"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "idea-cli",
	Short: "Idea risk and competitor analysis pipeline",
	Long:  "Synthesizes core fields from questionnaire answers, discovers and classifies competitors via web search and Claude, and produces a deterministic risk score and verdict.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// buildPipeline wires the configured store and API clients into a pipeline.
// The returned cleanup closes the store.
func buildPipeline(ctx context.Context) (*analysis.Pipeline, store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	search := serper.NewClient(cfg.Serper.Key,
		serper.WithBaseURL(cfg.Serper.BaseURL),
		serper.WithResultCount(cfg.Serper.ResultCount),
		serper.WithRateLimit(cfg.Serper.RatePerSec),
	)
	ai := anthropic.NewClient(cfg.Anthropic.Key)

	return analysis.New(*cfg, st, search, ai), st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
