package main

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/agentops/agentops/internal/catalog"
	"github.com/agentops/agentops/internal/comparison"
	"github.com/agentops/agentops/internal/config"
	"github.com/agentops/agentops/internal/evaluator"
	"github.com/agentops/agentops/internal/llm"
	"github.com/agentops/agentops/internal/pipeline"
	"github.com/agentops/agentops/internal/store"
	"github.com/agentops/agentops/internal/tokens"
)

// components holds the wired evaluation stack for one process.
type components struct {
	catalog  *catalog.Catalog
	executor *pipeline.Executor
	engine   *comparison.Engine
	records  store.RecordStore
}

// buildComponents wires the full stack from configuration. withStore
// controls whether pipeline runs persist records (one-shot CLI commands
// evaluate without persistence unless Redis is configured for them).
func buildComponents(cfg *config.Config, logger *slog.Logger, withStore bool) (*components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, llm.WithTimeout(cfg.HTTPTimeout))
	judge := llm.NewLoggingJudge(client, logger, cfg.LogPrompts)
	generator := llm.NewLoggingGenerator(client, logger)

	opts := func(model string) evaluator.Options {
		return evaluator.Options{
			Judge:   judge,
			Model:   model,
			Timeout: cfg.EvaluatorTimeout,
			Logger:  logger,
		}
	}

	rules, err := evaluator.LoadRules(cfg.ComplianceRulesFile)
	if err != nil {
		return nil, err
	}

	coherence := evaluator.NewCoherence(opts(cfg.JudgeModels.Coherence))
	factuality := evaluator.NewFactuality(opts(cfg.JudgeModels.Factuality))
	safety := evaluator.NewSafety(opts(cfg.JudgeModels.Safety))
	helpfulness := evaluator.NewHelpfulness(opts(cfg.JudgeModels.Helpfulness))
	compliance := evaluator.NewCompliance(opts(cfg.JudgeModels.Compliance), rules)
	refiner := evaluator.NewRefiner(opts(cfg.JudgeModels.Refiner))

	var records store.RecordStore
	if withStore {
		if cfg.Redis.Addr != "" {
			records = store.NewRedisStore(redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}))
		} else {
			records = store.NewMemoryStore()
		}
	}

	counter := tokens.NewTiktokenCounter(cfg.TokenizerModel)
	executor, err := pipeline.New(
		[]evaluator.Evaluator{coherence, factuality, safety, helpfulness, compliance},
		refiner, counter, cat, records, logger,
	)
	if err != nil {
		return nil, err
	}

	engine := comparison.New(generator, comparison.Scorers{
		Coherence:   coherence,
		Factuality:  factuality,
		Safety:      safety,
		Helpfulness: helpfulness,
	}, cat, logger)

	return &components{catalog: cat, executor: executor, engine: engine, records: records}, nil
}
