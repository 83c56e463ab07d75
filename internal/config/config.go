// Package config provides the explicit process configuration. A single
// Config is constructed at process start (from the environment) and passed
// by reference into each component; there is no process-wide mutable lookup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultServerAddr       = ":8080"
	DefaultEvaluatorTimeout = 45 * time.Second
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultTokenizerModel   = "gpt-4o"
	DefaultDeclaredModel    = "gpt-5-nano"

	// Default judge model assignments, mirroring the accuracy/cost split
	// of the original deployment: factuality gets the strongest judge.
	DefaultCoherenceModel   = "gpt-5-mini"
	DefaultFactualityModel  = "gpt-5.1"
	DefaultSafetyModel      = "gpt-5-mini"
	DefaultHelpfulnessModel = "gpt-5-mini"
	DefaultComplianceModel  = "gpt-5-mini"
	DefaultRefinerModel     = "gpt-5-mini"
)

// Config errors.
var (
	// ErrMissingAPIKey indicates no OpenAI API key was configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is required")
)

// JudgeModels assigns a judge model to each evaluator plus the refiner.
type JudgeModels struct {
	Coherence   string
	Factuality  string
	Safety      string
	Helpfulness string
	Compliance  string
	Refiner     string
}

// RedisConfig configures the optional Redis record store. An empty Addr
// selects the in-memory store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config is the complete process configuration.
type Config struct {
	// OpenAIAPIKey authenticates judge and generation calls.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the provider endpoint (OpenAI-compatible
	// gateways). Empty uses the default.
	OpenAIBaseURL string

	// JudgeModels assigns judge models per evaluator.
	JudgeModels JudgeModels

	// DeclaredModelDefault is used when a request omits the source model.
	DeclaredModelDefault string

	// TokenizerModel selects the local tiktoken encoding.
	TokenizerModel string

	// EvaluatorTimeout bounds each evaluator's judge call. Zero disables
	// the per-evaluator deadline.
	EvaluatorTimeout time.Duration

	// HTTPTimeout bounds each provider HTTP call.
	HTTPTimeout time.Duration

	// ServerAddr is the HTTP listen address.
	ServerAddr string

	// CatalogFile optionally overlays the built-in model catalog.
	CatalogFile string

	// ComplianceRulesFile optionally replaces the built-in rule set.
	ComplianceRulesFile string

	// Redis selects the record-store backend.
	Redis RedisConfig

	// LogPrompts enables logging of judge prompt content. Off by default;
	// conversations may contain sensitive user data.
	LogPrompts bool

	// Debug lowers the log level to debug.
	Debug bool
}

// FromEnv builds a Config from the environment with defaults applied.
func FromEnv() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		DeclaredModelDefault: envOr("AGENTOPS_DEFAULT_MODEL", DefaultDeclaredModel),
		TokenizerModel:       envOr("AGENTOPS_TOKENIZER_MODEL", DefaultTokenizerModel),
		EvaluatorTimeout:     DefaultEvaluatorTimeout,
		HTTPTimeout:          DefaultHTTPTimeout,
		ServerAddr:           envOr("AGENTOPS_ADDR", DefaultServerAddr),
		CatalogFile:          os.Getenv("AGENTOPS_CATALOG_FILE"),
		ComplianceRulesFile:  os.Getenv("AGENTOPS_COMPLIANCE_RULES"),
		JudgeModels: JudgeModels{
			Coherence:   envOr("AGENTOPS_COHERENCE_MODEL", DefaultCoherenceModel),
			Factuality:  envOr("AGENTOPS_FACTUALITY_MODEL", DefaultFactualityModel),
			Safety:      envOr("AGENTOPS_SAFETY_MODEL", DefaultSafetyModel),
			Helpfulness: envOr("AGENTOPS_HELPFULNESS_MODEL", DefaultHelpfulnessModel),
			Compliance:  envOr("AGENTOPS_COMPLIANCE_MODEL", DefaultComplianceModel),
			Refiner:     envOr("AGENTOPS_REFINER_MODEL", DefaultRefinerModel),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		LogPrompts: envBool("AGENTOPS_LOG_PROMPTS"),
		Debug:      envBool("AGENTOPS_DEBUG"),
	}

	if v := os.Getenv("AGENTOPS_EVALUATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse AGENTOPS_EVALUATOR_TIMEOUT: %w", err)
		}
		cfg.EvaluatorTimeout = d
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
