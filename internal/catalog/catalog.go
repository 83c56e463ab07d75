// Package catalog provides the static model catalog and the deterministic
// cost and latency estimation used for telemetry and model ranking. The
// catalog is built once at process start and is read-only afterwards, so it
// may be shared across concurrent pipeline runs without locking.
package catalog

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	tokensPerMillion  = 1_000_000
	tokensPerThousand = 1_000
	costPrecision     = 1e6 // cost rounded to 6 decimal places
)

// Entry holds pricing and latency coefficients for one model.
type Entry struct {
	Model            string  `json:"model" yaml:"model"`
	InputPerMillion  float64 `json:"input_price_per_million" yaml:"input_per_million"`
	OutputPerMillion float64 `json:"output_price_per_million" yaml:"output_per_million"`
	BaseLatencyMs    float64 `json:"base_latency_ms" yaml:"base_latency_ms"`
	LatencyPer1KMs   float64 `json:"latency_per_1k_tokens_ms" yaml:"latency_per_1k_ms"`
}

// Catalog maps model identifiers to pricing and latency entries. All
// estimation methods are pure, deterministic, and total: unknown models
// degrade to the configured fallback entry rather than erroring.
type Catalog struct {
	entries  map[string]Entry
	fallback string
}

// New builds a catalog from the given entries with the named fallback model.
// The fallback must be present among the entries.
func New(entries []Entry, fallback string) (*Catalog, error) {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.Model == "" {
			return nil, fmt.Errorf("catalog entry with empty model id")
		}
		m[e.Model] = e
	}
	if _, ok := m[fallback]; !ok {
		return nil, fmt.Errorf("fallback model %q not present in catalog", fallback)
	}
	return &Catalog{entries: m, fallback: fallback}, nil
}

// Default returns the built-in catalog with the standard fallback model.
func Default() *Catalog {
	c, err := New(DefaultEntries(), DefaultFallbackModel)
	if err != nil {
		// The built-in table always contains the fallback.
		panic(err)
	}
	return c
}

// Has reports whether the model identifier is present in the catalog.
func (c *Catalog) Has(model string) bool {
	_, ok := c.entries[model]
	return ok
}

// Resolve returns the entry for the model, or the fallback entry when the
// model is unknown. It never fails.
func (c *Catalog) Resolve(model string) Entry {
	if e, ok := c.entries[model]; ok {
		return e
	}
	return c.entries[c.fallback]
}

// ValidModel returns the model identifier itself when known, otherwise the
// configured safe default. Used to sanitize model names produced by
// upstream judgment steps before estimates are computed.
func (c *Catalog) ValidModel(model string) string {
	if c.Has(model) {
		return model
	}
	return c.fallback
}

// Fallback returns the configured fallback model identifier.
func (c *Catalog) Fallback() string { return c.fallback }

// Models returns the sorted list of known model identifiers.
func (c *Catalog) Models() []string {
	models := make([]string, 0, len(c.entries))
	for m := range c.entries {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// EstimateCost computes the USD cost for the given token counts, rounded to
// six decimal places. Monotonically non-decreasing in both token arguments
// for a fixed model; zero usage costs zero.
func (c *Catalog) EstimateCost(inputTokens, outputTokens int, model string) float64 {
	e := c.Resolve(model)
	cost := float64(inputTokens)/tokensPerMillion*e.InputPerMillion +
		float64(outputTokens)/tokensPerMillion*e.OutputPerMillion
	return math.Round(cost*costPrecision) / costPrecision
}

// EstimateLatency predicts latency in milliseconds for the given token
// counts, truncated to an integer.
func (c *Catalog) EstimateLatency(inputTokens, outputTokens int, model string) int {
	e := c.Resolve(model)
	total := inputTokens + outputTokens
	return int(e.BaseLatencyMs + float64(total)/tokensPerThousand*e.LatencyPer1KMs)
}

// catalogFile is the on-disk overlay format: extra or replacement entries
// and an optional fallback override.
type catalogFile struct {
	Fallback string  `yaml:"fallback"`
	Models   []Entry `yaml:"models"`
}

// Load builds a catalog from the built-in table overlaid with entries from
// the given YAML file. File entries replace built-in entries with the same
// model id. An empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	merged := map[string]Entry{}
	for _, e := range DefaultEntries() {
		merged[e.Model] = e
	}
	for _, e := range file.Models {
		merged[e.Model] = e
	}

	entries := make([]Entry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}
	fallback := DefaultFallbackModel
	if file.Fallback != "" {
		fallback = file.Fallback
	}
	return New(entries, fallback)
}
