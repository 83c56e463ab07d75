package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("rejects a fallback missing from the entries", func(t *testing.T) {
		_, err := New([]Entry{{Model: "a"}}, "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fallback")
	})

	t.Run("rejects an entry with an empty model id", func(t *testing.T) {
		_, err := New([]Entry{{Model: ""}}, "a")
		require.Error(t, err)
	})
}

func TestEstimateCost(t *testing.T) {
	cat := Default()

	t.Run("zero usage costs zero", func(t *testing.T) {
		assert.Equal(t, 0.0, cat.EstimateCost(0, 0, "gpt-4o"))
	})

	t.Run("known model uses its table prices", func(t *testing.T) {
		// gpt-4o: $2.50 in, $10.00 out per million tokens.
		got := cat.EstimateCost(1000, 500, "gpt-4o")
		assert.InDelta(t, 0.0075, got, 1e-9)
	})

	t.Run("result is rounded to six decimal places", func(t *testing.T) {
		// 1 input token on gpt-4o is $0.0000025, which rounds to $0.000003.
		got := cat.EstimateCost(1, 0, "gpt-4o")
		assert.Equal(t, 0.000003, got)
	})

	t.Run("unknown model degrades to the fallback entry", func(t *testing.T) {
		want := cat.EstimateCost(1000, 1000, cat.Fallback())
		assert.Equal(t, want, cat.EstimateCost(1000, 1000, "no-such-model"))
	})

	t.Run("cost is monotonic in token counts", func(t *testing.T) {
		lo := cat.EstimateCost(100, 100, "gpt-4o")
		hi := cat.EstimateCost(200, 100, "gpt-4o")
		assert.GreaterOrEqual(t, hi, lo)
		hi = cat.EstimateCost(100, 200, "gpt-4o")
		assert.GreaterOrEqual(t, hi, lo)
	})
}

func TestEstimateLatency(t *testing.T) {
	cat := Default()

	t.Run("combines base and per-token components, truncated", func(t *testing.T) {
		// gpt-4o: 500ms base + 100ms per 1K tokens. 1500 tokens -> 650ms.
		assert.Equal(t, 650, cat.EstimateLatency(1000, 500, "gpt-4o"))
	})

	t.Run("fractional milliseconds truncate toward zero", func(t *testing.T) {
		// 5 tokens on gpt-4o: 500 + 0.5 -> 500.
		assert.Equal(t, 500, cat.EstimateLatency(5, 0, "gpt-4o"))
	})

	t.Run("unknown model uses the fallback coefficients", func(t *testing.T) {
		want := cat.EstimateLatency(1000, 0, cat.Fallback())
		assert.Equal(t, want, cat.EstimateLatency(1000, 0, "no-such-model"))
	})
}

func TestValidModel(t *testing.T) {
	cat := Default()
	assert.Equal(t, "gpt-4o", cat.ValidModel("gpt-4o"))
	assert.Equal(t, DefaultFallbackModel, cat.ValidModel("made-up-model"))
	assert.Equal(t, DefaultFallbackModel, cat.ValidModel(""))
}

func TestModels(t *testing.T) {
	models := Default().Models()
	require.NotEmpty(t, models)
	assert.Contains(t, models, "gpt-4o")
	assert.Contains(t, models, DefaultFallbackModel)
	assert.IsIncreasing(t, models)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns the default catalog", func(t *testing.T) {
		cat, err := Load("")
		require.NoError(t, err)
		assert.True(t, cat.Has("gpt-4o"))
		assert.Equal(t, DefaultFallbackModel, cat.Fallback())
	})

	t.Run("file entries overlay and extend the built-in table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := `
fallback: custom-model
models:
  - model: custom-model
    input_per_million: 1.0
    output_per_million: 2.0
    base_latency_ms: 100
    latency_per_1k_ms: 10
  - model: gpt-4o
    input_per_million: 99.0
    output_per_million: 99.0
    base_latency_ms: 500
    latency_per_1k_ms: 100
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		cat, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "custom-model", cat.Fallback())
		assert.True(t, cat.Has("custom-model"))
		// Built-in entries survive the overlay.
		assert.True(t, cat.Has("gpt-4o-mini"))
		// Overridden entry replaces the built-in pricing.
		assert.InDelta(t, 99.0/1e6*1000, cat.EstimateCost(1000, 0, "gpt-4o"), 1e-9)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("models: {not: [a list"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})
}
