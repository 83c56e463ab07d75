package catalog

// DefaultFallbackModel is the entry substituted for unknown model
// identifiers. It is the cheapest model in the built-in table.
const DefaultFallbackModel = "gpt-5-nano"

// DefaultEntries returns the built-in pricing and latency table.
// Prices are USD per one million tokens (standard tier, no caching);
// latency coefficients are milliseconds. Snapshot from January 2025.
func DefaultEntries() []Entry {
	return []Entry{
		// OpenAI
		{Model: "gpt-5.2", InputPerMillion: 1.75, OutputPerMillion: 14.00, BaseLatencyMs: 700, LatencyPer1KMs: 140},
		{Model: "gpt-5.1", InputPerMillion: 1.25, OutputPerMillion: 10.00, BaseLatencyMs: 650, LatencyPer1KMs: 130},
		{Model: "gpt-5-mini", InputPerMillion: 0.25, OutputPerMillion: 2.00, BaseLatencyMs: 300, LatencyPer1KMs: 60},
		{Model: "gpt-5-nano", InputPerMillion: 0.05, OutputPerMillion: 0.40, BaseLatencyMs: 150, LatencyPer1KMs: 30},
		{Model: "o3-pro", InputPerMillion: 20.00, OutputPerMillion: 80.00, BaseLatencyMs: 2500, LatencyPer1KMs: 400},
		{Model: "o3", InputPerMillion: 2.00, OutputPerMillion: 8.00, BaseLatencyMs: 1500, LatencyPer1KMs: 250},
		{Model: "o4-mini", InputPerMillion: 1.10, OutputPerMillion: 4.40, BaseLatencyMs: 1000, LatencyPer1KMs: 180},
		{Model: "gpt-4o", InputPerMillion: 2.50, OutputPerMillion: 10.00, BaseLatencyMs: 500, LatencyPer1KMs: 100},
		{Model: "gpt-4o-mini", InputPerMillion: 0.15, OutputPerMillion: 0.60, BaseLatencyMs: 200, LatencyPer1KMs: 50},

		// Anthropic
		{Model: "claude-opus-4.5", InputPerMillion: 5.00, OutputPerMillion: 25.00, BaseLatencyMs: 800, LatencyPer1KMs: 150},
		{Model: "claude-opus-4.1", InputPerMillion: 15.00, OutputPerMillion: 75.00, BaseLatencyMs: 1100, LatencyPer1KMs: 210},
		{Model: "claude-sonnet-4.5", InputPerMillion: 3.00, OutputPerMillion: 15.00, BaseLatencyMs: 600, LatencyPer1KMs: 120},
		{Model: "claude-sonnet-4", InputPerMillion: 3.00, OutputPerMillion: 15.00, BaseLatencyMs: 650, LatencyPer1KMs: 125},
		{Model: "claude-haiku-4.5", InputPerMillion: 1.00, OutputPerMillion: 5.00, BaseLatencyMs: 280, LatencyPer1KMs: 65},
		{Model: "claude-haiku-3.5", InputPerMillion: 0.80, OutputPerMillion: 4.00, BaseLatencyMs: 250, LatencyPer1KMs: 60},

		// Google
		{Model: "gemini-3-pro", InputPerMillion: 2.00, OutputPerMillion: 12.00, BaseLatencyMs: 750, LatencyPer1KMs: 145},
		{Model: "gemini-2.5-pro", InputPerMillion: 1.25, OutputPerMillion: 10.00, BaseLatencyMs: 650, LatencyPer1KMs: 130},
		{Model: "gemini-2.5-flash", InputPerMillion: 0.30, OutputPerMillion: 2.50, BaseLatencyMs: 250, LatencyPer1KMs: 55},
		{Model: "gemini-2.5-flash-lite", InputPerMillion: 0.10, OutputPerMillion: 0.40, BaseLatencyMs: 150, LatencyPer1KMs: 35},
		{Model: "gemini-2.0-flash", InputPerMillion: 0.10, OutputPerMillion: 0.40, BaseLatencyMs: 200, LatencyPer1KMs: 45},
	}
}
