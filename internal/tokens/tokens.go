// Package tokens provides local token counting for telemetry. Counts are
// deterministic and independent of any token accounting an external
// provider may report.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// fallbackDivisor approximates tokens as bytes/4 when no encoding is
// available.
const fallbackDivisor = 4

// Counter counts tokens in text. Implementations must be pure and
// deterministic.
type Counter interface {
	Count(text string) int
}

// TiktokenCounter counts with a tiktoken encoding, falling back to a rough
// bytes-based estimate when the encoding cannot be loaded.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter builds a counter for the named model's encoding.
// Loading the encoding can fail (e.g. unknown model, no cached BPE data);
// the counter then degrades to the estimate rather than erroring per call.
func NewTiktokenCounter(model string) *TiktokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return &TiktokenCounter{}
	}
	return &TiktokenCounter{enc: enc}
}

// Count implements Counter.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Estimate is the rough bytes/4 token approximation used when no encoding
// is available.
func Estimate(text string) int {
	return len(text) / fallbackDivisor
}
