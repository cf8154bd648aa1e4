// Package pricing implements the Anthropic Pricing Table: a static,
// case-insensitive per-model rate table producing a cost breakdown from a
// token usage tuple.
package pricing

import (
	"strings"

	gateway "github.com/eugener/gandalf/internal"
)

// fallbackModel is priced when a model is absent from the table.
const fallbackModel = "claude-3-5-sonnet-20241022"

// table holds per-million-token rates: input, output, cache-write, cache-read.
// Frozen at init; never mutated after process start.
var table = map[string]gateway.PricingEntry{
	"claude-3-5-sonnet-20241022": {Model: "claude-3-5-sonnet-20241022", InputPerMillion: 3.00, OutputPerMillion: 15.00, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-3-5-sonnet-20240620": {Model: "claude-3-5-sonnet-20240620", InputPerMillion: 3.00, OutputPerMillion: 15.00, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-3-5-haiku-20241022":  {Model: "claude-3-5-haiku-20241022", InputPerMillion: 1.00, OutputPerMillion: 5.00, CacheWritePerMillion: 1.25, CacheReadPerMillion: 0.10},
	"claude-3-opus-20240229":     {Model: "claude-3-opus-20240229", InputPerMillion: 15.00, OutputPerMillion: 75.00, CacheWritePerMillion: 18.75, CacheReadPerMillion: 1.50},
	"claude-3-sonnet-20240229":   {Model: "claude-3-sonnet-20240229", InputPerMillion: 3.00, OutputPerMillion: 15.00, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-3-haiku-20240307":    {Model: "claude-3-haiku-20240307", InputPerMillion: 0.25, OutputPerMillion: 1.25, CacheWritePerMillion: 0.3125, CacheReadPerMillion: 0.025},
}

// Entry returns the pricing entry for model (case-insensitive), falling
// back to the sonnet-20241022 entry for unknown models.
func Entry(model string) gateway.PricingEntry {
	if e, ok := table[strings.ToLower(model)]; ok {
		return e
	}
	return table[fallbackModel]
}

// CostFromComponents computes a full cost breakdown distinguishing cache-
// creation (write) tokens from cache-read tokens, matching the four
// Anthropic usage buckets exactly.
func CostFromComponents(model string, input, output, cacheCreate, cacheRead int32) gateway.CostBreakdown {
	e := Entry(model)
	cb := gateway.CostBreakdown{
		InputCost:         gateway.Micros(float64(input) * e.InputPerMillion),
		OutputCost:        gateway.Micros(float64(output) * e.OutputPerMillion),
		CacheCreationCost: gateway.Micros(float64(cacheCreate) * e.CacheWritePerMillion),
		CacheReadCost:     gateway.Micros(float64(cacheRead) * e.CacheReadPerMillion),
	}
	cb.TotalCost = cb.InputCost + cb.OutputCost + cb.CacheCreationCost + cb.CacheReadCost
	return cb
}
