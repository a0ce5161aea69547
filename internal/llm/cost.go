package llm

import "sort"

// USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

var priceTable = map[string]modelPricing{
	"gemini-2.5-flash":      {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-flash-lite": {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"gemini-2.0-flash":      {InputPerMillion: 0.10, OutputPerMillion: 0.40},

	"gpt-4o":      {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini": {InputPerMillion: 0.15, OutputPerMillion: 0.60},
}

// EstimateCost returns the USD cost of a call, or 0 for unknown and local models.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000.0*pricing.InputPerMillion +
		float64(outputTokens)/1_000_000.0*pricing.OutputPerMillion
}

// EstimateTokens approximates the token count of text at 4 bytes per token.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// PricedModels lists the models EstimateCost knows, sorted by name.
func PricedModels() []string {
	names := make([]string, 0, len(priceTable))
	for name := range priceTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
