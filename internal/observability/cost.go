package observability

// Pricing constants, USD per 1K tokens
const (
	tokensPerKilo = 1000.0

	gemini25FlashInputPrice  = 0.00015
	gemini25FlashOutputPrice = 0.0006

	gemini25ProInputPrice  = 0.00125
	gemini25ProOutputPrice = 0.005

	gpt4oInputPrice  = 0.005
	gpt4oOutputPrice = 0.015

	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the supported oracle models
var PricingTable = map[string]ModelPricing{
	"gemini-2.5-flash": {
		InputPricePer1K:  gemini25FlashInputPrice,
		OutputPricePer1K: gemini25FlashOutputPrice,
	},
	"gemini-2.5-pro": {
		InputPricePer1K:  gemini25ProInputPrice,
		OutputPricePer1K: gemini25ProOutputPrice,
	},
	"gpt-4o": {
		InputPricePer1K:  gpt4oInputPrice,
		OutputPricePer1K: gpt4oOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
}

// EstimateCost calculates the cost in USD for one oracle call.
// Unknown models cost zero rather than guessing.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := PricingTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / tokensPerKilo * pricing.InputPricePer1K
	outputCost := float64(outputTokens) / tokensPerKilo * pricing.OutputPricePer1K
	return inputCost + outputCost
}
