package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCostKnownModel(t *testing.T) {
	cost := EstimateCost("gemini-2.5-flash", 2000, 1000)
	assert.InDelta(t, 2*gemini25FlashInputPrice+gemini25FlashOutputPrice, cost, 1e-9)
}

func TestEstimateCostUnknownModelIsZero(t *testing.T) {
	assert.Zero(t, EstimateCost("mystery-model", 1000, 1000))
}

func TestEstimateCostZeroTokens(t *testing.T) {
	assert.Zero(t, EstimateCost("gpt-4o", 0, 0))
}
