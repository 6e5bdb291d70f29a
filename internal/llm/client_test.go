package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foldcraft/foldcraft-api/internal/prompt"
	"github.com/foldcraft/foldcraft-api/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(delays *[]time.Duration) retry.Sleeper {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestClientInvokeRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, _ *GenerationRequest) (*GenerationResponse, error) {
			attempts++
			if attempts < 5 {
				return nil, errors.New("rate limited")
			}
			return &GenerationResponse{RawOutput: "{}"}, nil
		},
	}

	var delays []time.Duration
	client := NewClient(mock, "test-model").WithPolicy(retry.DefaultPolicy(), noSleep(&delays))

	doc := prompt.NewBuilder().BuildGenerate("a protease")
	resp, err := client.Invoke(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.RawOutput)
	assert.Equal(t, 5, attempts)

	var total time.Duration
	for _, d := range delays {
		total += d
	}
	assert.Equal(t, 15*time.Second, total)
}

func TestClientInvokeExhaustionIsOracleUnavailable(t *testing.T) {
	attempts := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, _ *GenerationRequest) (*GenerationResponse, error) {
			attempts++
			return nil, errors.New("backend down")
		},
	}

	var delays []time.Duration
	client := NewClient(mock, "test-model").WithPolicy(retry.DefaultPolicy(), noSleep(&delays))

	_, err := client.Invoke(context.Background(), prompt.NewBuilder().BuildGenerate("x"))

	var unavailable *OracleUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 5, unavailable.Attempts)
	assert.Equal(t, 5, attempts)
}

func TestClientInvokePassesDocumentThrough(t *testing.T) {
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			assert.Equal(t, "oracle-model", request.Model)
			assert.Contains(t, request.UserPrompt, "a kinase inhibitor binder")
			assert.NotEmpty(t, request.SystemPrompt)
			return &GenerationResponse{RawOutput: "{}"}, nil
		},
	}

	client := NewClient(mock, "oracle-model")
	_, err := client.Invoke(context.Background(), prompt.NewBuilder().BuildGenerate("a kinase inhibitor binder"))
	require.NoError(t, err)
}
