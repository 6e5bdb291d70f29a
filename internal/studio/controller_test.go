package studio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldcraft/foldcraft-api/internal/llm"
	"github.com/foldcraft/foldcraft-api/internal/prompt"
	"github.com/foldcraft/foldcraft-api/internal/structure"
)

const goodOracleJSON = `{
	"sequence": "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ",
	"analysis": "Compact helical bundle with a polar core.",
	"binding_affinity": -9.2,
	"predicted_stability": 0.81,
	"binding_pocket_residues": [12, 15, 19],
	"pdb_id": "1ABC",
	"confidence": "high",
	"validation_steps": ["fold prediction", "docking"]
}`

// mockOracle implements Oracle with a scripted response per call.
type mockOracle struct {
	model      string
	invokeFunc func(ctx context.Context, doc *prompt.Document) (*llm.GenerationResponse, error)
	calls      []*prompt.Document
}

func (m *mockOracle) Invoke(ctx context.Context, doc *prompt.Document) (*llm.GenerationResponse, error) {
	m.calls = append(m.calls, doc)
	return m.invokeFunc(ctx, doc)
}

func (m *mockOracle) Model() string {
	if m.model == "" {
		return "gemini-2.5-flash"
	}
	return m.model
}

type mockFetcher struct {
	fetchFunc func(ctx context.Context, pdbID string) (*structure.Payload, error)
	calls     []string
}

func (m *mockFetcher) Fetch(ctx context.Context, pdbID string) (*structure.Payload, error) {
	m.calls = append(m.calls, pdbID)
	if m.fetchFunc == nil {
		return &structure.Payload{PDBID: pdbID, Source: "rcsb", Body: "ATOM ..."}, nil
	}
	return m.fetchFunc(ctx, pdbID)
}

func oracleReturning(raw string) *mockOracle {
	return &mockOracle{
		invokeFunc: func(_ context.Context, _ *prompt.Document) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{
				RawOutput: raw,
				Usage:     llm.TokenUsage{InputTokens: 120, OutputTokens: 80, TotalTokens: 200},
			}, nil
		},
	}
}

func TestGenerateSuccess(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	fetcher := &mockFetcher{}
	controller := NewController(oracle, fetcher)

	outcome, err := controller.Generate(context.Background(), "a small helical binder")
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.Equal(t, "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ", outcome.Result.Sequence)
	assert.Equal(t, "1ABC", outcome.Result.PDBID)
	require.NotNil(t, outcome.Structure)
	assert.Equal(t, "rcsb", outcome.Structure.Source)
	assert.Empty(t, outcome.Warning)
	assert.Equal(t, []string{"1ABC"}, fetcher.calls)

	state := controller.Snapshot()
	assert.False(t, state.Busy)
	assert.Equal(t, outcome.Result, state.Result)
	assert.Empty(t, state.LastError)
}

func TestGenerateEmptyDescription(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})

	_, err := controller.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, oracle.calls)
}

func TestGenerateRejectedWhileBusy(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})
	controller.busy = true

	_, err := controller.Generate(context.Background(), "a binder")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, oracle.calls)

	_, err = controller.Evolve(context.Background(), "tighter pocket")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, oracle.calls)
}

func TestGenerateFailureClearsPriorSession(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})

	_, err := controller.Generate(context.Background(), "a binder")
	require.NoError(t, err)
	require.NotNil(t, controller.Snapshot().Result)

	oracle.invokeFunc = func(_ context.Context, _ *prompt.Document) (*llm.GenerationResponse, error) {
		return nil, &llm.OracleUnavailableError{Attempts: 5, Err: errors.New("backend down")}
	}

	_, err = controller.Generate(context.Background(), "another binder")
	require.Error(t, err)

	state := controller.Snapshot()
	assert.Nil(t, state.Result)
	assert.Nil(t, state.Structure)
	assert.Contains(t, state.LastError, "oracle unavailable")
	assert.False(t, state.Busy)
}

func TestStructureFetchFailureIsWarningOnly(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	fetcher := &mockFetcher{
		fetchFunc: func(_ context.Context, _ string) (*structure.Payload, error) {
			return nil, structure.ErrNotFound
		},
	}
	controller := NewController(oracle, fetcher)

	outcome, err := controller.Generate(context.Background(), "a binder")
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.Nil(t, outcome.Structure)
	assert.Equal(t, StructureWarning, outcome.Warning)

	state := controller.Snapshot()
	assert.Equal(t, StructureWarning, state.Warning)
	assert.Empty(t, state.LastError)
}

func TestEvolveWithoutPriorDesign(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})

	_, err := controller.Evolve(context.Background(), "increase stability")
	assert.ErrorIs(t, err, ErrNoPriorDesign)
	assert.Empty(t, oracle.calls, "evolve must not contact the oracle without a prior design")
}

func TestEvolvePromptCarriesPriorSequence(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})

	_, err := controller.Generate(context.Background(), "a binder")
	require.NoError(t, err)

	_, err = controller.Evolve(context.Background(), "increase stability")
	require.NoError(t, err)

	require.Len(t, oracle.calls, 2)
	assert.Contains(t, oracle.calls[1].UserPrompt, "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ")
	assert.Contains(t, oracle.calls[1].UserPrompt, "increase stability")
}

func TestEvolveFailurePreservesPriorDesign(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})

	_, err := controller.Generate(context.Background(), "a binder")
	require.NoError(t, err)
	prior := controller.Snapshot()

	oracle.invokeFunc = func(_ context.Context, _ *prompt.Document) (*llm.GenerationResponse, error) {
		return nil, &llm.OracleUnavailableError{Attempts: 5, Err: errors.New("backend down")}
	}

	_, err = controller.Evolve(context.Background(), "increase stability")
	require.Error(t, err)

	state := controller.Snapshot()
	require.NotNil(t, state.Result)
	assert.Equal(t, prior.Result.Sequence, state.Result.Sequence)
	assert.Equal(t, prior.Structure, state.Structure)
	assert.Contains(t, state.LastError, "oracle unavailable")
	assert.False(t, state.Busy)
}

func TestEvolveSuccessReplacesSession(t *testing.T) {
	oracle := oracleReturning(goodOracleJSON)
	controller := NewController(oracle, &mockFetcher{})

	_, err := controller.Generate(context.Background(), "a binder")
	require.NoError(t, err)

	evolvedJSON := `{"evolved_sequence": "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQAAA", "analysis": "Extended C-terminal helix.", "pdb_id": "2DEF"}`
	oracle.invokeFunc = func(_ context.Context, _ *prompt.Document) (*llm.GenerationResponse, error) {
		return &llm.GenerationResponse{RawOutput: evolvedJSON}, nil
	}

	outcome, err := controller.Evolve(context.Background(), "extend the helix")
	require.NoError(t, err)
	assert.Equal(t, "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQAAA", outcome.Result.Sequence)
	assert.Equal(t, "2DEF", outcome.Result.PDBID)

	state := controller.Snapshot()
	assert.Equal(t, "2DEF", state.Result.PDBID)
	assert.Equal(t, "2DEF", state.Structure.PDBID)
}

func TestIncompleteOracleResultSurfaces(t *testing.T) {
	oracle := oracleReturning(`{"analysis": "This target is outside my design envelope."}`)
	fetcher := &mockFetcher{}
	controller := NewController(oracle, fetcher)

	_, err := controller.Generate(context.Background(), "a binder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside my design envelope")
	assert.Empty(t, fetcher.calls)
}
