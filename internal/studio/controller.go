package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/foldcraft/foldcraft-api/internal/design"
	"github.com/foldcraft/foldcraft-api/internal/llm"
	"github.com/foldcraft/foldcraft-api/internal/logger"
	"github.com/foldcraft/foldcraft-api/internal/metrics"
	"github.com/foldcraft/foldcraft-api/internal/observability"
	"github.com/foldcraft/foldcraft-api/internal/prompt"
	"github.com/foldcraft/foldcraft-api/internal/structure"
)

var (
	// ErrBusy is returned when a design request arrives while another is in flight.
	ErrBusy = errors.New("a design request is already in progress")

	// ErrNoPriorDesign is returned when evolve is requested before any
	// successful generation.
	ErrNoPriorDesign = errors.New("no prior design to evolve; generate a design first")

	// ErrEmptyInput is returned when the request text is blank.
	ErrEmptyInput = errors.New("request text must not be empty")
)

// StructureWarning is attached to an otherwise successful design when no
// mirror could serve the PDB file. The design itself is still usable.
const StructureWarning = "3D structure could not be retrieved; sequence and analysis are unaffected"

// Oracle is the slice of the LLM client the controller needs.
type Oracle interface {
	Invoke(ctx context.Context, doc *prompt.Document) (*llm.GenerationResponse, error)
	Model() string
}

// StructureFetcher resolves a PDB identifier to raw structure data.
type StructureFetcher interface {
	Fetch(ctx context.Context, pdbID string) (*structure.Payload, error)
}

// Outcome is the result of one generate or evolve run.
type Outcome struct {
	Result    *design.Result
	Structure *structure.Payload
	Warning   string
}

// State is a snapshot of the controller for read-only consumers.
type State struct {
	Busy      bool
	Result    *design.Result
	Structure *structure.Payload
	Warning   string
	LastError string
}

// Controller owns the single-design session: one result at a time, one
// request in flight at a time. Generate replaces the session outright;
// evolve mutates it only on success.
type Controller struct {
	oracle     Oracle
	fetcher    StructureFetcher
	builder    *prompt.Builder
	normalizer *design.Normalizer

	cloudwatch *metrics.Client
	sentry     *metrics.SentryMetrics

	mu        sync.Mutex
	busy      bool
	result    *design.Result
	structure *structure.Payload
	warning   string
	lastError string
}

// NewController creates a controller with the default normalizer.
func NewController(oracle Oracle, fetcher StructureFetcher) *Controller {
	return &Controller{
		oracle:     oracle,
		fetcher:    fetcher,
		builder:    prompt.NewBuilder(),
		normalizer: design.NewNormalizer(nil),
	}
}

// WithMetrics attaches optional metric recorders.
func (c *Controller) WithMetrics(cw *metrics.Client, sm *metrics.SentryMetrics) *Controller {
	c.cloudwatch = cw
	c.sentry = sm
	return c
}

// Generate runs a fresh design from a natural-language description. Any
// previous session state is discarded before the oracle is contacted, so a
// failed generation leaves the session empty rather than stale.
func (c *Controller) Generate(ctx context.Context, description string) (*Outcome, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.result = nil
	c.structure = nil
	c.warning = ""
	c.lastError = ""
	c.mu.Unlock()

	doc := c.builder.BuildGenerate(description)
	outcome, err := c.run(ctx, "generate", doc)
	c.finish(outcome, err, false)
	return outcome, err
}

// Evolve refines the current design with user feedback. It requires a prior
// result and never contacts the oracle without one. On failure the prior
// design survives untouched.
func (c *Controller) Evolve(ctx context.Context, feedback string) (*Outcome, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.result == nil || c.result.Sequence == "" {
		c.mu.Unlock()
		return nil, ErrNoPriorDesign
	}
	priorSequence := c.result.Sequence
	c.busy = true
	c.mu.Unlock()

	doc := c.builder.BuildEvolve(priorSequence, feedback)
	outcome, err := c.run(ctx, "evolve", doc)
	c.finish(outcome, err, true)
	return outcome, err
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Busy:      c.busy,
		Result:    c.result,
		Structure: c.structure,
		Warning:   c.warning,
		LastError: c.lastError,
	}
}

// run executes the oracle → normalize → structure pipeline shared by
// generate and evolve.
func (c *Controller) run(ctx context.Context, action string, doc *prompt.Document) (*Outcome, error) {
	startTime := time.Now()
	model := c.oracle.Model()

	trace := observability.GetClient().StartTrace(ctx, "design."+action, map[string]interface{}{
		"model": model,
	})
	defer trace.Finish()

	gen := trace.Generation("oracle", map[string]interface{}{"action": action})
	gen.Input(doc.UserPrompt)

	response, err := c.oracle.Invoke(ctx, doc)
	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		c.recordDuration(action, startTime, false)
		var unavailable *llm.OracleUnavailableError
		if errors.As(err, &unavailable) && c.sentry != nil {
			c.sentry.RecordOracleFailure(model, unavailable.Attempts, err)
		}
		logger.Error("❌ Oracle request failed", err, logger.Fields{
			"action": action,
			"model":  model,
		})
		return nil, err
	}

	gen.Output(response.RawOutput)
	gen.Usage(response.Usage.InputTokens, response.Usage.OutputTokens)
	gen.Finish()

	if c.cloudwatch != nil {
		c.cloudwatch.RecordOracleUsage(model,
			response.Usage.InputTokens, response.Usage.OutputTokens, response.Usage.TotalTokens)
	}
	if cost := observability.EstimateCost(model, response.Usage.InputTokens, response.Usage.OutputTokens); cost > 0 {
		logger.Info("💰 Oracle cost estimate", logger.Fields{
			"model":    model,
			"cost_usd": cost,
		})
	}

	result, err := c.normalizer.Normalize(response.RawOutput)
	if err != nil {
		c.recordDuration(action, startTime, false)
		logger.Error("❌ Oracle response rejected", err, logger.Fields{"action": action})
		return nil, err
	}

	outcome := &Outcome{Result: result}
	outcome.Structure, outcome.Warning = c.fetchStructure(ctx, result.PDBID)

	c.recordDuration(action, startTime, true)
	logger.Info("✅ Design complete", logger.Fields{
		"action":          action,
		"sequence_length": result.SequenceLength(),
		"pdb_id":          result.PDBID,
		"has_structure":   outcome.Structure != nil,
	})
	return outcome, nil
}

// fetchStructure resolves the scaffold PDB file. Failure here degrades the
// session to sequence-only rather than failing the design.
func (c *Controller) fetchStructure(ctx context.Context, pdbID string) (*structure.Payload, string) {
	if pdbID == "" {
		return nil, StructureWarning
	}

	payload, err := c.fetcher.Fetch(ctx, pdbID)
	if err != nil {
		if c.cloudwatch != nil {
			c.cloudwatch.RecordStructureFetch("none", false)
		}
		logger.Warn("⚠️  Structure fetch failed, continuing without 3D view", logger.Fields{
			"pdb_id": pdbID,
			"error":  err.Error(),
		})
		return nil, StructureWarning
	}

	if c.cloudwatch != nil {
		c.cloudwatch.RecordStructureFetch(payload.Source, true)
	}
	return payload, ""
}

// finish commits the pipeline outcome back into the session. For evolve,
// failure leaves the prior design in place and only records the error.
func (c *Controller) finish(outcome *Outcome, err error, preserveOnFailure bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if err != nil {
		c.lastError = err.Error()
		if !preserveOnFailure {
			c.result = nil
			c.structure = nil
			c.warning = ""
		}
		return
	}

	c.result = outcome.Result
	c.structure = outcome.Structure
	c.warning = outcome.Warning
	c.lastError = ""
}

func (c *Controller) recordDuration(action string, startTime time.Time, success bool) {
	if c.cloudwatch != nil {
		c.cloudwatch.RecordDesignDuration(action, time.Since(startTime), success)
	}
}
