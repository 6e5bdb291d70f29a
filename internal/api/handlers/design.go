package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foldcraft/foldcraft-api/internal/design"
	"github.com/foldcraft/foldcraft-api/internal/llm"
	"github.com/foldcraft/foldcraft-api/internal/structure"
	"github.com/foldcraft/foldcraft-api/internal/studio"
	"github.com/foldcraft/foldcraft-api/internal/viewer"
)

// DesignHandler exposes the design session over HTTP.
type DesignHandler struct {
	controller *studio.Controller
}

func NewDesignHandler(controller *studio.Controller) *DesignHandler {
	return &DesignHandler{controller: controller}
}

type generateRequest struct {
	Description string `json:"description" binding:"required"`
}

type evolveRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// designResponse is the wire shape shared by generate, evolve and current.
type designResponse struct {
	Design     *design.Result    `json:"design"`
	Structure  *structureSummary `json:"structure,omitempty"`
	ViewerPlan *viewer.Plan      `json:"viewer_plan"`
	Warning    string            `json:"warning,omitempty"`
}

type structureSummary struct {
	PDBID  string `json:"pdb_id"`
	Source string `json:"source"`
	Size   int    `json:"size_bytes"`
}

// Generate runs a fresh design from a natural-language description.
func (h *DesignHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required"})
		return
	}

	outcome, err := h.controller.Generate(c.Request.Context(), req.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(outcome.Result, outcome.Structure, outcome.Warning, true))
}

// Evolve refines the current design with user feedback.
func (h *DesignHandler) Evolve(c *gin.Context) {
	var req evolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedback is required"})
		return
	}

	outcome, err := h.controller.Evolve(c.Request.Context(), req.Feedback)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildResponse(outcome.Result, outcome.Structure, outcome.Warning, true))
}

// Current returns the session state without triggering any oracle work.
func (h *DesignHandler) Current(c *gin.Context) {
	state := h.controller.Snapshot()
	if state.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "no design in session",
			"busy":       state.Busy,
			"last_error": state.LastError,
		})
		return
	}

	highlight := c.DefaultQuery("highlight", "true") == "true"
	resp := buildResponse(state.Result, state.Structure, state.Warning, highlight)
	c.JSON(http.StatusOK, gin.H{
		"busy":        state.Busy,
		"design":      resp.Design,
		"structure":   resp.Structure,
		"viewer_plan": resp.ViewerPlan,
		"warning":     state.Warning,
		"last_error":  state.LastError,
	})
}

func buildResponse(result *design.Result, payload *structure.Payload, warning string, highlight bool) *designResponse {
	resp := &designResponse{
		Design:  result,
		Warning: warning,
	}

	body := ""
	if payload != nil {
		body = payload.Body
		resp.Structure = &structureSummary{
			PDBID:  payload.PDBID,
			Source: payload.Source,
			Size:   len(payload.Body),
		}
	}

	resp.ViewerPlan = viewer.Build(body, viewer.Options{
		Highlight: highlight && result.HasPocket(),
		Residues:  result.PocketResidues,
	})
	return resp
}

// writeError maps pipeline errors onto HTTP statuses.
func (h *DesignHandler) writeError(c *gin.Context, err error) {
	var unavailable *llm.OracleUnavailableError
	var malformed *design.MalformedJSONError
	var incomplete *design.IncompleteResultError

	switch {
	case errors.Is(err, studio.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, studio.ErrNoPriorDesign):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, studio.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "design oracle is unavailable, try again later",
			"attempts": unavailable.Attempts,
		})
	case errors.As(err, &malformed), errors.Is(err, design.ErrEmptyOracleResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "design oracle returned an unreadable response"})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   err.Error(),
			"missing": incomplete.Missing,
			"reason":  incomplete.Reason,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
