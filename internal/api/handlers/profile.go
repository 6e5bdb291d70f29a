package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foldcraft/foldcraft-api/internal/analysis"
	"github.com/foldcraft/foldcraft-api/internal/studio"
)

// ProfileHandler computes sequence statistics for the review panel.
type ProfileHandler struct {
	controller *studio.Controller
}

func NewProfileHandler(controller *studio.Controller) *ProfileHandler {
	return &ProfileHandler{controller: controller}
}

// GetProfile analyzes either an explicit ?sequence= or the session's current
// design. With ?format=png it returns the hydropathy plot instead of JSON.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sequence := c.Query("sequence")
	if sequence == "" {
		state := h.controller.Snapshot()
		if state.Result == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no design in session and no sequence given"})
			return
		}
		sequence = state.Result.Sequence
	}

	profile, err := analysis.Analyze(sequence)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "png" {
		png, err := analysis.RenderHydropathyPNG(profile)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	c.JSON(http.StatusOK, profile)
}
