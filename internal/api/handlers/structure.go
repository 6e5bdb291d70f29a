package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foldcraft/foldcraft-api/internal/structure"
	"github.com/foldcraft/foldcraft-api/internal/studio"
)

// StructureHandler proxies PDB files so the browser never talks to the
// mirrors directly (they do not send CORS headers).
type StructureHandler struct {
	fetcher studio.StructureFetcher
}

func NewStructureHandler(fetcher studio.StructureFetcher) *StructureHandler {
	return &StructureHandler{fetcher: fetcher}
}

// Get streams the PDB file for one entry ID.
func (h *StructureHandler) Get(c *gin.Context) {
	pdbID := c.Param("id")

	payload, err := h.fetcher.Fetch(c.Request.Context(), pdbID)
	if err != nil {
		if errors.Is(err, structure.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "structure not found on any mirror", "pdb_id": pdbID})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Structure-Source", payload.Source)
	c.Data(http.StatusOK, "chemical/x-pdb", []byte(payload.Body))
}
