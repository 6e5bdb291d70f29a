package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and which oracle backs the API.
type HealthHandler struct {
	oracleModel string
}

func NewHealthHandler(oracleModel string) *HealthHandler {
	return &HealthHandler{oracleModel: oracleModel}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"oracle": gin.H{
			"model": h.oracleModel,
		},
	})
}
