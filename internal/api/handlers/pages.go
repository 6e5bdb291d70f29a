package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foldcraft/foldcraft-api/web"
)

// Studio renders the single-page design studio.
func Studio(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}
