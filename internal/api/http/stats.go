package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-labs/portfolio-backend/internal/metrics"
)

// StatsHandler serves process counters to the admin dashboard.
func StatsHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "version": version, "metrics": metrics.Get()})
	}
}
