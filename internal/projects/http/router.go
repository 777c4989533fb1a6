package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. Writes go
// through requireAdmin.
func (h *Handler) Register(rg *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)

	admin := rg.Group("", requireAdmin)
	admin.POST("", h.create)
	admin.PUT("/reorder", h.reorder)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}
