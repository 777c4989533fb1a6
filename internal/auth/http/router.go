package http

import "github.com/gin-gonic/gin"

// Register attaches /auth routes. login is rate limited by limit and only
// mounted when password login is configured.
func (h *Handler) Register(rg *gin.RouterGroup, requireAdmin, limit gin.HandlerFunc) {
	if h.svc != nil {
		rg.POST("/login", limit, h.Login)
	}
	rg.GET("/me", requireAdmin, h.Me)
}
