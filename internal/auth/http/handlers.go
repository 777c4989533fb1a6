package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
	"github.com/folio-labs/portfolio-backend/internal/auth/middleware"
	"github.com/folio-labs/portfolio-backend/internal/logging"
)

// Login exchanges admin credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
			return
		}
		logging.FromContext(c.Request.Context()).Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.Principal,
	})
}

// Me returns the authenticated principal.
func (h *Handler) Me(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": p})
}
