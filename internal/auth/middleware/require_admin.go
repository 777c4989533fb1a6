package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
	"github.com/folio-labs/portfolio-backend/internal/logging"
)

const CtxPrincipal = "auth_principal"

// Verifier turns a bearer token into a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Principal, error)
}

// RequireAdmin validates the bearer token and stores the principal in the
// Gin context.
func RequireAdmin(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		p, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			logging.FromContext(c.Request.Context()).Info("admin token rejected", zap.Error(err))
			if errors.Is(err, domain.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		c.Set(CtxPrincipal, p)
		c.Next()
	}
}

// PrincipalFrom returns the principal set by RequireAdmin, or nil.
func PrincipalFrom(c *gin.Context) *domain.Principal {
	if v, ok := c.Get(CtxPrincipal); ok {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}
	return nil
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
