package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/chat/domain"
	"github.com/folio-labs/portfolio-backend/internal/chat/service"
	"github.com/folio-labs/portfolio-backend/internal/logging"
)

type ChatService interface {
	Send(ctx context.Context, req service.SendRequest) (*domain.Reply, error)
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)
	Clear(ctx context.Context, sessionID string) error
}

type Handler struct {
	svc ChatService
}

func New(svc ChatService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches chat routes. limit guards the model-backed endpoint.
func (h *Handler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("", limit, h.send)
	rg.GET("/:session_id", h.history)
	rg.DELETE("/:session_id", h.clear)
}

func (h *Handler) send(c *gin.Context) {
	var req service.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "message required"})
		return
	}

	reply, err := h.svc.Send(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessionId": reply.SessionID, "reply": reply.Reply})
}

func (h *Handler) history(c *gin.Context) {
	turns, err := h.svc.History(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessionId": c.Param("session_id"), "messages": turns})
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), c.Param("session_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrEmptyReply):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "the assistant is unavailable right now"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "chat history unavailable, try again", "retryable": true})
	default:
		logging.FromContext(c.Request.Context()).Error("chat request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
