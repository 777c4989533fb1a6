package contact

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/logging"
)

type contactService interface {
	Submit(ctx context.Context, in SubmitInput) (*Message, error)
	List(ctx context.Context, unreadOnly bool) ([]Message, error)
	MarkRead(ctx context.Context, id string, read bool) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	svc contactService
}

func NewHandler(svc contactService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts POST /contact behind limit and the admin inbox behind
// requireAdmin.
func (h *Handler) Register(api *gin.RouterGroup, requireAdmin, limit gin.HandlerFunc) {
	g := api.Group("/contact")
	g.POST("", limit, h.submit)
	g.GET("", requireAdmin, h.list)
	g.PATCH("/:id/read", requireAdmin, h.markRead)
	g.DELETE("/:id", requireAdmin, h.delete)
}

func (h *Handler) submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name, a valid email and a message are required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name, a valid email and a message are required"})
		return
	}

	m, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": m.ID})
}

func (h *Handler) list(c *gin.Context) {
	unread := false
	if raw, ok := c.GetQuery("unread"); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unread must be true or false"})
			return
		}
		unread = b
	}

	items, err := h.svc.List(c.Request.Context(), unread)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": items})
}

type markReadReq struct {
	Read *bool `json:"read"`
}

// markRead defaults to read=true when the body is empty.
func (h *Handler) markRead(c *gin.Context) {
	var req markReadReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}

	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), read); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "store unavailable, try again", "retryable": true})
	default:
		logging.FromContext(c.Request.Context()).Error("contact request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
