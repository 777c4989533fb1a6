package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/logging"
)

type postService interface {
	List(ctx context.Context, opts ListOptions) ([]Post, error)
	Get(ctx context.Context, idOrSlug string, includeDrafts bool) (*Post, error)
	Create(ctx context.Context, in CreatePostInput) (*Post, error)
	Update(ctx context.Context, id string, in UpdatePostInput) (*Post, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	svc postService
}

func NewHandler(svc postService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts public reads under /posts and the admin surface under
// /posts (writes) and /admin/posts (drafts included).
func (h *Handler) Register(api *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	pub := api.Group("/posts")
	pub.GET("", h.listPublished)
	pub.GET("/:id", h.getPublished)
	pub.POST("", requireAdmin, h.create)
	pub.PUT("/:id", requireAdmin, h.update)
	pub.DELETE("/:id", requireAdmin, h.delete)

	admin := api.Group("/admin/posts", requireAdmin)
	admin.GET("", h.listAll)
	admin.GET("/:id", h.getAny)
}

func (h *Handler) listPublished(c *gin.Context) { h.list(c, false) }
func (h *Handler) listAll(c *gin.Context)       { h.list(c, true) }

func (h *Handler) list(c *gin.Context, includeDrafts bool) {
	opts := ListOptions{Tag: c.Query("tag"), IncludeDrafts: includeDrafts}
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "limit must be a positive integer"})
			return
		}
		opts.Limit = n
	}

	items, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "posts": items})
}

func (h *Handler) getPublished(c *gin.Context) { h.get(c, false) }
func (h *Handler) getAny(c *gin.Context)       { h.get(c, true) }

func (h *Handler) get(c *gin.Context, includeDrafts bool) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"), includeDrafts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "post": p})
}

func (h *Handler) create(c *gin.Context) {
	var req CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "post": p})
}

func (h *Handler) update(c *gin.Context) {
	var req UpdatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "post": p})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrDuplicateSlug):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "store unavailable, try again", "retryable": true})
	default:
		logging.FromContext(c.Request.Context()).Error("post request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
