package media

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/logging"
)

// multipartOverhead leaves room for form boundaries and headers.
const multipartOverhead = 64 << 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/images", h.upload)
	rg.DELETE("/images/:name", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	if limit := h.svc.MaxBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": ErrTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "multipart field \"file\" is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read upload"})
		return
	}
	defer f.Close()

	img, err := h.svc.Upload(c.Request.Context(), f, fh.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "key": img.Key, "url": img.URL, "contentType": img.ContentType})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error("media request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "object storage unavailable"})
	}
}
