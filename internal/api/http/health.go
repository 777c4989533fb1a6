package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Redis     string    `json:"redis,omitempty"`
	Storage   string    `json:"storage,omitempty"`
}

// Pinger is satisfied by *sql.DB and by the storage/redis Pinger adapter.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Checks lists the dependencies probed by the health endpoint. Nil entries
// are reported as disabled.
type Checks struct {
	DB      Pinger
	Redis   Pinger
	Storage Pinger
}

type HealthHandler struct {
	serviceName string
	version     string
	checks      Checks
}

func NewHealthHandler(serviceName, version string, checks Checks) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	dbStatus := ping(ctx, h.checks.DB)
	redisStatus := ping(ctx, h.checks.Redis)
	storageStatus := ping(ctx, h.checks.Storage)

	status := "healthy"
	if dbStatus == "down" || redisStatus == "down" || storageStatus == "down" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Redis:     redisStatus,
		Storage:   storageStatus,
	})
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.PingContext(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
