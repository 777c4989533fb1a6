package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/folio-labs/portfolio-backend/internal/storage/redis"
)

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, h *HealthHandler, method string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	req := httptest.NewRequest(method, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewHealthHandler("test-service", "1.0.0", Checks{Redis: redisstore.Pinger{Client: client}})
	rr := serveHealth(t, h, http.MethodGet)
	require.Equal(t, http.StatusOK, rr.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "test-service", response.Service)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Equal(t, "disabled", response.DB)
	assert.Equal(t, "up", response.Redis)
	assert.Equal(t, "disabled", response.Storage)
}

func TestHealthCheckDegraded(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("refused") })
	h := NewHealthHandler("svc", "dev", Checks{DB: down})

	rr := serveHealth(t, h, http.MethodGet)
	var response HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "degraded", response.Status)
	assert.Equal(t, "down", response.DB)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	h := NewHealthHandler("test-service", "1.0.0", Checks{})
	rr := serveHealth(t, h, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
