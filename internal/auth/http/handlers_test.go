package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
	"github.com/folio-labs/portfolio-backend/internal/auth/middleware"
	"github.com/folio-labs/portfolio-backend/internal/auth/service"
)

type forbidAll struct{}

func (forbidAll) Verify(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrForbidden
}

func setupAuthRouter(t *testing.T, verifier middleware.Verifier) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := service.NewJWTManager("a-very-long-test-secret-value", time.Hour)
	require.NoError(t, err)
	svc := service.NewAuthService("owner@example.com", string(hash), tokens)
	if verifier == nil {
		verifier = tokens
	}

	r := gin.New()
	New(svc).Register(r.Group("/api/v1/auth"), middleware.RequireAdmin(verifier), func(c *gin.Context) { c.Next() })
	return r, svc
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestLoginThenMe(t *testing.T) {
	r, _ := setupAuthRouter(t, nil)

	rr := postJSON(r, "/api/v1/auth/login", map[string]string{"email": "owner@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var me struct {
		User domain.Principal `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "owner@example.com", me.User.Email)
}

func TestLoginRejections(t *testing.T) {
	r, _ := setupAuthRouter(t, nil)

	rr := postJSON(r, "/api/v1/auth/login", map[string]string{"email": "owner@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(r, "/api/v1/auth/login", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, _ := setupAuthRouter(t, nil)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)
	}

	r, _ = setupAuthRouter(t, forbidAll{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRegister_WithoutPasswordLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(nil).Register(r.Group("/api/v1/auth"), middleware.RequireAdmin(forbidAll{}), func(c *gin.Context) { c.Next() })

	rr := postJSON(r, "/api/v1/auth/login", map[string]string{"email": "owner@example.com", "password": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
