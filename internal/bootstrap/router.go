package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/folio-labs/portfolio-backend/internal/api/http"
	"github.com/folio-labs/portfolio-backend/internal/api/http/middleware"
	"github.com/folio-labs/portfolio-backend/internal/api/http/routes"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Logger         *zap.Logger
	Health         httpapi.Checks
	V1             routes.V1Deps
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Health)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, dep.V1)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
