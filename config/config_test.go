package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AUTH_PROVIDER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("REORDER_MAX_BATCH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "jwt", cfg.Auth.Provider)
	assert.Equal(t, 500, cfg.Limits.ReorderMaxBatch)
	assert.Equal(t, 15*time.Second, cfg.Database.TxTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.dev, https://www.example.dev ,")
	t.Setenv("REORDER_MAX_BATCH", "50")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.dev", "https://www.example.dev"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 50, cfg.Limits.ReorderMaxBatch)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWTTTL)
	assert.True(t, cfg.Storage.UseSSL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("DB_TX_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Second, cfg.Database.TxTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost"},
			Auth:     AuthConfig{Provider: "jwt"},
			Limits:   LimitsConfig{ReorderMaxBatch: 10},
			App:      AppConfig{Environment: "development"},
		}
	}

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("jwt secret required in production", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "production"
		assert.Error(t, cfg.Validate())

		cfg.Auth.JWTSecret = "s3cret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("firebase requires credentials", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Provider = "firebase"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Provider = "basic"
		assert.Error(t, cfg.Validate())
	})

	t.Run("batch limit must be positive", func(t *testing.T) {
		cfg := base()
		cfg.Limits.ReorderMaxBatch = 0
		assert.Error(t, cfg.Validate())
	})
}
