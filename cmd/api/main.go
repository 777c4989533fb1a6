package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/config"
	httpapi "github.com/folio-labs/portfolio-backend/internal/api/http"
	"github.com/folio-labs/portfolio-backend/internal/api/http/middleware"
	"github.com/folio-labs/portfolio-backend/internal/api/http/routes"
	"github.com/folio-labs/portfolio-backend/internal/auth"
	authhttp "github.com/folio-labs/portfolio-backend/internal/auth/http"
	authmw "github.com/folio-labs/portfolio-backend/internal/auth/middleware"
	authservice "github.com/folio-labs/portfolio-backend/internal/auth/service"
	"github.com/folio-labs/portfolio-backend/internal/bootstrap"
	chathttp "github.com/folio-labs/portfolio-backend/internal/chat/http"
	"github.com/folio-labs/portfolio-backend/internal/chat/llm"
	chatrepo "github.com/folio-labs/portfolio-backend/internal/chat/repository"
	chatservice "github.com/folio-labs/portfolio-backend/internal/chat/service"
	"github.com/folio-labs/portfolio-backend/internal/contact"
	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/media"
	"github.com/folio-labs/portfolio-backend/internal/posts"
	projectshttp "github.com/folio-labs/portfolio-backend/internal/projects/http"
	projectsrepo "github.com/folio-labs/portfolio-backend/internal/projects/repository"
	projectsservice "github.com/folio-labs/portfolio-backend/internal/projects/service"
	"github.com/folio-labs/portfolio-backend/internal/storage/objectstore"
	"github.com/folio-labs/portfolio-backend/internal/storage/postgres"
	redisstore "github.com/folio-labs/portfolio-backend/internal/storage/redis"
)

const serviceName = "portfolio-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	rdb, err := redisstore.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	health := httpapi.Checks{DB: db, Redis: redisstore.Pinger{Client: rdb}}

	verifier, login, err := buildAuth(ctx, cfg, logger)
	if err != nil {
		return err
	}
	requireAdmin := authmw.RequireAdmin(verifier)

	projectSvc := projectsservice.NewProjectService(
		projectsrepo.NewProjectRepository(db, cfg.Database.TxTimeout),
		cfg.Limits.ReorderMaxBatch,
	)

	v1 := routes.V1Deps{
		Version:      cfg.App.Version,
		Projects:     projectshttp.New(projectSvc),
		Posts:        posts.NewHandler(posts.NewService(posts.NewRepo(db))),
		Contact:      contact.NewHandler(contact.NewService(contact.NewRepo(db))),
		Auth:         authhttp.New(login),
		RequireAdmin: requireAdmin,
		ContactLimit: middleware.NewRateLimiter(cfg.Limits.ContactPerMin).Middleware(),
		ChatLimit:    middleware.NewRateLimiter(cfg.Limits.ChatPerMin).Middleware(),
		LoginLimit:   middleware.NewRateLimiter(10).Middleware(),
	}

	if cfg.GenAI.APIKey != "" {
		gen, err := llm.NewGeminiClient(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			return err
		}
		chatSvc := chatservice.NewChatService(chatrepo.NewSessionRepository(rdb), gen, chatservice.Options{
			SystemInstruction: cfg.GenAI.SystemInstruction,
			HistoryTurns:      cfg.GenAI.HistoryTurns,
			MaxMessageChars:   cfg.Limits.ChatMaxMessage,
		})
		v1.Chat = chathttp.New(chatSvc)
		logger.Info("chat enabled", zap.String("model", gen.Name()))
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat disabled")
	}

	if cfg.Storage.AccessKey != "" {
		store, err := objectstore.NewMinioStore(ctx, &cfg.Storage)
		if err != nil {
			return err
		}
		v1.Media = media.NewHandler(media.NewService(store, cfg.Storage.MaxUploadSize))
		health.Storage = store
		logger.Info("media uploads enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("S3_ACCESS_KEY not set, media uploads disabled")
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
		Health:         health,
		V1:             v1,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildAuth picks the admin token verifier. Password login is only offered
// with the jwt provider.
func buildAuth(ctx context.Context, cfg *config.Config, logger *zap.Logger) (authmw.Verifier, authhttp.LoginService, error) {
	if cfg.Auth.Provider == "firebase" {
		client, err := auth.InitializeFirebase(ctx, cfg.Auth.FirebaseCredentials)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewFirebaseVerifier(client, cfg.Auth.AdminEmail), nil, nil
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = randomSecret()
		logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}
	tokens, err := authservice.NewJWTManager(secret, cfg.Auth.JWTTTL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPasswordHash == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, login disabled")
		return tokens, nil, nil
	}
	return tokens, authservice.NewAuthService(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash, tokens), nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
