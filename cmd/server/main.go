package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ougadgets/internal/config"
	"ougadgets/internal/events"
	"ougadgets/internal/handler"
	"ougadgets/internal/middleware"
	"ougadgets/internal/repository"
	"ougadgets/internal/service"
	"ougadgets/internal/session"
	"ougadgets/internal/storage"
	"ougadgets/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	// --- Configuration ---
	cfg := config.LoadAppConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		slog.Error("Failed to load DB config", "error", err)
		os.Exit(1)
	}

	// --- Database Connection ---
	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	dbPool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.MigrateUp(dbCfg); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// --- Object storage and events ---
	objects, err := newObjectStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize object storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	// --- Initialize Repositories ---
	phoneRepo := repository.NewPhoneRepository(dbPool)
	adminRepo := repository.NewAdminUserRepository(dbPool)
	settingRepo := repository.NewSettingRepository(dbPool)
	sessionRepo := repository.NewSessionRepository(dbPool)

	// --- Sessions ---
	jwtUtil := utils.NewJWTUtil(cfg.SessionSecret, cfg.SessionTTL)
	sessionStore := session.NewPGStore(sessionRepo, jwtUtil, cfg.CookieSecure)
	go sessionStore.Reap(ctx, cfg.SessionReapInterval)

	// --- Initialize Services ---
	authService := service.NewAuthService(adminRepo)
	profileService := service.NewProfileService(adminRepo, authService, objects)
	phoneService := service.NewPhoneService(phoneRepo, publisher)
	settingService := service.NewSettingService(settingRepo, publisher)

	// --- Initialize Handlers ---
	systemHandler := handler.NewSystemHandler(dbPool)
	authHandler := handler.NewAuthHandler(authService, sessionStore)
	phoneHandler := handler.NewPhoneHandler(phoneService)
	settingHandler := handler.NewSettingHandler(settingService)
	adminHandler := handler.NewAdminHandler(profileService, phoneService)

	// --- Setup Gin Router ---
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware(cfg.CORSOrigin))
	router.MaxMultipartMemory = service.MaxFileSize

	if cfg.StorageBackend == config.StorageLocal {
		router.Static("/uploads", cfg.UploadsDir)
	}

	// --- Initialize Middlewares ---
	authMW := []gin.HandlerFunc{
		middleware.SessionAuthMiddleware(sessionStore),
		middleware.BackOfficeMiddleware(),
	}

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	systemHandler.RegisterSystemRoutes(router, apiGroup)
	authHandler.RegisterAuthRoutes(apiGroup)
	phoneHandler.RegisterPhoneRoutes(apiGroup, authMW...)
	settingHandler.RegisterSettingRoutes(apiGroup, authMW...)
	adminHandler.RegisterAdminRoutes(apiGroup, authMW...)

	CSRF := middleware.CSRFProtect(cfg.CSRFKey, cfg.CookieSecure, trustedOrigins(cfg))

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           CSRF(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.ServerPort, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}

func newObjectStorage(ctx context.Context, cfg *config.AppConfig) (storage.ObjectStorage, error) {
	var objects storage.ObjectStorage
	switch cfg.StorageBackend {
	case config.StorageMinio:
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		objects = client
	default:
		objects = storage.NewLocalStorage(cfg.UploadsDir, "/uploads")
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return objects, nil
}

// newPublisher falls back to a no-op publisher when RabbitMQ is not
// configured or unreachable.
func newPublisher(cfg *config.AppConfig) events.Publisher {
	if cfg.RabbitMQ.URL == "" {
		return events.Noop{}
	}
	mq, err := events.NewRabbitMQ(cfg.RabbitMQ)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, catalog events disabled", "error", err)
		return events.Noop{}
	}
	slog.Info("Publishing catalog events", "queue", cfg.RabbitMQ.Queue)
	return mq
}

func trustedOrigins(cfg *config.AppConfig) []string {
	origins := []string{"localhost:" + cfg.ServerPort, "127.0.0.1:" + cfg.ServerPort}
	if u, err := url.Parse(cfg.CORSOrigin); err == nil && u.Host != "" {
		origins = append(origins, u.Host)
	}
	return origins
}
