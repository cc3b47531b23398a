package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"prompt-vault/internal/config"
	"prompt-vault/internal/handler"
	"prompt-vault/internal/middleware"
	"prompt-vault/internal/repository"
	"prompt-vault/internal/service"
	"prompt-vault/internal/storage"
	"prompt-vault/migrations"
	"prompt-vault/pkg/database"
	"prompt-vault/pkg/logger"
	"prompt-vault/pkg/migration"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))
	zap.L().Info("Configuration loaded")

	// --- Database ---
	db, err := database.New(database.Config{
		Path:        cfg.DatabasePath,
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	})
	if err != nil {
		zap.L().Fatal("Failed to open SQLite database", zap.Error(err))
	}
	defer db.Close()
	zap.L().Info("Connected to SQLite", zap.String("path", cfg.DatabasePath))

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, db.DB)
	if err := migrator.Up(); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}

	// --- File Storage ---
	fileStorage, err := storage.NewFileStorage(cfg.UploadsDir, log)
	if err != nil {
		zap.L().Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// --- Dependency Injection ---
	txHelper := repository.NewTransactionHelper(db.DB, log)
	promptRepo := repository.NewPromptRepository(log)
	versionRepo := repository.NewVersionRepository(log)
	tagRepo := repository.NewTagRepository(log)
	executionRepo := repository.NewExecutionRepository(log)
	imageRepo := repository.NewImageRepository(log)
	settingsRepo := repository.NewSettingsRepository(log)

	promptSvc := service.NewPromptService(db.DB, txHelper, promptRepo, versionRepo, tagRepo, executionRepo, log)
	tagSvc := service.NewTagService(db.DB, tagRepo, log)
	versionSvc := service.NewVersionService(db.DB, txHelper, versionRepo, promptRepo, log)
	executionSvc := service.NewExecutionService(db.DB, txHelper, executionRepo, promptRepo, log)
	searchSvc := service.NewSearchService(promptSvc, log)
	settingsSvc := service.NewSettingsService(db.DB, settingsRepo, log)
	imageSvc := service.NewImageService(db.DB, imageRepo, promptRepo, fileStorage, log)

	apiHandler := handler.NewHandler(promptSvc, tagSvc, versionSvc, executionSvc, searchSvc, settingsSvc, imageSvc, log)

	// <<< Rate Limiter Middleware Setup >>>
	// Однопроцессный сервер - достаточно InMemoryStore
	rateLimitStore := rateli.InMemoryStore(&rateli.InMemoryOptions{
		Rate:  cfg.RateLimitWindow,
		Limit: uint(cfg.RateLimitMax),
	})
	rateLimitMiddleware := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zap.L().Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.String(http.StatusTooManyRequests, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
	zap.L().Info("Rate limiter middleware initialized")

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddlewareForGin(log))
	router.Use(gin.Recovery())
	router.Use(rateLimitMiddleware)

	p := ginprometheus.NewPrometheus("gin")

	// Configure CORS Middleware
	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:1420"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:1420"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Статика загруженных изображений
	router.Static("/uploads", cfg.UploadsDir)

	// Register Application Routes
	apiHandler.RegisterRoutes(router)

	// Prometheus middleware применяем после регистрации роутов
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("addr", cfg.Addr()))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
