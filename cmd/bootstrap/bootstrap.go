package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"car-rental-admin/config"
	deliveryHttp "car-rental-admin/internal/delivery/http"
	"car-rental-admin/internal/delivery/http/handler"
	"car-rental-admin/internal/delivery/http/middleware"
	"car-rental-admin/internal/infrastructure/cache"
	"car-rental-admin/internal/infrastructure/database"
	"car-rental-admin/internal/repository"
	"car-rental-admin/internal/service"
	"car-rental-admin/internal/usecase"
	"car-rental-admin/pkg/jwt"
	"car-rental-admin/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Version is set at build time with -ldflags "-X car-rental-admin/cmd/bootstrap.Version=..."
var Version = "dev"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := newLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.Migrate {
		if err := database.Migrate(database.MigrationURL(cfg.DB), log); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server, authUsecase := initializeServer(cfg, log, db, redisClient)
	app.Server = server

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := authUsecase.EnsureAdmin(ctx, cfg.Admin); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to ensure admin account: %w", err)
	}

	return app, nil
}

// newLogger configures the logrus logger shared by every layer
func newLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)
	if cfg.Env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeServer wires every layer and returns the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) (*http.Server, usecase.AuthUsecase) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	bookingRepo := repository.NewBookingRepository()
	carRepo := repository.NewCarRepository(db)
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenService := service.NewTokenService(redisClient, log)
	cacheService := service.NewBookingCacheService(redisClient, log, cfg.Redis.CacheTTL)
	eventService := service.NewBookingEventService(redisClient, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, jwtService, tokenService, auditService)
	bookingUsecase := usecase.NewBookingUsecase(db, log, bookingRepo, auditService, cacheService, eventService)
	supplierUsecase := usecase.NewSupplierUsecase(db, log, userRepo)
	carUsecase := usecase.NewCarUsecase(log, carRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	eventHandler := handler.NewEventHandler(log, eventService, handler.AllowOrigins(cfg.HTTP.AllowedOrigins))
	supplierHandler := handler.NewSupplierHandler(supplierUsecase)
	carHandler := handler.NewCarHandler(carUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	pageHandler := handler.NewPageHandler(log, cfg.App.Name, Version)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.HTTP.AllowedOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		bookingHandler,
		eventHandler,
		supplierHandler,
		carHandler,
		auditLogHandler,
		pageHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		rateLimiter,
	)

	// Create server; no WriteTimeout since booking event streams are long lived
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Hijacked websocket connections are not closed by Shutdown
	server.RegisterOnShutdown(eventHandler.Close)

	return server, authUsecase
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s, version %s", app.Config.App.Env, Version)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
