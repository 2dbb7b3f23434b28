package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/controllers"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/database"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/routes"
	"github.com/rishavk21/UrbanCart-backend/services/auth-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	applogger "github.com/rishavk21/UrbanCart-backend/common/logger"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := applogger.New("auth-service")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	if err := database.Connect(database.Config{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Name:     cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	if err := models.Migrate(database.DB); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(logger))

	// CloudWatch metrics are optional; the middleware no-ops when the client
	// failed to initialize.
	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}
	r.Use(middleware.MetricsMiddleware(metricsClient, "auth-service"))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	userRepo := repository.NewUserRepository(database.DB)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	otpGuard := services.NewOTPGuard(redisClient)
	emailCfg, err := services.LoadEmailConfig()
	if err != nil {
		logger.Fatal("Email config load failed", zap.Error(err))
	}
	emailSender := services.NewSMTPEmailSender(emailCfg)
	authService := services.NewAuthService(userRepo, tokenService, otpGuard, emailSender, database.DB, logger)
	authController := controllers.NewAuthController(authService, logger)

	routes.RegisterAuthRoutes(r, authController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "auth-service"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Auth Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Auth Service stopped gracefully")
}
