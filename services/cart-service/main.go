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
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/config"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/controllers"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/database"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/kafka"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	applogger "github.com/rishavk21/UrbanCart-backend/common/logger"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := applogger.New("cart-service")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg := config.Load()

	redisClient := database.NewRedisClient(cfg.RedisURL)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.CheckoutTopic)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(logger))

	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}
	r.Use(middleware.MetricsMiddleware(metricsClient, "cart-service"))

	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	cartRepo := database.NewCartRepository(redisClient, cfg.CartTTL)
	cartController := controllers.NewCartController(cartRepo, producer, logger)

	routes.RegisterCartRoutes(r, cartController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "cart-service"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Cart Service started", zap.String("port", cfg.Port))
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
	if err := producer.Close(); err != nil {
		logger.Error("Kafka producer close error", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}

	log.Println("Cart Service stopped gracefully")
}
