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
	"github.com/rishavk21/UrbanCart-backend/services/order-service/controllers"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/database"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/kafka"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/models"
	repositories "github.com/rishavk21/UrbanCart-backend/services/order-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/routes"
	"github.com/rishavk21/UrbanCart-backend/services/order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	applogger "github.com/rishavk21/UrbanCart-backend/common/logger"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := applogger.New("order-service")
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

	// --- AWS (optional SNS fan-out) ---
	var snsPublisher aws_pkg.SNSPublisher
	if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
		snsPublisher = aws_pkg.NewSNSClient(awsCfg)
	} else {
		logger.Warn("AWS config load failed, SNS fan-out disabled", zap.Error(err))
	}

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
	r.Use(middleware.MetricsMiddleware(metricsClient, "order-service"))

	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	orderRepo := repositories.NewGormOrderRepository(database.DB)
	producer := kafka.NewProducer(cfg.KafkaBrokers)
	orderService := services.NewOrderService(orderRepo, producer, services.Topics{
		StatusChanged: cfg.StatusTopic,
		StockRestore:  cfg.StockRestoreTopic,
	}, snsPublisher, cfg.OrderSNSTopicARN, metricsClient, logger)
	orderController := controllers.NewOrderController(orderService, logger)

	routes.RegisterOrderRoutes(r, orderController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "order-service"})
	})

	// --- Checkout consumer ---
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go services.StartCheckoutConsumer(consumerCtx, cfg.KafkaBrokers, cfg.CheckoutTopic, cfg.ConsumerGroup, orderService, logger)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Order Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := producer.Close(); err != nil {
		logger.Error("Kafka producer close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Order Service stopped gracefully")
}
