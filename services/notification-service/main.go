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
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/consumer"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/controllers"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/database"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/routes"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/sender"
	"github.com/rishavk21/UrbanCart-backend/services/notification-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	applogger "github.com/rishavk21/UrbanCart-backend/common/logger"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := applogger.New("notification-service")
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
	if err := database.DB.AutoMigrate(&models.NotificationLog{}); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	// --- Sender ---
	emailSender, err := sender.NewSMTPSender(sender.LoadSMTPConfig())
	if err != nil {
		logger.Fatal("Failed to init SMTP sender", zap.Error(err))
	}

	// --- Dependency injection ---
	notificationRepo := repository.NewNotificationRepository(database.DB)
	notificationService := services.NewNotificationService(notificationRepo, emailSender, logger)
	notificationController := controllers.NewNotificationController(notificationService, logger)

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
	r.Use(middleware.MetricsMiddleware(metricsClient, "notification-service"))

	routes.RegisterRoutes(r, notificationController)

	// --- Order events consumer ---
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go consumer.StartOrderEventsConsumer(consumerCtx, cfg.KafkaBrokers, cfg.OrderEventsTopic, cfg.ConsumerGroup, notificationService, logger)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Notification Service started", zap.String("port", cfg.Port))
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
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Notification Service stopped gracefully")
}
