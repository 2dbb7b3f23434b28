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
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/controllers"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/database"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/routes"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	applogger "github.com/rishavk21/UrbanCart-backend/common/logger"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := applogger.New("catalog-service")
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

	// --- AWS setup ---
	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	snsClient := aws_pkg.NewSNSClient(awsCfg)

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
	r.Use(middleware.MetricsMiddleware(metricsClient, "catalog-service"))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	cache := services.NewCacheManager(redisClient, logger)
	productRepo := repository.NewGormProductRepository(database.DB)
	categoryRepo := repository.NewGormCategoryRepository(database.DB)
	sizeTypeRepo := repository.NewGormSizeTypeRepository(database.DB)
	couponRepo := repository.NewGormCouponRepository(database.DB)

	productService := services.NewProductService(productRepo, cache, redisClient, awsCfg, cfg.S3Bucket, cfg.CDNBaseURL, logger)
	categoryService := services.NewCategoryService(categoryRepo, productRepo, logger)
	sizeTypeService := services.NewSizeTypeService(sizeTypeRepo, logger)
	couponService := services.NewCouponService(couponRepo, snsClient, cfg.CouponSNSTopicARN, logger)

	productController := controllers.NewProductController(productService, logger)
	categoryController := controllers.NewCategoryController(categoryService)
	sizeTypeController := controllers.NewSizeTypeController(sizeTypeService)
	couponController := controllers.NewCouponController(couponService)

	routes.RegisterCatalogRoutes(r, productController, categoryController, sizeTypeController, couponController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "catalog-service"})
	})

	// --- Stock restore consumer ---
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go services.StartStockRestoreConsumer(consumerCtx, cfg.KafkaBrokers, cfg.StockRestoreTopic, cfg.ConsumerGroup, productService, logger)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Catalog Service started", zap.String("port", cfg.Port))
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
	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Catalog Service stopped gracefully")
}
