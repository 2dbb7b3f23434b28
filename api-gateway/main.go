package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rishavk21/UrbanCart-backend/api-gateway/routes"
	"github.com/rishavk21/UrbanCart-backend/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	applogger "github.com/rishavk21/UrbanCart-backend/common/logger"
	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := applogger.New("api-gateway")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.RequestLogger(logger))

	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}
	r.Use(middleware.MetricsMiddleware(metricsClient, "api-gateway"))

	routes.RegisterAllRoutes(r, routes.LoadServiceTargets(), logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "api-gateway"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("API Gateway started", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	log.Println("API Gateway stopped gracefully")
}
