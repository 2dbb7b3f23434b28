package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
)

type Config struct {
	Port              string
	PostgresUser      string
	PostgresPassword  string
	PostgresDB        string
	PostgresHost      string
	PostgresPort      string
	PostgresSSLMode   string
	PostgresTimeZone  string
	RedisURL          string
	KafkaBrokers      []string
	StockRestoreTopic string
	ConsumerGroup     string
	S3Bucket          string
	CDNBaseURL        string
	CouponSNSTopicARN string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8082"),
		PostgresUser:      os.Getenv("POSTGRES_USER"),
		PostgresPassword:  os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:        os.Getenv("POSTGRES_DB"),
		PostgresHost:      os.Getenv("POSTGRES_HOST"),
		PostgresPort:      getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:   getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:  getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		StockRestoreTopic: getEnv("STOCK_RESTORE_TOPIC", "order.stock.restore"),
		ConsumerGroup:     getEnv("CONSUMER_GROUP", "catalog-service"),
		S3Bucket:          getEnv("S3_BUCKET", "urbancart-product-images"),
		CDNBaseURL:        os.Getenv("CDN_BASE_URL"),
		CouponSNSTopicARN: os.Getenv("COUPON_SNS_TOPIC_ARN"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if dbjson, err := sm.GetSecret(context.Background(), "catalog/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					if v, ok := m["POSTGRES_USER"]; ok && v != "" {
						cfg.PostgresUser = v
					}
					if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
						cfg.PostgresPassword = v
					}
					if v, ok := m["POSTGRES_DB"]; ok && v != "" {
						cfg.PostgresDB = v
					}
					if v, ok := m["POSTGRES_HOST"]; ok && v != "" {
						cfg.PostgresHost = v
					}
					if v, ok := m["POSTGRES_PORT"]; ok && v != "" {
						cfg.PostgresPort = v
					}
				}
			}
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
