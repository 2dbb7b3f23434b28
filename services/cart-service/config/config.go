package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port          string
	RedisURL      string
	KafkaBrokers  []string
	CheckoutTopic string
	CartTTL       time.Duration
}

func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8086"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		CheckoutTopic: getEnv("CHECKOUT_TOPIC", "cart.checkout"),
		CartTTL:       7 * 24 * time.Hour,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
