package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Notification delivery. When TransactionalEmailEnabled is true the
	// dispatcher calls the provider API directly instead of queueing jobs.
	TransactionalEmailEnabled bool
	EmailProviderBaseURL      string
	EmailProviderAPIKey       string
	EmailFromAddress          string

	// Email queue worker.
	EmailWorkerSchedule string
	EmailMaxAttempts    int
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=transition_hub port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		TransactionalEmailEnabled: getEnvBool("TRANSACTIONAL_EMAIL_ENABLED", false),
		EmailProviderBaseURL:      getEnv("EMAIL_PROVIDER_BASE_URL", "https://api.transactional-email.example.com"),
		EmailProviderAPIKey:       getEnv("EMAIL_PROVIDER_API_KEY", ""),
		EmailFromAddress:          getEnv("EMAIL_FROM_ADDRESS", "no-reply@transitionhub.example.com"),

		EmailWorkerSchedule: getEnv("EMAIL_WORKER_SCHEDULE", "@every 30s"),
		EmailMaxAttempts:    getEnvInt("EMAIL_MAX_ATTEMPTS", 5),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.TransactionalEmailEnabled && cfg.EmailProviderAPIKey == "" {
		log.Fatal("[FATAL] TRANSACTIONAL_EMAIL_ENABLED requires EMAIL_PROVIDER_API_KEY")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the development default")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
