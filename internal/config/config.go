package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	Env            string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins string

	// Scheduler settings for the monthly snapshot close job.
	SnapshotEnabled  bool
	SnapshotSchedule string
	SnapshotTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/ledgerpath?sslmode=disable"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		SnapshotEnabled:  getBoolEnv("SNAPSHOT_ENABLED", true),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "30 0 1 * *"),
		SnapshotTimeout:  getDurationEnv("SNAPSHOT_TIMEOUT", 5*time.Minute),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
