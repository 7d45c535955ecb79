package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	SlotLockTTL time.Duration

	ClinicName     string
	ClinicTimezone string
	HistoryLimit   int

	GeminiAPIKey  string
	GeminiModelID string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	SESReplyTo   string

	YearMin int
	YearMax int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		SlotLockTTL: getEnvAsDuration("SLOT_LOCK_TTL", 5*time.Second),

		ClinicName:     getEnv("CLINIC_NAME", "BrightSmile Dental"),
		ClinicTimezone: getEnv("CLINIC_TZ", "UTC"),
		HistoryLimit:   getEnvAsInt("HISTORY_LIMIT", 10),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "BrightSmile Dental"),
		SESReplyTo:   getEnv("SES_REPLY_TO", ""),

		YearMin: getEnvAsInt("APPOINTMENT_YEAR_MIN", 2024),
		YearMax: getEnvAsInt("APPOINTMENT_YEAR_MAX", 2030),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
