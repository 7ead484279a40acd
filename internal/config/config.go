package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	ServerPort     string
	JWTSecret      string
	JWTExpiryHours int
	LogLevel       string

	// RestoreGuard makes restore refuse a no-op the same way delete does.
	// Off by default: restoring an already-active task silently succeeds.
	RestoreGuard bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("no .env file found, using system environment variables")
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "tasktrack_user"),
		DBPassword:     getEnv("DB_PASSWORD", "tasktrack_pass"),
		DBName:         getEnv("DB_NAME", "tasktrack_db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryHours: getIntEnv("JWT_EXPIRY_HOURS", 24),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RestoreGuard:   getBoolEnv("RESTORE_GUARD", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer environment variable, using default", "key", key, "value", value)
		return defaultVal
	}
	return parsed
}

func getBoolEnv(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean environment variable, using default", "key", key, "value", value)
		return defaultVal
	}
	return parsed
}
