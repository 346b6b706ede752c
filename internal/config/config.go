package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment
// variables. It is built once at process start and handed to the router
// by reference; nothing else reads the environment.
type Config struct {
	Port           string
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Port:      getEnvWithDefault("PORT", "8000"),
		RedisURL:  getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default JWT_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	cfg.AllowedOrigins = append(cfg.AllowedOrigins, defaultOrigins...)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)

	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)

	if err != nil {
		log.Printf("Invalid %s value %q, using default %d", key, value, defaultValue)
		return defaultValue
	}

	return parsed
}
