package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Program
	Timezone       string
	CueHoldSeconds int

	// Allowlists (comma-separated emails, seeded into Redis at boot)
	CohortAllowlist []string
	AdminAllowlist  []string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		DatabaseURL:     mustGetEnv("DATABASE_URL"),
		RedisURL:        mustGetEnv("REDIS_URL"),
		JWTSecret:       mustGetEnv("JWT_SECRET"),
		Timezone:        getEnvOrDefault("TIMEZONE", "America/Los_Angeles"),
		CueHoldSeconds:  getEnvAsIntOrDefault("CUE_HOLD_SECONDS", 3),
		CohortAllowlist: getEnvAsList("COHORT_ALLOWLIST"),
		AdminAllowlist:  getEnvAsList("ADMIN_ALLOWLIST"),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsList splits a comma-separated value, trimming blanks and
// lowercasing entries (allowlist emails are case-insensitive).
func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
