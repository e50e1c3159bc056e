package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"anoa.com/qaforum/pkg/database"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	Database database.Config
	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string

	LogLevel  string
	LogFormat string

	VoteTallyTTL time.Duration
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "qaforum"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	var err error
	cfg.VoteTallyTTL, err = time.ParseDuration(getEnv("VOTE_TALLY_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VOTE_TALLY_TTL: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "change-me"
	}

	if cfg.MeiliSearchHost != "" && !strings.HasPrefix(cfg.MeiliSearchHost, "http") {
		cfg.MeiliSearchHost = "http://" + cfg.MeiliSearchHost + ":7700"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
