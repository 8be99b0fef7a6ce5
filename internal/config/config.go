package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPass      string
	DBName      string
	DBPort      string
	RedisURL    string

	JWTSecret string
	AdminIDs  []uuid.UUID

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryCloudName string
	PostImageBucket     string

	LogLevel string
	LogPath  string

	RateLimitPost    time.Duration
	RateLimitComment time.Duration
	RateLimitMessage time.Duration

	RequestsPerMinute     int
	OrphanCleanupInterval time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      os.Getenv("DB_PASS"),
		DBName:      getEnv("DB_NAME", "kgscp"),
		DBPort:      getEnv("DB_PORT", "5432"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		PostImageBucket:     getEnv("POST_IMAGE_BUCKET", "post-images"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  os.Getenv("LOG_PATH"),
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != "development" {
			return nil, fmt.Errorf("JWT_SECRET must be set outside development")
		}
		cfg.JWTSecret = "dev-secret"
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"RATE_LIMIT_POST", "30s", &cfg.RateLimitPost},
		{"RATE_LIMIT_COMMENT", "5s", &cfg.RateLimitComment},
		{"RATE_LIMIT_MESSAGE", "10s", &cfg.RateLimitMessage},
		{"ORPHAN_CLEANUP_INTERVAL", "12h", &cfg.OrphanCleanupInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	rpm, err := strconv.Atoi(getEnv("REQUESTS_PER_MINUTE", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUESTS_PER_MINUTE: %w", err)
	}
	cfg.RequestsPerMinute = rpm

	for _, raw := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", raw, err)
		}
		cfg.AdminIDs = append(cfg.AdminIDs, id)
	}

	return cfg, nil
}

// DSN returns DATABASE_URL when present, otherwise a key/value DSN from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
