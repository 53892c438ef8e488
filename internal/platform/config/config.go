package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const EnvProduction = "production"

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	SessionSecret     string        `env:"SESSION_SECRET"`
	SessionMaxAge     time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTTTL            time.Duration `env:"JWT_TTL" default:"24h"`
	DataEncryptionKey string        `env:"DATA_ENCRYPTION_KEY"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
	LogFile   string `env:"LOG_FILE"`

	CORSAllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	BlockedUserAgents      []string `env:"BLOCKED_USER_AGENTS" default:"ahrefsbot,semrushbot,mj12bot,dotbot,petalbot,bytespider,gptbot,ccbot,python-requests,scrapy"`
	MaintenanceMode        bool     `env:"MAINTENANCE_MODE" default:"false"`
	MaintenanceBypassToken string   `env:"MAINTENANCE_BYPASS_TOKEN"`

	RateLimitRPS       float64 `env:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"30"`
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" default:"0.2"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" default:"5"`

	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" default:"5m"`

	S3Bucket     string        `env:"S3_BUCKET"`
	S3Region     string        `env:"S3_REGION" default:"us-east-1"`
	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL" default:"15m"`

	SeedOnStart bool `env:"SEED_ON_START" default:"false"`
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.CORSAllowedOrigins = normalizeList(cfg.CORSAllowedOrigins)
	cfg.BlockedUserAgents = normalizeList(cfg.BlockedUserAgents)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	// Checked in order so the reported problem is deterministic.
	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REDIS_URL", cfg.RedisURL},
		{"SESSION_SECRET", cfg.SessionSecret},
		{"JWT_SECRET", cfg.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	switch cfg.LogFormat {
	case "text", "json", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of text, json, pretty, got %q", cfg.LogFormat)
	}

	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.AuthRateLimitRPS <= 0 || cfg.AuthRateLimitBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive")
	}

	if cfg.DataEncryptionKey != "" {
		keyBytes, err := hex.DecodeString(cfg.DataEncryptionKey)
		if err != nil {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be valid hex: %w", err)
		}
		if len(keyBytes) != 32 {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes), got %d bytes", len(keyBytes))
		}
	}

	if cfg.MaintenanceMode && cfg.MaintenanceBypassToken != "" && len(cfg.MaintenanceBypassToken) < 16 {
		return errors.New("MAINTENANCE_BYPASS_TOKEN must be at least 16 characters")
	}

	if cfg.IsProduction() {
		if mode := sslMode(cfg.DatabaseURL); mode == "disable" || mode == "allow" {
			return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
		}
		if len(cfg.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if len(cfg.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	}

	return nil
}

func sslMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Query().Get("sslmode"))
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ToolConfig is the subset of settings the admin CLI needs. The HTTP secrets
// stay optional; Redis is only used to announce catalog changes.
type ToolConfig struct {
	DatabaseURL       string `env:"DATABASE_URL"`
	RedisURL          string `env:"REDIS_URL"`
	DataEncryptionKey string `env:"DATA_ENCRYPTION_KEY"`
	LogLevel          string `env:"LOG_LEVEL" default:"info"`
	LogFormat         string `env:"LOG_FORMAT" default:"text"`
}

func LoadTool() (*ToolConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg ToolConfig
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return &cfg, nil
}
