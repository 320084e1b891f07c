package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr         string
	DatabaseURL  string
	JWTSecret    string
	TokenTTL     time.Duration
	DemoFallback bool
	CORSOrigins  string
	LogLevel     string
	LogFormat    string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("TOKEN_TTL", "72h")
	v.SetDefault("DEMO_FALLBACK", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("ADMIN_NAME", "Store Admin")

	cfg := Config{
		Addr:          v.GetString("ADDR"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
		DemoFallback:  v.GetBool("DEMO_FALLBACK"),
		CORSOrigins:   v.GetString("CORS_ORIGINS"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:     strings.ToLower(v.GetString("LOG_FORMAT")),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		AdminName:     v.GetString("ADMIN_NAME"),
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	if cfg.DatabaseURL != "" && cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required when DATABASE_URL is set")
	}
	if cfg.JWTSecret == "" {
		// in-memory mode only
		cfg.JWTSecret = "dev-secret"
	}
	return cfg, nil
}

// UseDatabase reports whether a Postgres store is configured.
func (c Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}
