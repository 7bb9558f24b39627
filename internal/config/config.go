package config

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	BcryptCost      int
	PurgeInterval   time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	FrontendURL  string
	MockEmail    bool
}

// Load reads configuration from the environment. getEnv is injectable so
// tests can feed their own values.
func Load(getEnv func(string) string) *Config {
	return &Config{
		Port:        envOr(getEnv, "PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL"),

		JWTSecret:       getEnv("JWT_SECRET"),
		AccessTokenTTL:  envDuration(getEnv, "ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: envDuration(getEnv, "REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL:   envDuration(getEnv, "RESET_TOKEN_TTL", 15*time.Minute),
		BcryptCost:      envInt(getEnv, "BCRYPT_COST", bcrypt.DefaultCost),
		PurgeInterval:   envDuration(getEnv, "PURGE_INTERVAL", time.Hour),

		SMTPHost:     getEnv("SMTP_HOST"),
		SMTPPort:     envInt(getEnv, "SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME"),
		SMTPPassword: getEnv("SMTP_PASSWORD"),
		EmailFrom:    envOr(getEnv, "EMAIL_FROM", "pantrypal@example.com"),
		FrontendURL:  envOr(getEnv, "FRONTEND_URL", "http://localhost:5173"),
		MockEmail:    envBool(getEnv, "MOCK_EMAIL", true),
	}
}

func envOr(getEnv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getEnv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(getEnv func(string) string, key string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(getEnv(key))); err == nil {
		return n
	}
	return fallback
}

func envBool(getEnv func(string) string, key string, fallback bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(getEnv(key))); err == nil {
		return b
	}
	return fallback
}

func envDuration(getEnv func(string) string, key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(getEnv(key))); err == nil && d > 0 {
		return d
	}
	return fallback
}
