package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = "5002"
	DefaultDatabaseURL = "posts.db"
	DefaultNewsAPIURL  = "https://newsapi.org/v2/everything"
	DefaultMailHost    = "smtp.gmail.com"
	DefaultMailPort    = 587
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
}

type Config struct {
	Port         string
	SecretKey    string
	DatabaseURL  string
	NewsAPIKey   string
	NewsAPIURL   string
	NewsProxyURL string
	LogLevel     string
	Mail         MailConfig
}

// Load reads a .env file when one is present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, using process environment")
	}

	cfg := &Config{
		Port:         getEnv("PORT", DefaultPort),
		SecretKey:    os.Getenv("SECRET_KEY"),
		DatabaseURL:  getEnv("DATABASE_URL", DefaultDatabaseURL),
		NewsAPIKey:   os.Getenv("APIKEY"),
		NewsAPIURL:   getEnv("NEWS_API_URL", DefaultNewsAPIURL),
		NewsProxyURL: os.Getenv("NEWS_PROXY_URL"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", DefaultMailHost),
			Port:     DefaultMailPort,
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
		},
	}
	cfg.Mail.To = getEnv("MAIL_TO", cfg.Mail.Username)

	if raw := os.Getenv("MAIL_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MAIL_PORT %q: %w", raw, err)
		}
		cfg.Mail.Port = port
	}

	if cfg.SecretKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, fmt.Errorf("generating session key: %w", err)
		}
		slog.Warn("SECRET_KEY is not set, sessions will not survive a restart")
		cfg.SecretKey = key
	}
	if cfg.NewsAPIKey == "" {
		slog.Warn("APIKEY is not set, news search requests will be rejected upstream")
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func randomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
