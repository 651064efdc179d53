package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/qepting91/comment-relay/internal/ingest"
)

const (
	DefaultProxyBaseURL  = "https://app.scrapingbee.com/api/v1/"
	DefaultScrapeTimeout = 30 * time.Second
	DefaultPostDelay     = 3 * time.Second
)

// Config is read once at startup and passed to every component.
type Config struct {
	APIKey       string
	ProxyBaseURL string
	WebhookURL   string
	Posts        []string

	Mode              string
	ScrapeTimeout     time.Duration
	// PostDelay is the pause between posts. POST_DELAY=0s disables it and is
	// meant for local runs and tests only.
	PostDelay         time.Duration
	ScrapeMinInterval time.Duration
	LogLevel          slog.Level

	// Rejected holds INSTAGRAM_POSTS entries that were not usable URLs.
	Rejected []string
}

// ConfigurationError lists every required setting that is missing or invalid.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// LoadEnv loads path (normally ".env") into the process environment if it
// exists. A missing file is not an error; variables already set win.
func LoadEnv(path string, logger *slog.Logger) {
	if _, err := os.Stat(path); err != nil {
		logger.Debug("No env file; relying on process environment", "path", path)
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.Warn("Failed to load env file", "path", path, "err", err)
	}
}

// Load builds a Config from getenv (normally os.Getenv).
func Load(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		APIKey:       env("SCRAPINGBEE_API_KEY", ""),
		ProxyBaseURL: env("SCRAPINGBEE_BASE_URL", DefaultProxyBaseURL),
		WebhookURL:   env("N8N_WEBHOOK_URL", ""),
		Mode:         strings.ToLower(env("SCRAPER_MODE", "scrapingbee")),
		LogLevel:     ParseLogLevel(getenv("LOG_LEVEL")),
	}
	cfg.Posts, cfg.Rejected = ingest.ParseTargets(getenv("INSTAGRAM_POSTS"))

	var problems []string
	if cfg.APIKey == "" {
		problems = append(problems, "SCRAPINGBEE_API_KEY is required")
	}
	if cfg.WebhookURL == "" {
		problems = append(problems, "N8N_WEBHOOK_URL is required")
	}
	if len(cfg.Posts) == 0 {
		problems = append(problems, "INSTAGRAM_POSTS must list at least one post URL")
	}

	var err error
	if cfg.ScrapeTimeout, err = duration(env("SCRAPE_TIMEOUT", ""), DefaultScrapeTimeout); err == nil && cfg.ScrapeTimeout == 0 {
		err = fmt.Errorf("must be positive, zero disables the timeout")
	}
	if err != nil {
		problems = append(problems, fmt.Sprintf("SCRAPE_TIMEOUT: %v", err))
	}
	if cfg.PostDelay, err = duration(env("POST_DELAY", ""), DefaultPostDelay); err != nil {
		problems = append(problems, fmt.Sprintf("POST_DELAY: %v", err))
	}
	if cfg.ScrapeMinInterval, err = duration(env("SCRAPE_MIN_INTERVAL", ""), 0); err != nil {
		problems = append(problems, fmt.Sprintf("SCRAPE_MIN_INTERVAL: %v", err))
	}

	if len(problems) > 0 {
		return nil, &ConfigurationError{Problems: problems}
	}
	return cfg, nil
}

func duration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", raw)
	}
	return d, nil
}

// ParseLogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
