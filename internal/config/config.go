// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Message backends.
const (
	BackendGemini = "gemini"
	BackendFeed   = "feed"
)

// Notification platforms.
const (
	PlatformBrowser  = "browser"
	PlatformTelegram = "telegram"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Addr         string
	Env          string
	DBPath       string
	DatabaseURL  string
	Location     *time.Location
	TickInterval time.Duration

	APIKey         string
	GeminiModel    string
	GeminiTimeout  time.Duration
	MessageBackend string
	MessageFeedURL string

	NotifyPlatform string
	TelegramToken  string
	TelegramChatID int64
}

// IsDevelopment reports whether the service runs in a development environment.
func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LoadDotEnv loads .env files with priority: .env.local > .env
// godotenv.Load does not overwrite already-set env vars, so OS env vars win.
// Returns list of files actually loaded.
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// Load builds a Config from the environment looked up through getenv.
func Load(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Addr:           get("ADDR", ":8080"),
		Env:            get("APP_ENV", "production"),
		DBPath:         get("DB_PATH", "anniversary.db"),
		DatabaseURL:    get("DATABASE_URL", ""),
		Location:       time.Local,
		APIKey:         get("API_KEY", ""),
		GeminiModel:    get("GEMINI_MODEL", ""),
		MessageBackend: strings.ToLower(get("MESSAGE_BACKEND", BackendGemini)),
		MessageFeedURL: get("MESSAGE_FEED_URL", ""),
		NotifyPlatform: strings.ToLower(get("NOTIFY_PLATFORM", PlatformBrowser)),
		TelegramToken:  get("TELEGRAM_TOKEN", ""),
	}

	if name := get("TZ_NAME", ""); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return cfg, fmt.Errorf("TZ_NAME: %w", err)
		}
		cfg.Location = loc
	}

	var err error
	if cfg.TickInterval, err = time.ParseDuration(get("TICK_INTERVAL", "1s")); err != nil || cfg.TickInterval <= 0 {
		return cfg, fmt.Errorf("TICK_INTERVAL: invalid duration %q", getenv("TICK_INTERVAL"))
	}
	if cfg.GeminiTimeout, err = time.ParseDuration(get("GEMINI_TIMEOUT", "20s")); err != nil || cfg.GeminiTimeout <= 0 {
		return cfg, fmt.Errorf("GEMINI_TIMEOUT: invalid duration %q", getenv("GEMINI_TIMEOUT"))
	}

	switch cfg.MessageBackend {
	case BackendGemini:
	case BackendFeed:
		if cfg.MessageFeedURL == "" {
			return cfg, fmt.Errorf("MESSAGE_FEED_URL is required for the feed backend")
		}
	default:
		return cfg, fmt.Errorf("MESSAGE_BACKEND: unknown backend %q", cfg.MessageBackend)
	}

	switch cfg.NotifyPlatform {
	case PlatformBrowser:
	case PlatformTelegram:
		if cfg.TelegramToken == "" {
			return cfg, fmt.Errorf("TELEGRAM_TOKEN is required for the telegram platform")
		}
		id, err := strconv.ParseInt(get("TELEGRAM_CHAT_ID", ""), 10, 64)
		if err != nil || id == 0 {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID: invalid chat id %q", getenv("TELEGRAM_CHAT_ID"))
		}
		cfg.TelegramChatID = id
	default:
		return cfg, fmt.Errorf("NOTIFY_PLATFORM: unknown platform %q", cfg.NotifyPlatform)
	}

	return cfg, nil
}
