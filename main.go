package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jade/nuestro27/internal/anniversary"
	"github.com/jade/nuestro27/internal/app"
	"github.com/jade/nuestro27/internal/config"
	"github.com/jade/nuestro27/internal/database"
	"github.com/jade/nuestro27/internal/message"
	"github.com/jade/nuestro27/internal/notify"
	"github.com/jade/nuestro27/internal/server"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

func main() {
	loaded := config.LoadDotEnv()
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if len(loaded) > 0 {
		logger.Info("loaded env files", zap.Strings("files", loaded))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("database opened", zap.String("type", store.DatabaseType()))

	provider := message.NewProvider(newGenerator(context.Background(), cfg, logger), cfg.GeminiTimeout, logger.Named("message"))
	platform, browser := newPlatform(cfg, tg.APIEndpoint, logger)

	clk := clock.New()
	state := app.New(store, provider, clk, logger.Named("state"))
	gate := notify.NewGate(platform, state, logger.Named("notify"))

	watcher := anniversary.NewWatcher(clk, cfg.Location, state.AnniversaryDay, cfg.TickInterval, logger.Named("watcher"))
	watcher.Subscribe(state)
	watcher.Subscribe(gate)

	srv, err := server.New(state, gate, browser, watcher, logger.Named("http"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg config.Config) (database.Store, error) {
	if cfg.DatabaseURL != "" {
		return database.NewPostgres(cfg.DatabaseURL)
	}
	return database.New(cfg.DBPath)
}

// newGenerator returns nil when nothing can produce messages, so every
// anniversary without an override gets the failure fallback.
func newGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) message.Generator {
	if cfg.MessageBackend == config.BackendFeed {
		return message.NewFeed(cfg.MessageFeedURL)
	}
	if cfg.APIKey == "" {
		logger.Warn("API_KEY not set, anniversary messages will use the fallback text")
		return nil
	}
	g, err := message.NewGemini(ctx, "", cfg.APIKey, cfg.GeminiModel, &http.Client{Timeout: cfg.GeminiTimeout})
	if err != nil {
		logger.Warn("gemini unavailable, anniversary messages will use the fallback text", zap.Error(err))
		return nil
	}
	return g
}

// telegramTimeout bounds every Bot API call.
const telegramTimeout = 15 * time.Second

// newPlatform returns the notification platform and, when notifications go
// to the page, the browser platform the server reports into. A Telegram bot
// that cannot be reached leaves notifications unsupported.
func newPlatform(cfg config.Config, endpoint string, logger *zap.Logger) (notify.Platform, *notify.Browser) {
	if cfg.NotifyPlatform != config.PlatformTelegram {
		b := notify.NewBrowser()
		return b, b
	}
	log := logger.Named("telegram")
	bot, err := tg.NewBotAPIWithClient(cfg.TelegramToken, endpoint, &http.Client{Timeout: telegramTimeout})
	if err != nil {
		log.Warn("telegram unavailable, notifications disabled", zap.Error(err))
		return notify.NewTelegram(nil, 0, log), nil
	}
	t := notify.NewTelegram(bot, cfg.TelegramChatID, log)
	log.Info("telegram platform ready", zap.String("bot", bot.Self.UserName), zap.String("permission", string(t.Refresh())))
	return t, nil
}
