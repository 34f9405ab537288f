package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(env(nil))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "anniversary.db", cfg.DBPath)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 20*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, BackendGemini, cfg.MessageBackend)
	assert.Equal(t, PlatformBrowser, cfg.NotifyPlatform)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(env(map[string]string{
		"ADDR":             "127.0.0.1:9000",
		"APP_ENV":          "dev",
		"TZ_NAME":          "America/Caracas",
		"TICK_INTERVAL":    "500ms",
		"MESSAGE_BACKEND":  "Feed",
		"MESSAGE_FEED_URL": "https://example.com/notas.xml",
		"NOTIFY_PLATFORM":  "telegram",
		"TELEGRAM_TOKEN":   "123:abc",
		"TELEGRAM_CHAT_ID": "-1001",
	}))

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "America/Caracas", cfg.Location.String())
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, BackendFeed, cfg.MessageBackend)
	assert.Equal(t, int64(-1001), cfg.TelegramChatID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad zone", map[string]string{"TZ_NAME": "Mars/Olympus"}},
		{"bad tick", map[string]string{"TICK_INTERVAL": "soon"}},
		{"negative tick", map[string]string{"TICK_INTERVAL": "-1s"}},
		{"feed without url", map[string]string{"MESSAGE_BACKEND": "feed"}},
		{"unknown backend", map[string]string{"MESSAGE_BACKEND": "oracle"}},
		{"telegram without token", map[string]string{"NOTIFY_PLATFORM": "telegram"}},
		{"telegram without chat", map[string]string{"NOTIFY_PLATFORM": "telegram", "TELEGRAM_TOKEN": "t"}},
		{"unknown platform", map[string]string{"NOTIFY_PLATFORM": "pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(env(tt.env))
			assert.Error(t, err)
		})
	}
}
