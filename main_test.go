package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jade/nuestro27/internal/config"
	"github.com/jade/nuestro27/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func botServer(t *testing.T, authorised bool) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !authorised {
			w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
			return
		}
		if strings.HasSuffix(r.URL.Path, "/getMe") {
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Bot","username":"nuestro27_bot"}}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/bot%s/%s"
}

func telegramConfig() config.Config {
	return config.Config{
		NotifyPlatform: config.PlatformTelegram,
		TelegramToken:  "123:abc",
		TelegramChatID: 42,
	}
}

func TestNewPlatform_Browser(t *testing.T) {
	platform, browser := newPlatform(config.Config{NotifyPlatform: config.PlatformBrowser}, "", zap.NewNop())

	require.NotNil(t, browser)
	assert.Same(t, browser, platform)
}

func TestNewPlatform_TelegramReady(t *testing.T) {
	platform, browser := newPlatform(telegramConfig(), botServer(t, true), zap.NewNop())

	assert.Nil(t, browser)
	assert.True(t, platform.Supported())
	assert.Equal(t, notify.PermissionGranted, platform.Permission())
}

func TestNewPlatform_UnreachableTelegramIsUnsupported(t *testing.T) {
	platform, browser := newPlatform(telegramConfig(), botServer(t, false), zap.NewNop())

	assert.Nil(t, browser)
	require.NotNil(t, platform)
	assert.False(t, platform.Supported())

	g := notify.NewGate(platform, &optIn{enabled: true}, zap.NewNop())
	p, err := g.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, notify.PermissionDenied, p)
	assert.False(t, g.NotifyAnniversary())
}

type optIn struct{ enabled bool }

func (o *optIn) NotificationsEnabled() bool           { return o.enabled }
func (o *optIn) SetNotificationsEnabled(v bool) error { o.enabled = v; return nil }
