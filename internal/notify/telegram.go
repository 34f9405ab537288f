package notify

import (
	"context"
	"errors"
	"sync"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jade/nuestro27/internal/model"
	"go.uber.org/zap"
)

// TelegramAPI is the part of *tg.BotAPI the platform uses.
type TelegramAPI interface {
	GetMe() (tg.User, error)
	Send(c tg.Chattable) (tg.Message, error)
}

// Telegram sends notifications as chat messages from a bot.
type Telegram struct {
	api    TelegramAPI
	chatID int64
	log    *zap.Logger

	mu         sync.Mutex
	permission Permission
}

// NewTelegram creates a Telegram platform for chatID.
func NewTelegram(api TelegramAPI, chatID int64, log *zap.Logger) *Telegram {
	return &Telegram{api: api, chatID: chatID, log: log, permission: PermissionDefault}
}

func (t *Telegram) Supported() bool {
	return t.api != nil && t.chatID != 0
}

func (t *Telegram) Permission() Permission {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.permission
}

// RequestPermission checks that the bot is authorised. There is no user
// prompt: a configured chat counts as consent.
func (t *Telegram) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDefault, err
	}
	return t.Refresh(), nil
}

// Refresh re-checks the bot's authorisation and caches the result.
func (t *Telegram) Refresh() Permission {
	p := PermissionGranted
	if me, err := t.api.GetMe(); err != nil {
		t.log.Warn("telegram bot not authorised", zap.Error(err))
		p = PermissionDenied
	} else {
		t.log.Info("telegram bot authorised", zap.String("account", me.UserName))
	}

	t.mu.Lock()
	t.permission = p
	t.mu.Unlock()
	return p
}

func (t *Telegram) Show(n model.Notification) error {
	if !t.Supported() {
		return errors.New("telegram: no chat configured")
	}
	text := n.Title
	if n.Body != "" {
		text += "\n" + n.Body
	}
	_, err := t.api.Send(tg.NewMessage(t.chatID, text))
	return err
}
