// Package notify delivers anniversary alerts through a notification platform,
// gated by the user's opt-in and the platform's permission.
package notify

import (
	"context"
	"time"

	"github.com/jade/nuestro27/internal/model"
	"go.uber.org/zap"
)

// Permission mirrors the Web Notification permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps unknown values to PermissionDefault.
func ParsePermission(s string) Permission {
	switch p := Permission(s); p {
	case PermissionGranted, PermissionDenied:
		return p
	}
	return PermissionDefault
}

// Platform is where notifications are shown.
type Platform interface {
	// Supported reports whether the platform can show notifications at all.
	Supported() bool
	// Permission returns the current permission without prompting.
	Permission() Permission
	// RequestPermission prompts the user and blocks until they answer.
	RequestPermission(ctx context.Context) (Permission, error)
	Show(n model.Notification) error
}

// Preferences holds the user's notification opt-in.
type Preferences interface {
	NotificationsEnabled() bool
	SetNotificationsEnabled(enabled bool) error
}

const heartIcon = "https://cdn-icons-png.flaticon.com/512/833/833472.png"

var (
	// Enabled confirms a successful opt-in.
	Enabled = model.Notification{
		Title: "¡Notificaciones Activadas! ❤️",
		Body:  "Te avisaré cada vez que llegue nuestro día especial.",
		Icon:  heartIcon,
	}
	// Anniversary announces the anniversary day.
	Anniversary = model.Notification{
		Title: "¡Feliz Aniversario! ❤️",
		Body:  "Hoy es nuestro día especial. Entra para ver tu sorpresa.",
		Icon:  heartIcon,
		Badge: heartIcon,
	}
)

// Gate decides whether an anniversary alert may be shown.
type Gate struct {
	platform Platform
	prefs    Preferences
	log      *zap.Logger
}

// NewGate creates a gate over platform.
func NewGate(platform Platform, prefs Preferences, log *zap.Logger) *Gate {
	return &Gate{platform: platform, prefs: prefs, log: log}
}

// Platform returns the underlying platform.
func (g *Gate) Platform() Platform {
	return g.platform
}

// RequestPermission asks the platform for permission on an explicit opt-in.
// When granted the opt-in is stored and a confirmation is shown. An
// unsupported platform yields PermissionDenied without prompting.
func (g *Gate) RequestPermission(ctx context.Context) (Permission, error) {
	if !g.platform.Supported() {
		return PermissionDenied, nil
	}
	p, err := g.platform.RequestPermission(ctx)
	if err != nil {
		return PermissionDefault, err
	}
	if p != PermissionGranted {
		g.log.Info("notification permission not granted", zap.String("permission", string(p)))
		return p, nil
	}
	if err := g.prefs.SetNotificationsEnabled(true); err != nil {
		return p, err
	}
	g.show(Enabled)
	return p, nil
}

// Disable turns the opt-in off.
func (g *Gate) Disable() error {
	return g.prefs.SetNotificationsEnabled(false)
}

// NotifyAnniversary shows the anniversary alert when the user opted in and
// permission is still granted. It reports whether an alert was sent.
func (g *Gate) NotifyAnniversary() bool {
	if !g.prefs.NotificationsEnabled() || !g.platform.Supported() {
		return false
	}
	if g.platform.Permission() != PermissionGranted {
		return false
	}
	return g.show(Anniversary)
}

// EnteredAnniversary implements anniversary.Handler. The alert is sent on
// its own goroutine since a platform may block on the network.
func (g *Gate) EnteredAnniversary(time.Time) {
	go g.NotifyAnniversary()
}

// LeftAnniversary implements anniversary.Handler.
func (g *Gate) LeftAnniversary(time.Time) {}

func (g *Gate) show(n model.Notification) bool {
	if err := g.platform.Show(n); err != nil {
		g.log.Debug("notification not shown", zap.String("title", n.Title), zap.Error(err))
		return false
	}
	return true
}
