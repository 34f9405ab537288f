// Package message produces the text shown on the anniversary.
package message

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jade/nuestro27/internal/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Prompt is sent to the generator on every anniversary without an override.
const Prompt = "Escribe un mensaje corto, romántico y muy especial para un aniversario mensual. Que sea tierno, original y en español. Máximo 20 palabras."

// Temperature is the sampling temperature requested from the generator.
const Temperature float32 = 0.9

// Fallbacks.
const (
	// EmptyFallback replaces an empty generated text.
	EmptyFallback = "¡Feliz aniversario, mi amor! ❤️ Cada mes a tu lado es un regalo."
	// FailureFallback replaces a failed generation.
	FailureFallback = "¡Feliz aniversario! ❤️ Un mes más de felicidad juntos."
)

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 20 * time.Second

// ErrNoGenerator is reported when no generator is configured.
var ErrNoGenerator = errors.New("no message generator configured")

// Generator produces a short text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Provider picks the anniversary message: an override for the date, or one
// generated text with fixed fallbacks. It never returns an error.
type Provider struct {
	gen     Generator
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger

	mu        sync.RWMutex
	overrides []model.Override
}

// NewProvider creates a provider. gen may be nil, in which case every
// non-override date gets FailureFallback.
func NewProvider(gen Generator, timeout time.Duration, log *zap.Logger) *Provider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Provider{
		gen:       gen,
		timeout:   timeout,
		log:       log,
		overrides: model.DefaultOverrides(),
	}
	p.breaker = gobreaker.NewCircuitBreaker(breakerSettings(log))
	return p
}

// breakerSettings trips after three consecutive failed generations. The
// generator runs about once a month, so counts are never cleared on a timer;
// only a success resets them.
func breakerSettings(log *zap.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "message-generator",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     10 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state changed",
				zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	}
}

// SetOverrides replaces the fixed-message list.
func (p *Provider) SetOverrides(overrides []model.Override) {
	cp := append([]model.Override(nil), overrides...)
	p.mu.Lock()
	p.overrides = cp
	p.mu.Unlock()
}

// Overrides returns a copy of the fixed-message list.
func (p *Provider) Overrides() []model.Override {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Override(nil), p.overrides...)
}

// Override returns the fixed message for now's month and day, if any.
func (p *Provider) Override(now time.Time) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.overrides {
		if o.Month == int(now.Month()) && o.Day == now.Day() {
			return o.Text, true
		}
	}
	return "", false
}

// AnniversaryMessage returns the text for the anniversary falling on now.
// The generator is called at most once and its failures are swallowed.
func (p *Provider) AnniversaryMessage(ctx context.Context, now time.Time) string {
	if text, ok := p.Override(now); ok {
		return text
	}
	if p.gen == nil {
		p.log.Debug("generation skipped", zap.Error(ErrNoGenerator))
		return FailureFallback
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.gen.Generate(ctx, Prompt, Temperature)
	})
	if err != nil {
		p.log.Debug("generation failed", zap.Error(err))
		return FailureFallback
	}

	text := strings.TrimSpace(out.(string))
	if text == "" {
		return EmptyFallback
	}
	return text
}
