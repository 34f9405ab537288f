// Package app owns the user's configuration, memories and anniversary message.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jade/nuestro27/internal/database"
	"github.com/jade/nuestro27/internal/model"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// ErrInvalidDay is returned for an anniversary day outside 1-31.
var ErrInvalidDay = errors.New("anniversary day must be between 1 and 31")

// ErrInvalidBackground is returned for an unknown background type or empty value.
var ErrInvalidBackground = errors.New("invalid background")

// ErrInvalidOverride is returned for an override with an impossible date or no text.
var ErrInvalidOverride = errors.New("invalid override")

// MessageSource produces the anniversary message and holds the fixed-message list.
type MessageSource interface {
	AnniversaryMessage(ctx context.Context, now time.Time) string
	SetOverrides(overrides []model.Override)
}

// State is the single owner of all mutable app state. Every mutation is
// written through to the store as a full record.
type State struct {
	store    database.Store
	messages MessageSource
	clk      clock.Clock
	log      *zap.Logger

	mu          sync.RWMutex
	cfg         model.Config
	memories    []model.Memory
	overrides   []model.Override
	message     string
	celebrating bool
	generation  uint64
}

// New loads the stored records, falling back to defaults.
func New(store database.Store, messages MessageSource, clk clock.Clock, log *zap.Logger) *State {
	s := &State{
		store:     store,
		messages:  messages,
		clk:       clk,
		log:       log,
		cfg:       database.Load(store, model.RecordConfig, model.DefaultConfig()).Normalize(),
		memories:  database.Load(store, model.RecordMemories, []model.Memory{}),
		overrides: database.Load(store, model.RecordOverrides, model.DefaultOverrides()),
	}
	if s.memories == nil {
		s.memories = []model.Memory{}
	}
	if s.overrides == nil {
		s.overrides = []model.Override{}
	}
	messages.SetOverrides(s.overrides)
	log.Info("state loaded",
		zap.String("store", store.DatabaseType()),
		zap.Int("anniversary_day", s.cfg.AnniversaryDay),
		zap.Int("memories", len(s.memories)))
	return s
}

// --- Configuration ---

// Config returns a copy of the configuration.
func (s *State) Config() model.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// AnniversaryDay returns the configured day of month.
func (s *State) AnniversaryDay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.AnniversaryDay
}

// SetAnniversaryDay changes the recurring day of month.
func (s *State) SetAnniversaryDay(day int) (model.Config, error) {
	if day < model.MinAnniversaryDay || day > model.MaxAnniversaryDay {
		return s.Config(), ErrInvalidDay
	}
	return s.updateConfig(func(c *model.Config) { c.AnniversaryDay = day })
}

// SetBackground changes the page background.
func (s *State) SetBackground(t model.BackgroundType, value string) (model.Config, error) {
	if !t.Valid() || value == "" {
		return s.Config(), ErrInvalidBackground
	}
	return s.updateConfig(func(c *model.Config) {
		c.BackgroundType = t
		c.BackgroundValue = value
	})
}

// SettingsUpdate is a partial configuration change. Nil fields are kept.
type SettingsUpdate struct {
	AnniversaryDay  *int
	BackgroundType  *model.BackgroundType
	BackgroundValue *string
}

// UpdateSettings validates every supplied field and applies them together.
// On error nothing is changed.
func (s *State) UpdateSettings(u SettingsUpdate) (model.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	if u.AnniversaryDay != nil {
		if *u.AnniversaryDay < model.MinAnniversaryDay || *u.AnniversaryDay > model.MaxAnniversaryDay {
			return s.cfg, ErrInvalidDay
		}
		next.AnniversaryDay = *u.AnniversaryDay
	}
	if u.BackgroundType != nil {
		next.BackgroundType = *u.BackgroundType
	}
	if u.BackgroundValue != nil {
		next.BackgroundValue = *u.BackgroundValue
	}
	if !next.BackgroundType.Valid() || next.BackgroundValue == "" {
		return s.cfg, ErrInvalidBackground
	}

	if err := database.Save(s.store, model.RecordConfig, next); err != nil {
		return s.cfg, err
	}
	s.cfg = next
	return next, nil
}

// NotificationsEnabled reports the notification opt-in.
func (s *State) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.NotificationsEnabled
}

// SetNotificationsEnabled changes the notification opt-in.
func (s *State) SetNotificationsEnabled(enabled bool) error {
	_, err := s.updateConfig(func(c *model.Config) { c.NotificationsEnabled = enabled })
	return err
}

func (s *State) updateConfig(mutate func(*model.Config)) (model.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.cfg)
	if err := database.Save(s.store, model.RecordConfig, s.cfg); err != nil {
		return s.cfg, err
	}
	return s.cfg, nil
}

// --- Memories ---

// Memories returns the memories, newest first.
func (s *State) Memories() []model.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Memory(nil), s.memories...)
}

// AddMemory prepends a photo. The id is the creation time in epoch
// milliseconds, bumped until unique.
func (s *State) AddMemory(url string) (model.Memory, error) {
	if url == "" {
		return model.Memory{}, errors.New("empty memory url")
	}
	now := s.clk.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	id := now
	for s.hasMemory(strconv.FormatInt(id, 10)) {
		id++
	}
	m := model.Memory{ID: strconv.FormatInt(id, 10), URL: url, Date: now}
	s.memories = append([]model.Memory{m}, s.memories...)
	if err := database.Save(s.store, model.RecordMemories, s.memories); err != nil {
		return m, err
	}
	return m, nil
}

// DeleteMemory removes the memory with id. It reports whether one existed.
func (s *State) DeleteMemory(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]model.Memory, 0, len(s.memories))
	for _, m := range s.memories {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(s.memories) {
		return false, nil
	}
	s.memories = kept
	if err := database.Save(s.store, model.RecordMemories, s.memories); err != nil {
		return true, err
	}
	return true, nil
}

func (s *State) hasMemory(id string) bool {
	for _, m := range s.memories {
		if m.ID == id {
			return true
		}
	}
	return false
}

// --- Overrides ---

// Overrides returns the fixed-message list.
func (s *State) Overrides() []model.Override {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Override(nil), s.overrides...)
}

// SetOverrides replaces the fixed-message list.
func (s *State) SetOverrides(overrides []model.Override) error {
	for _, o := range overrides {
		if o.Month < 1 || o.Month > 12 || o.Day < 1 || o.Day > 31 || o.Text == "" {
			return fmt.Errorf("%w: %02d-%02d", ErrInvalidOverride, o.Month, o.Day)
		}
	}
	cp := append([]model.Override{}, overrides...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = cp
	s.messages.SetOverrides(cp)
	return database.Save(s.store, model.RecordOverrides, cp)
}

// --- Anniversary message ---

// Message returns the anniversary message, empty until it has been fetched
// and outside the anniversary.
func (s *State) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// EnteredAnniversary implements anniversary.Handler. It starts one message
// fetch; a result arriving after the anniversary ended is discarded.
func (s *State) EnteredAnniversary(now time.Time) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.celebrating = true
	s.message = ""
	s.mu.Unlock()

	go func() {
		text := s.messages.AnniversaryMessage(context.Background(), now)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen || !s.celebrating {
			s.log.Debug("stale anniversary message dropped")
			return
		}
		s.message = text
	}()
}

// LeftAnniversary implements anniversary.Handler.
func (s *State) LeftAnniversary(time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.celebrating = false
	s.message = ""
}
