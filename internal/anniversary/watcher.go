package anniversary

import (
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// DefaultTickInterval is how often the watcher re-evaluates the clock.
const DefaultTickInterval = time.Second

// Handler reacts to the anniversary starting and ending.
// Handlers run on the watcher goroutine and must not block.
type Handler interface {
	EnteredAnniversary(now time.Time)
	LeftAnniversary(now time.Time)
}

// DaySource returns the currently configured anniversary day.
type DaySource func() int

// Watcher re-evaluates the clock on every tick and reports transitions.
type Watcher struct {
	clk      clock.Clock
	loc      *time.Location
	day      DaySource
	interval time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	prev     bool
	status   Status
	handlers []Handler

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher. A nil loc means the clock's own location.
func NewWatcher(clk clock.Clock, loc *time.Location, day DaySource, interval time.Duration, log *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Watcher{
		clk:      clk,
		loc:      loc,
		day:      day,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Subscribe adds a handler for transition events.
func (w *Watcher) Subscribe(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Now returns the current time in the watcher's location.
func (w *Watcher) Now() time.Time {
	now := w.clk.Now()
	if w.loc != nil {
		now = now.In(w.loc)
	}
	return now
}

// Tick evaluates the clock once and fires handlers on a transition.
func (w *Watcher) Tick() Status {
	now := w.Now()
	st := Compute(now, w.day())

	w.mu.Lock()
	entered := st.IsAnniversary && !w.prev
	left := !st.IsAnniversary && w.prev
	w.prev = st.IsAnniversary
	w.status = st
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	switch {
	case entered:
		w.log.Info("anniversary started", zap.Time("at", now))
		for _, h := range handlers {
			h.EnteredAnniversary(now)
		}
	case left:
		w.log.Info("anniversary ended", zap.Time("at", now))
		for _, h := range handlers {
			h.LeftAnniversary(now)
		}
	}
	return st
}

// Status returns the status computed by the latest tick.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Start begins the tick loop.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.Tick()
		for {
			select {
			case <-w.stopChan:
				return
			case <-ticker.C:
				w.Tick()
			}
		}
	}()
}

// Stop stops the tick loop gracefully.
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}
