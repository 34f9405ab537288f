package anniversary

import (
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recorder struct {
	mu      sync.Mutex
	entered []time.Time
	left    []time.Time
}

func (r *recorder) EnteredAnniversary(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entered = append(r.entered, now)
}

func (r *recorder) LeftAnniversary(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.left = append(r.left, now)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entered), len(r.left)
}

func newTestWatcher(start time.Time, day int) (*Watcher, clock.FakeClock, *recorder) {
	clk := clock.NewFake()
	clk.Set(start)
	w := NewWatcher(clk, time.UTC, func() int { return day }, time.Second, zap.NewNop())
	rec := &recorder{}
	w.Subscribe(rec)
	return w, clk, rec
}

func TestWatcher_FiresOncePerAnniversary(t *testing.T) {
	w, clk, rec := newTestWatcher(time.Date(2024, time.March, 26, 23, 59, 58, 0, time.UTC), 27)

	st := w.Tick()
	assert.False(t, st.IsAnniversary)

	// Cross midnight and keep ticking through the whole day.
	for i := 0; i < 3600; i++ {
		clk.Add(time.Second)
		w.Tick()
	}
	entered, left := rec.counts()
	assert.Equal(t, 1, entered)
	assert.Equal(t, 0, left)
	assert.True(t, w.Status().IsAnniversary)

	clk.Set(time.Date(2024, time.March, 28, 0, 0, 0, 0, time.UTC))
	w.Tick()
	clk.Add(time.Second)
	w.Tick()
	entered, left = rec.counts()
	assert.Equal(t, 1, entered)
	assert.Equal(t, 1, left)

	clk.Set(time.Date(2024, time.April, 27, 9, 0, 0, 0, time.UTC))
	w.Tick()
	entered, _ = rec.counts()
	assert.Equal(t, 2, entered)
}

func TestWatcher_StartingOnAnniversaryFires(t *testing.T) {
	w, _, rec := newTestWatcher(time.Date(2024, time.May, 27, 15, 0, 0, 0, time.UTC), 27)

	w.Tick()
	w.Tick()

	entered, left := rec.counts()
	assert.Equal(t, 1, entered)
	assert.Equal(t, 0, left)
}

func TestWatcher_DayChangeIsPickedUp(t *testing.T) {
	clk := clock.NewFake()
	clk.Set(time.Date(2024, time.May, 14, 10, 0, 0, 0, time.UTC))
	day := 27
	var mu sync.Mutex
	w := NewWatcher(clk, time.UTC, func() int {
		mu.Lock()
		defer mu.Unlock()
		return day
	}, time.Second, zap.NewNop())
	rec := &recorder{}
	w.Subscribe(rec)

	assert.False(t, w.Tick().IsAnniversary)

	mu.Lock()
	day = 14
	mu.Unlock()
	assert.True(t, w.Tick().IsAnniversary)
	entered, _ := rec.counts()
	assert.Equal(t, 1, entered)
}

func TestWatcher_StartStop(t *testing.T) {
	w, _, rec := newTestWatcher(time.Date(2024, time.May, 27, 15, 0, 0, 0, time.UTC), 27)

	w.Start()
	assert.Eventually(t, func() bool {
		entered, _ := rec.counts()
		return entered == 1
	}, time.Second, 10*time.Millisecond)
	w.Stop()

	assert.True(t, w.Status().IsAnniversary)
}
