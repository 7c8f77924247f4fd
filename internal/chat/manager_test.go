package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu      sync.Mutex
	opened  int
	reasons []string
}

func (c *countingObserver) SessionOpened() {
	c.mu.Lock()
	c.opened++
	c.mu.Unlock()
}

func (c *countingObserver) SessionClosed(reason string) {
	c.mu.Lock()
	c.reasons = append(c.reasons, reason)
	c.mu.Unlock()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestManagerLifecycle(t *testing.T) {
	obs := &countingObserver{}
	m := newTestManager(t, newScheduler(), WithSessionObserver(obs))

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Close(a.ID()))
	assert.ErrorIs(t, m.Close(a.ID()), ErrSessionNotFound)
	_, err = m.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	m.Shutdown()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 2, obs.opened)
	assert.Equal(t, []string{"closed", "shutdown"}, obs.reasons)
}

func TestManagerSweepEvictsIdle(t *testing.T) {
	clock := &fakeClock{now: sunday}
	obs := &countingObserver{}
	m := newTestManager(t, newScheduler(),
		WithManagerClock(clock.Now), WithIdleTTL(30*time.Minute), WithSessionObserver(obs))

	idle := m.Create()
	busy := m.Create()

	clock.Advance(20 * time.Minute)
	_, _, err := busy.Converse(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Sweep())

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(busy.ID())
	assert.NoError(t, err)
	assert.Equal(t, []string{"idle"}, obs.reasons)
}

func TestManagerSweepDisabled(t *testing.T) {
	m := newTestManager(t, newScheduler(), WithIdleTTL(0))
	m.Create()
	assert.Equal(t, 0, m.Sweep())
}

func TestManagerRunStopsWithContext(t *testing.T) {
	m := newTestManager(t, newScheduler(), WithIdleTTL(time.Hour))
	m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, 0, m.Len())
}

func TestNewManagerRequiresEngine(t *testing.T) {
	assert.Panics(t, func() { NewManager(nil, nil, nil) })
}
