package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/state"
)

type fakeSource struct {
	mu       sync.Mutex
	calls    int
	statuses []api.ScraperStatus
	err      error
}

func (f *fakeSource) FetchScraperStatus(context.Context) (api.ScraperStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return api.ScraperStatus{}, f.err
	}
	if len(f.statuses) == 0 {
		return api.ScraperStatus{}, nil
	}
	st := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return st, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitUpdate(t *testing.T, m *Monitor) {
	t.Helper()
	select {
	case <-m.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for monitor update")
	}
}

func TestPoll_RecordsStatusAndSignals(t *testing.T) {
	last := "2024-05-01T10:00:00"
	src := &fakeSource{statuses: []api.ScraperStatus{{IsRunning: true}, {LastRun: &last}}}
	store := &state.Store{}
	m := New(src, store, time.Hour, nil)

	m.Poll(context.Background())
	waitUpdate(t, m)
	assert.Equal(t, state.PhaseRunning, state.PhaseOf(store.Snapshot()))
	assert.False(t, state.CanStart(state.PhaseOf(store.Snapshot())))

	m.Poll(context.Background())
	waitUpdate(t, m)
	assert.Equal(t, state.PhaseIdleCompleted, state.PhaseOf(store.Snapshot()))
	assert.True(t, state.CanStart(state.PhaseOf(store.Snapshot())))
}

func TestPoll_FailureKeepsPreviousStatus(t *testing.T) {
	src := &fakeSource{statuses: []api.ScraperStatus{{IsRunning: true}}}
	store := &state.Store{}
	m := New(src, store, time.Hour, nil)

	m.Poll(context.Background())
	src.mu.Lock()
	src.err = errors.New("connection refused")
	src.mu.Unlock()
	m.Poll(context.Background())

	snap := store.Snapshot()
	assert.True(t, snap.Status.IsRunning)
	require.Error(t, snap.LastError)
	assert.Equal(t, 1, snap.ConsecutiveFailures)
}

func TestRun_KickTriggersOutOfBandPoll(t *testing.T) {
	src := &fakeSource{}
	m := New(src, &state.Store{}, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)

	waitUpdate(t, m)
	assert.Equal(t, 1, src.Calls())

	m.Kick()
	waitUpdate(t, m)
	assert.Equal(t, 2, src.Calls(), "kick must poll without waiting for the hourly tick")
}

func TestRun_TicksAndStopsOnCancel(t *testing.T) {
	src := &fakeSource{}
	m := New(src, &state.Store{}, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestKick_NeverBlocks(t *testing.T) {
	m := New(&fakeSource{}, &state.Store{}, 0, nil)
	for i := 0; i < 10; i++ {
		m.Kick()
	}
	assert.Equal(t, DefaultInterval, m.Interval())
}
