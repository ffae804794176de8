// Package monitor polls the scraper run-state on a fixed interval.
package monitor

import (
	"context"
	"time"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/logging"
	"github.com/five82/lotwatch/internal/state"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 5 * time.Second

// StatusSource is the part of the API the monitor needs.
type StatusSource interface {
	FetchScraperStatus(ctx context.Context) (api.ScraperStatus, error)
}

// Monitor refreshes a state.Store from the API on every tick and on demand.
type Monitor struct {
	source   StatusSource
	store    *state.Store
	interval time.Duration
	log      logging.Logger

	kick    chan struct{}
	updates chan struct{}
}

// New builds a Monitor. A non-positive interval uses DefaultInterval.
func New(source StatusSource, store *state.Store, interval time.Duration, log logging.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Monitor{
		source:   source,
		store:    store,
		interval: interval,
		log:      log.With(logging.String("component", "monitor")),
		kick:     make(chan struct{}, 1),
		updates:  make(chan struct{}, 1),
	}
}

// Snapshot returns the latest run-state.
func (m *Monitor) Snapshot() state.Snapshot {
	return m.store.Snapshot()
}

// Interval returns the scheduled poll cadence.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Updates delivers a signal after each completed poll. Signals coalesce: a
// slow reader sees one pending signal, then reads the latest snapshot.
func (m *Monitor) Updates() <-chan struct{} {
	return m.updates
}

// Kick requests an immediate out-of-band poll without waiting for the next
// tick. It never blocks; kicks made while one is pending are merged.
func (m *Monitor) Kick() {
	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// Run polls once immediately, then on every tick and every kick, until ctx is
// cancelled. Cancelling ctx is how the owner stops the monitor.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("monitor started", logging.Duration("interval", m.interval))
	for {
		m.Poll(ctx)
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return
		case <-ticker.C:
		case <-m.kick:
			m.log.Debug("out-of-band poll")
		}
	}
}

// Start runs the monitor in a background goroutine. It returns immediately.
func (m *Monitor) Start(ctx context.Context) {
	go m.Run(ctx)
}

// Poll performs one status query and records it in the store.
func (m *Monitor) Poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	before := state.PhaseOf(m.store.Snapshot())

	status, err := m.source.FetchScraperStatus(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.store.Update(nil, err)
		m.log.Warn("status poll failed", logging.Err(err))
	} else {
		m.store.Update(&status, nil)
		if after := state.PhaseOf(m.store.Snapshot()); after != before {
			m.log.Info("scraper phase changed",
				logging.String("from", before.String()),
				logging.String("to", after.String()))
		}
	}

	select {
	case m.updates <- struct{}{}:
	default:
	}
}
