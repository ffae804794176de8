// Package state keeps the latest scraper run-state observed by the monitor.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/lotwatch/internal/api"
)

// Snapshot represents the latest run-state available to the UI.
type Snapshot struct {
	Status              api.ScraperStatus
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	Polls               int // completed polls, successful or not
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of one poll. When err is non-nil the previous
// status is kept but the error is recorded for visibility.
func (s *Store) Update(status *api.ScraperStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Polls++
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if status != nil {
		s.snapshot.Status = cloneStatus(*status)
		s.snapshot.HasStatus = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Status = cloneStatus(s.snapshot.Status)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStatus(status api.ScraperStatus) api.ScraperStatus {
	dup := status
	if status.LastRun != nil {
		v := *status.LastRun
		dup.LastRun = &v
	}
	if status.LastResult != nil {
		v := *status.LastResult
		dup.LastResult = &v
	}
	return dup
}
