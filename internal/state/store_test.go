package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/lotwatch/internal/api"
)

func strPtr(s string) *string { return &s }

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	status := &api.ScraperStatus{IsRunning: false, LastRun: strPtr("2024-05-01T10:00:00")}

	before := time.Now()
	s.Update(status, nil)

	snap := s.Snapshot()
	if !snap.HasStatus || snap.Status.IsRunning {
		t.Fatalf("snapshot status = %#v, want idle with HasStatus=true", snap.Status)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if snap.Polls != 1 {
		t.Fatalf("Polls = %d, want 1", snap.Polls)
	}

	// Returned snapshot should be independent of the stored one.
	*snap.Status.LastRun = "mutated"
	*status.LastRun = "mutated too"
	snap2 := s.Snapshot()
	if *snap2.Status.LastRun != "2024-05-01T10:00:00" {
		t.Fatalf("Snapshot should clone status; got last_run %q", *snap2.Status.LastRun)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&api.ScraperStatus{IsRunning: true}, nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.HasStatus != prev.HasStatus || snap.Status.IsRunning != prev.Status.IsRunning {
		t.Fatalf("status changed on error: got %#v want %#v", snap.Status, prev.Status)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.Polls != 2 {
		t.Fatalf("Polls = %d, want 2", snap.Polls)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after one failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after two failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(&api.ScraperStatus{}, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestPhaseOf(t *testing.T) {
	cases := []struct {
		name string
		snap Snapshot
		want Phase
	}{
		{"no status yet", Snapshot{}, PhaseUnknown},
		{"never run", Snapshot{HasStatus: true}, PhaseIdleNeverRun},
		{"running", Snapshot{HasStatus: true, Status: api.ScraperStatus{IsRunning: true}}, PhaseRunning},
		{"running with previous run", Snapshot{HasStatus: true, Status: api.ScraperStatus{IsRunning: true, LastRun: strPtr("2024-01-01T00:00:00")}}, PhaseRunning},
		{"completed", Snapshot{HasStatus: true, Status: api.ScraperStatus{LastRun: strPtr("2024-01-01T00:00:00")}}, PhaseIdleCompleted},
		{"empty last run", Snapshot{HasStatus: true, Status: api.ScraperStatus{LastRun: strPtr("")}}, PhaseIdleNeverRun},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PhaseOf(tc.snap); got != tc.want {
				t.Fatalf("PhaseOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanStartAndFinished(t *testing.T) {
	if CanStart(PhaseRunning) || CanStart(PhaseUnknown) {
		t.Fatal("start must be disabled while running or before the first poll")
	}
	if !CanStart(PhaseIdleNeverRun) || !CanStart(PhaseIdleCompleted) {
		t.Fatal("start must be enabled while idle")
	}
	if !Finished(PhaseRunning, PhaseIdleCompleted) {
		t.Fatal("running -> completed is a finished run")
	}
	if Finished(PhaseIdleCompleted, PhaseIdleCompleted) || Finished(PhaseRunning, PhaseIdleNeverRun) {
		t.Fatal("only running -> completed counts as finished")
	}
}
