package state

import "time"

// Phase is the scraper run-state as shown to the user.
type Phase int

const (
	// PhaseUnknown means no poll has succeeded yet.
	PhaseUnknown Phase = iota
	PhaseIdleNeverRun
	PhaseIdleCompleted
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdleNeverRun:
		return "never run"
	case PhaseIdleCompleted:
		return "completed"
	case PhaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// PhaseOf derives the phase from a snapshot.
func PhaseOf(s Snapshot) Phase {
	if !s.HasStatus {
		return PhaseUnknown
	}
	if s.Status.IsRunning {
		return PhaseRunning
	}
	if s.Status.HasRun() {
		return PhaseIdleCompleted
	}
	return PhaseIdleNeverRun
}

// CanStart reports whether the start command is enabled in phase p. It stays
// disabled while a run is in progress so a second click cannot double-submit.
func CanStart(p Phase) bool {
	return p == PhaseIdleNeverRun || p == PhaseIdleCompleted
}

// LastRun returns the completion time of the last run, or the zero time.
func (s Snapshot) LastRun() time.Time {
	if !s.HasStatus {
		return time.Time{}
	}
	return s.Status.ParsedLastRun()
}

// Finished reports whether the move from prev to next is a run completing.
func Finished(prev, next Phase) bool {
	return prev == PhaseRunning && next == PhaseIdleCompleted
}
