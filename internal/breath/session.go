// Package breath implements the Serene Mind guided breathing timer.
package breath

import (
	"context"
	"time"
)

// Phase is the current stage of a breath cycle, or a terminal/idle marker.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseInhale   Phase = "inhale"
	PhaseHold     Phase = "hold"
	PhaseExhale   Phase = "exhale"
	PhaseComplete Phase = "complete"
)

// Active reports whether the phase carries a countdown.
func (p Phase) Active() bool {
	return p == PhaseInhale || p == PhaseHold || p == PhaseExhale
}

// Session is a persisted meditation session record.
type Session struct {
	ID              string
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds int
	BreathCycles    int
	Completed       bool
}

// Store persists meditation sessions.
type Store interface {
	// CreateSession returns a new record with StartedAt set to now and zero counters.
	CreateSession(ctx context.Context) (Session, error)
	// FinalizeSession upserts the record, stamping CompletedAt with now.
	FinalizeSession(ctx context.Context, id string, durationSeconds, breathCycles int, completed bool) error
	// DiscardSession forgets a created record that will never be finalized.
	DiscardSession(id string)
}
