// Package db provides SQLite persistence for meditation sessions and chat
// conversations.
package db

import "time"

// MeditationStats aggregates all recorded meditation sessions.
type MeditationStats struct {
	TotalSessions     int
	CompletedSessions int
	TotalSeconds      int
	TotalCycles       int
	StreakDays        int // consecutive days up to today with at least one session
	LastSessionAt     *time.Time
}

// TotalMinutes rounds the total practice time down to whole minutes.
func (s MeditationStats) TotalMinutes() int {
	return s.TotalSeconds / 60
}
