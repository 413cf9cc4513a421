package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Harshodai/askmukthiguru/internal/breath"
)

// ErrUnknownSession is returned when finalizing a session that was never created.
var ErrUnknownSession = errors.New("unknown meditation session")

var _ breath.Store = (*Store)(nil)

// CreateSession mints a new session record. Nothing is written until
// FinalizeSession.
func (s *Store) CreateSession(ctx context.Context) (breath.Session, error) {
	if err := ctx.Err(); err != nil {
		return breath.Session{}, err
	}
	sess := breath.Session{ID: s.newID(), StartedAt: s.now()}

	s.mu.Lock()
	s.pending[sess.ID] = sess.StartedAt
	s.mu.Unlock()

	return sess, nil
}

// FinalizeSession upserts the session with the given progress and stamps
// completedAt with now.
func (s *Store) FinalizeSession(ctx context.Context, id string, durationSeconds, breathCycles int, completed bool) error {
	s.mu.Lock()
	startedAt, ok := s.pending[id]
	s.mu.Unlock()

	if !ok {
		var existing float64
		err := s.db.QueryRowContext(ctx, `SELECT startedAt FROM meditation_sessions WHERE id = ?`, id).Scan(&existing)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUnknownSession, id)
		}
		if err != nil {
			return fmt.Errorf("query session: %w", err)
		}
		startedAt = timeFromUnix(existing)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meditation_sessions (id, startedAt, completedAt, durationSeconds, breathCycles, completed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completedAt = excluded.completedAt,
			durationSeconds = excluded.durationSeconds,
			breathCycles = excluded.breathCycles,
			completed = excluded.completed
	`, id, unixFromTime(startedAt), unixFromTime(s.now()), durationSeconds, breathCycles, completed)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
	return nil
}

// DiscardSession drops a created session that will not be finalized.
// Persisted rows are untouched.
func (s *Store) DiscardSession(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// ListSessions returns all persisted sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]breath.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, startedAt, completedAt, durationSeconds, breathCycles, completed
		FROM meditation_sessions
		ORDER BY startedAt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []breath.Session
	for rows.Next() {
		var sess breath.Session
		var startedAt float64
		var completedAt sql.NullFloat64
		if err := rows.Scan(&sess.ID, &startedAt, &completedAt,
			&sess.DurationSeconds, &sess.BreathCycles, &sess.Completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = timeFromUnix(startedAt)
		sess.CompletedAt = nullableTime(completedAt)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// MeditationStats aggregates all persisted sessions.
func (s *Store) MeditationStats(ctx context.Context) (MeditationStats, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return MeditationStats{}, err
	}

	var stats MeditationStats
	days := map[string]bool{}
	for _, sess := range sessions {
		stats.TotalSessions++
		if sess.Completed {
			stats.CompletedSessions++
		}
		stats.TotalSeconds += sess.DurationSeconds
		stats.TotalCycles += sess.BreathCycles
		days[sess.StartedAt.Local().Format(time.DateOnly)] = true
	}
	if len(sessions) > 0 {
		last := sessions[0].StartedAt
		stats.LastSessionAt = &last
	}
	stats.StreakDays = streak(days, s.now())
	return stats, nil
}

// streak counts consecutive practice days ending today, or yesterday when
// today has no session yet.
func streak(days map[string]bool, now time.Time) int {
	day := now.Local()
	if !days[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for days[day.Format(time.DateOnly)] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}
