package breath

import (
	"context"
	"fmt"
	"time"

	"github.com/Harshodai/askmukthiguru/internal/log"
)

// Phase durations and the minimum session length, in seconds.
const (
	InhaleDuration  = 4
	HoldDuration    = 2
	ExhaleDuration  = 6
	MinimumDuration = 180
)

// State is a point-in-time snapshot of the controller.
type State struct {
	Phase     Phase
	Countdown int // seconds left in the current phase
	Remaining int // seconds left before the session may complete
	Cycles    int
	Elapsed   int
	Running   bool
	Session   *Session
}

// Controller drives a breathing session through inhale, hold and exhale.
//
// It is not safe for concurrent use; the caller schedules Tick once per second
// and stops scheduling after Pause, Stop, Reset or completion.
type Controller struct {
	store Store
	now   func() time.Time

	phase     Phase
	countdown int
	remaining int
	cycles    int
	elapsed   int
	running   bool
	session   *Session
	finalized bool // the session was persisted since the last Start
}

// NewController returns an idle controller persisting through store.
func NewController(store Store) *Controller {
	c := &Controller{store: store, now: time.Now}
	c.Reset()
	return c
}

// Start begins or resumes the session with a fresh inhale.
// It is a no-op while running or after completion.
func (c *Controller) Start(ctx context.Context) error {
	if c.running || c.phase == PhaseComplete {
		return nil
	}

	if c.session == nil {
		sess, err := c.store.CreateSession(ctx)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		c.session = &sess
	}

	c.phase = PhaseInhale
	c.countdown = InhaleDuration
	c.running = true
	c.finalized = false
	return nil
}

// Tick advances the timer by one second.
func (c *Controller) Tick(ctx context.Context) error {
	if !c.running || !c.phase.Active() {
		return nil
	}

	c.countdown--
	c.remaining = max(0, c.remaining-1)
	c.elapsed++
	c.syncSession()

	if c.countdown > 0 {
		return nil
	}

	switch c.phase {
	case PhaseInhale:
		c.phase, c.countdown = PhaseHold, HoldDuration
	case PhaseHold:
		c.phase, c.countdown = PhaseExhale, ExhaleDuration
	case PhaseExhale:
		c.cycles++
		c.syncSession()
		if c.remaining == 0 {
			return c.complete(ctx)
		}
		c.phase, c.countdown = PhaseInhale, InhaleDuration
	}
	return nil
}

// Pause halts tick progression without discarding progress.
func (c *Controller) Pause() {
	c.running = false
}

// Stop halts the session and, unless it was already persisted since the last
// Start, persists it as incomplete with the progress so far.
func (c *Controller) Stop(ctx context.Context) error {
	c.running = false
	if c.session == nil || c.finalized {
		return nil
	}
	return c.finalize(ctx, false)
}

// Reset discards all state, including the pending record, without persisting.
func (c *Controller) Reset() {
	if c.session != nil {
		c.store.DiscardSession(c.session.ID)
	}
	c.phase = PhaseIdle
	c.countdown = 0
	c.remaining = MinimumDuration
	c.cycles = 0
	c.elapsed = 0
	c.running = false
	c.session = nil
	c.finalized = false
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	st := State{
		Phase:     c.phase,
		Countdown: c.countdown,
		Remaining: c.remaining,
		Cycles:    c.cycles,
		Elapsed:   c.elapsed,
		Running:   c.running,
	}
	if c.session != nil {
		sess := *c.session
		st.Session = &sess
	}
	return st
}

// Progress is the fraction of the minimum duration elapsed, capped at 1.
func (c *Controller) Progress() float64 {
	return min(1, float64(c.elapsed)/float64(MinimumDuration))
}

func (c *Controller) complete(ctx context.Context) error {
	c.phase = PhaseComplete
	c.countdown = 0
	c.running = false
	return c.finalize(ctx, true)
}

func (c *Controller) finalize(ctx context.Context, completed bool) error {
	c.finalized = true
	c.syncSession()
	c.session.Completed = completed
	completedAt := c.now()
	c.session.CompletedAt = &completedAt

	logger := log.WithComponent("breath")
	if err := c.store.FinalizeSession(ctx, c.session.ID, c.elapsed, c.cycles, completed); err != nil {
		logger.Error().Err(err).Str("session", c.session.ID).Msg("persist session")
		return fmt.Errorf("finalize session %s: %w", c.session.ID, err)
	}
	logger.Info().
		Str("session", c.session.ID).
		Int("duration", c.elapsed).
		Int("cycles", c.cycles).
		Bool("completed", completed).
		Msg("session finalized")
	return nil
}

func (c *Controller) syncSession() {
	if c.session == nil {
		return
	}
	c.session.DurationSeconds = c.elapsed
	c.session.BreathCycles = c.cycles
}
