package breath

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finalizeCall struct {
	ID        string
	Duration  int
	Cycles    int
	Completed bool
}

type fakeStore struct {
	created   int
	discarded []string
	finalized []finalizeCall
	createErr error
	finalErr  error
}

func (s *fakeStore) CreateSession(context.Context) (Session, error) {
	if s.createErr != nil {
		return Session{}, s.createErr
	}
	s.created++
	return Session{ID: fmt.Sprintf("med-%d", s.created), StartedAt: time.Now()}, nil
}

func (s *fakeStore) FinalizeSession(_ context.Context, id string, duration, cycles int, completed bool) error {
	s.finalized = append(s.finalized, finalizeCall{ID: id, Duration: duration, Cycles: cycles, Completed: completed})
	return s.finalErr
}

func (s *fakeStore) DiscardSession(id string) {
	s.discarded = append(s.discarded, id)
}

func tickN(t *testing.T, c *Controller, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, c.Tick(context.Background()))
	}
}

func TestNewControllerIsIdle(t *testing.T) {
	c := NewController(&fakeStore{})
	st := c.State()

	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 0, st.Countdown)
	assert.Equal(t, MinimumDuration, st.Remaining)
	assert.False(t, st.Running)
	assert.Nil(t, st.Session)
}

func TestStartCreatesSessionAndInhales(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)

	require.NoError(t, c.Start(context.Background()))
	st := c.State()

	assert.Equal(t, PhaseInhale, st.Phase)
	assert.Equal(t, InhaleDuration, st.Countdown)
	assert.True(t, st.Running)
	require.NotNil(t, st.Session)
	assert.Equal(t, "med-1", st.Session.ID)
	assert.Equal(t, 1, store.created)
}

func TestStartTwiceIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	tickN(t, c, 1)
	before := c.State()

	require.NoError(t, c.Start(ctx))
	after := c.State()

	assert.Equal(t, before.Phase, after.Phase)
	assert.Equal(t, before.Countdown, after.Countdown)
	assert.Equal(t, 1, store.created)
}

func TestStartCreateErrorStaysIdle(t *testing.T) {
	c := NewController(&fakeStore{createErr: errors.New("disk full")})

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.False(t, c.State().Running)
}

func TestPhaseSequence(t *testing.T) {
	c := NewController(&fakeStore{})
	require.NoError(t, c.Start(context.Background()))

	var phases []Phase
	for i := 0; i < 24; i++ {
		phases = append(phases, c.State().Phase)
		tickN(t, c, 1)
	}

	var want []Phase
	for cycle := 0; cycle < 2; cycle++ {
		for i := 0; i < InhaleDuration; i++ {
			want = append(want, PhaseInhale)
		}
		for i := 0; i < HoldDuration; i++ {
			want = append(want, PhaseHold)
		}
		for i := 0; i < ExhaleDuration; i++ {
			want = append(want, PhaseExhale)
		}
	}
	assert.Equal(t, want, phases)
	assert.Equal(t, 2, c.State().Cycles)
}

func TestEndToEndFirstCycle(t *testing.T) {
	c := NewController(&fakeStore{})
	require.NoError(t, c.Start(context.Background()))

	tickN(t, c, 4)
	assert.Equal(t, PhaseHold, c.State().Phase)

	tickN(t, c, 2)
	st := c.State()
	assert.Equal(t, PhaseExhale, st.Phase)
	assert.Equal(t, ExhaleDuration, st.Countdown)
	assert.Equal(t, 0, st.Cycles)

	tickN(t, c, 6)
	st = c.State()
	assert.Equal(t, 1, st.Cycles)
	assert.Equal(t, PhaseInhale, st.Phase)
	assert.Equal(t, MinimumDuration-12, st.Remaining)
}

func TestCompletesAtMinimumDuration(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	require.NoError(t, c.Start(context.Background()))

	tickN(t, c, MinimumDuration)
	st := c.State()

	assert.Equal(t, PhaseComplete, st.Phase)
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.Remaining)
	assert.Equal(t, MinimumDuration/12, st.Cycles)
	require.Len(t, store.finalized, 1)
	assert.Equal(t, finalizeCall{ID: "med-1", Duration: MinimumDuration, Cycles: 15, Completed: true}, store.finalized[0])
	require.NotNil(t, st.Session)
	assert.True(t, st.Session.Completed)
	assert.NotNil(t, st.Session.CompletedAt)
}

func TestTickAfterCompleteIsNoop(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	require.NoError(t, c.Start(context.Background()))
	tickN(t, c, MinimumDuration)

	tickN(t, c, 10)
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Stop(context.Background()))

	assert.Equal(t, PhaseComplete, c.State().Phase)
	assert.Equal(t, MinimumDuration, c.State().Elapsed)
	assert.Len(t, store.finalized, 1)
}

func TestCycleIsNotCutShort(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	require.NoError(t, c.Start(context.Background()))

	// Resuming restarts at inhale, which shifts the cycle boundary off 180s.
	tickN(t, c, 5)
	c.Pause()
	require.NoError(t, c.Start(context.Background()))

	tickN(t, c, MinimumDuration-5)
	st := c.State()
	assert.Equal(t, 0, st.Remaining)
	assert.NotEqual(t, PhaseComplete, st.Phase)
	assert.Empty(t, store.finalized)

	for c.State().Phase != PhaseComplete {
		tickN(t, c, 1)
	}
	require.Len(t, store.finalized, 1)
	call := store.finalized[0]
	assert.True(t, call.Completed)
	assert.Greater(t, call.Duration, MinimumDuration)
	assert.LessOrEqual(t, call.Duration, MinimumDuration+InhaleDuration+HoldDuration+ExhaleDuration)
}

func TestEarlyStopPersistsIncomplete(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	tickN(t, c, 47)
	require.NoError(t, c.Stop(ctx))

	require.Len(t, store.finalized, 1)
	assert.Equal(t, finalizeCall{ID: "med-1", Duration: 47, Cycles: 3, Completed: false}, store.finalized[0])

	st := c.State()
	assert.False(t, st.Running)
	assert.Equal(t, 47, st.Elapsed)

	tickN(t, c, 3)
	assert.Equal(t, 47, c.State().Elapsed)
}

func TestSecondStopDoesNotPersistAgain(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	tickN(t, c, 47)

	require.NoError(t, c.Stop(ctx))
	require.NoError(t, c.Stop(ctx))

	require.Len(t, store.finalized, 1)
	assert.Equal(t, finalizeCall{ID: "med-1", Duration: 47, Cycles: 3, Completed: false}, store.finalized[0])
}

func TestStopAfterResumePersistsAgain(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	tickN(t, c, 12)
	require.NoError(t, c.Stop(ctx))

	require.NoError(t, c.Start(ctx))
	tickN(t, c, 12)
	require.NoError(t, c.Stop(ctx))

	require.Len(t, store.finalized, 2)
	assert.Equal(t, "med-1", store.finalized[1].ID)
	assert.Equal(t, 24, store.finalized[1].Duration)
	assert.Equal(t, 1, store.created)
}

func TestStopBeforeStartPersistsNothing(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)

	require.NoError(t, c.Stop(context.Background()))
	assert.Empty(t, store.finalized)
}

func TestStopReportsPersistError(t *testing.T) {
	store := &fakeStore{finalErr: errors.New("locked")}
	c := NewController(store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	tickN(t, c, 3)

	err := c.Stop(ctx)
	require.Error(t, err)
	assert.Len(t, store.finalized, 1)
}

func TestPauseKeepsProgress(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	tickN(t, c, 13)
	c.Pause()
	tickN(t, c, 5)

	st := c.State()
	assert.False(t, st.Running)
	assert.Equal(t, 13, st.Elapsed)
	assert.Equal(t, 1, st.Cycles)
	assert.Empty(t, store.finalized)

	require.NoError(t, c.Start(ctx))
	st = c.State()
	assert.Equal(t, PhaseInhale, st.Phase)
	assert.Equal(t, InhaleDuration, st.Countdown)
	assert.Equal(t, 1, store.created)
}

func TestResetClearsWithoutPersisting(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	tickN(t, c, 30)

	c.Reset()
	st := c.State()

	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 0, st.Countdown)
	assert.Equal(t, 0, st.Cycles)
	assert.Equal(t, MinimumDuration, st.Remaining)
	assert.Nil(t, st.Session)
	assert.Empty(t, store.finalized)
	assert.Equal(t, []string{"med-1"}, store.discarded)

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, 2, store.created)
}

func TestResetWhileIdleDiscardsNothing(t *testing.T) {
	store := &fakeStore{}
	c := NewController(store)
	c.Reset()
	assert.Empty(t, store.discarded)
}

func TestProgressCapsAtOne(t *testing.T) {
	c := NewController(&fakeStore{})
	require.NoError(t, c.Start(context.Background()))

	tickN(t, c, 90)
	assert.InDelta(t, 0.5, c.Progress(), 1e-9)

	tickN(t, c, 90)
	assert.InDelta(t, 1.0, c.Progress(), 1e-9)
}

func TestGuidanceCoversPhases(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhaseInhale, PhaseHold, PhaseExhale, PhaseComplete} {
		assert.NotEmpty(t, Guidance(p), "phase %s", p)
	}
	assert.Empty(t, Guidance(Phase("unknown")))
}
