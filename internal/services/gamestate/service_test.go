package gamestate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clockmocks "github.com/hollowmere/spellforge/internal/clock/mocks"
	"github.com/hollowmere/spellforge/internal/domain/cards"
	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
	"github.com/hollowmere/spellforge/internal/repositories/snapshots"
	"github.com/hollowmere/spellforge/internal/services/spellcast"
)

// sequenceGenerator hands out predictable cast IDs
type sequenceGenerator struct {
	n int
}

func (g *sequenceGenerator) New() string {
	g.n++
	return fmt.Sprintf("cast-%d", g.n)
}

type fixture struct {
	service Service
	repo    snapshots.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	timeProvider := clockmocks.NewMockTimeProvider(ctrl)
	timeProvider.EXPECT().Now().
		Return(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)).
		AnyTimes()

	library, err := cards.StarterLibrary()
	require.NoError(t, err)

	repo := snapshots.NewInMemoryRepository()
	engine, err := spellcast.NewService(&spellcast.ServiceConfig{
		Library:      library,
		Repository:   repo,
		TimeProvider: timeProvider,
	})
	require.NoError(t, err)

	svc, err := NewService(&ServiceConfig{
		Engine:        engine,
		Repository:    repo,
		UUIDGenerator: &sequenceGenerator{},
		TimeProvider:  timeProvider,
	})
	require.NoError(t, err)

	return &fixture{service: svc, repo: repo}
}

func TestNewService(t *testing.T) {
	t.Run("rejects nil config", func(t *testing.T) {
		_, err := NewService(nil)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("rejects missing dependencies", func(t *testing.T) {
		_, err := NewService(&ServiceConfig{})
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestCastLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	plan, err := f.service.BeginCast(ctx, []string{"winters_grip", "frostlash", "firebolt"})
	require.NoError(t, err)
	require.Len(t, plan.Snapshots, 3)
	assert.Equal(t, "cast-1", plan.CastID)

	state := f.service.Current()
	assert.True(t, state.Spell.IsActive)
	assert.Equal(t, "cast-1", state.CastID)
	assert.Equal(t, 0, state.Spell.ActionIndex)

	// Execution replays exactly the previewed snapshots, in order.
	for i, snap := range plan.Snapshots {
		state, err = f.service.ApplyNext(ctx, snap.ActionKey)
		require.NoError(t, err, "snapshot %d", i)
		assert.Equal(t, i+1, state.Spell.ActionIndex)
	}
	assert.Equal(t, 16.0, state.Spell.TotalDamage)
	assert.Equal(t, 2, state.Effects.StackCount("chill"))

	state, err = f.service.CompleteCast(ctx)
	require.NoError(t, err)
	assert.False(t, state.Spell.IsActive)
	assert.Empty(t, state.CastID)
	require.Len(t, state.Spell.History, 1)
	assert.Equal(t, "cast-1", state.Spell.History[0].CastID)
	assert.Equal(t, 16.0, state.Spell.History[0].TotalDamage)
	assert.False(t, state.Spell.History[0].Abandoned)

	// Snapshots are gone once the cast completes.
	_, err = f.repo.GetByCast(ctx, "cast-1")
	assert.True(t, errors.IsNotFound(err))

	// A fresh cast gets a fresh identity and index.
	plan, err = f.service.BeginCast(ctx, []string{"firebolt"})
	require.NoError(t, err)
	assert.Equal(t, "cast-2", plan.CastID)
	assert.Equal(t, "firebolt_a0_0", plan.Snapshots[0].ActionKey)
}

func TestBeginCast(t *testing.T) {
	ctx := context.Background()

	t.Run("failed pre-calculation leaves no half-started cast", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.BeginCast(ctx, []string{"no_such_card"})
		require.Error(t, err)

		state := f.service.Current()
		assert.False(t, state.Spell.IsActive)
		assert.Empty(t, state.CastID)

		// The identity of the failed attempt is not recycled.
		plan, err := f.service.BeginCast(ctx, []string{"firebolt"})
		require.NoError(t, err)
		assert.Equal(t, "cast-2", plan.CastID)
	})

	t.Run("rejects overlapping casts", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.BeginCast(ctx, []string{"firebolt"})
		require.NoError(t, err)

		_, err = f.service.BeginCast(ctx, []string{"firebolt"})
		assert.True(t, errors.IsValidation(err))
	})
}

func TestApplyNext(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown action key is a consistency error", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.BeginCast(ctx, []string{"firebolt"})
		require.NoError(t, err)

		_, err = f.service.ApplyNext(ctx, "firebolt_a0_7")
		assert.True(t, errors.IsConsistency(err))

		// State is untouched by the failed replay.
		assert.Equal(t, 0, f.service.Current().Spell.ActionIndex)
	})

	t.Run("out-of-order snapshot is a consistency error", func(t *testing.T) {
		f := newFixture(t)

		plan, err := f.service.BeginCast(ctx, []string{"winters_grip", "firebolt"})
		require.NoError(t, err)

		_, err = f.service.ApplyNext(ctx, plan.Snapshots[1].ActionKey)
		assert.True(t, errors.IsConsistency(err))
	})

	t.Run("no active cast", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ApplyNext(ctx, "firebolt_a0_0")
		assert.True(t, errors.IsValidation(err))
	})
}

func TestAbandonCast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	plan, err := f.service.BeginCast(ctx, []string{"winters_grip", "firebolt"})
	require.NoError(t, err)

	// Apply the first action, then walk away mid-cast.
	_, err = f.service.ApplyNext(ctx, plan.Snapshots[0].ActionKey)
	require.NoError(t, err)

	state, err := f.service.AbandonCast(ctx)
	require.NoError(t, err)
	assert.False(t, state.Spell.IsActive)
	require.Len(t, state.Spell.History, 1)
	assert.True(t, state.Spell.History[0].Abandoned)

	// Effects already applied during the cast stand.
	assert.Equal(t, 2, state.Effects.StackCount("chill"))

	// Unconsumed snapshots are discarded with the cast.
	_, err = f.repo.GetByCast(ctx, plan.CastID)
	assert.True(t, errors.IsNotFound(err))
}

func TestTriggerEffectsAndEndTurn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// kindle applies 2 Burn, which fires at end of turn and loses a stack
	// per trigger.
	plan, err := f.service.BeginCast(ctx, []string{"kindle"})
	require.NoError(t, err)
	for _, snap := range plan.Snapshots {
		_, err = f.service.ApplyNext(ctx, snap.ActionKey)
		require.NoError(t, err)
	}
	_, err = f.service.CompleteCast(ctx)
	require.NoError(t, err)

	var fired []effects.Instance
	state, err := f.service.TriggerEffects(effects.TriggerOnTurnEnd, func(inst effects.Instance) {
		fired = append(fired, inst)
	})
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, 2, fired[0].Stacks)
	assert.Equal(t, 1, state.Effects.StackCount("burn"))

	state, err = f.service.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 1, state.Effects.StackCount("burn"))

	state, err = f.service.TriggerEffects(effects.TriggerOnTurnEnd, nil)
	require.NoError(t, err)
	assert.False(t, state.Effects.Has("burn"))
}
