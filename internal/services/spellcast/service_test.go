package spellcast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	clockmocks "github.com/hollowmere/spellforge/internal/clock/mocks"
	"github.com/hollowmere/spellforge/internal/domain/cards"
	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
	"github.com/hollowmere/spellforge/internal/repositories/snapshots"
)

var testStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, library *cards.Library) (Service, snapshots.Repository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	timeProvider := clockmocks.NewMockTimeProvider(ctrl)
	timeProvider.EXPECT().Now().Return(testStart.Add(time.Minute)).AnyTimes()

	repo := snapshots.NewInMemoryRepository()
	svc, err := NewService(&ServiceConfig{
		Library:      library,
		Repository:   repo,
		TimeProvider: timeProvider,
	})
	require.NoError(t, err)
	return svc, repo
}

func castingState(t *testing.T, castID string) combat.GameState {
	t.Helper()
	state, err := combat.ApplyCommand(combat.NewGameState(), combat.BeginCast{
		CastID:    castID,
		StartTime: testStart,
	})
	require.NoError(t, err)
	return state
}

func starterLibrary(t *testing.T) *cards.Library {
	t.Helper()
	library, err := cards.StarterLibrary()
	require.NoError(t, err)
	return library
}

func TestPreCalculate(t *testing.T) {
	ctx := context.Background()

	t.Run("simulates every action of every card in order", func(t *testing.T) {
		svc, _ := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		// winters_grip applies 2 Chill; frostlash deals 3 per Chill stack.
		snaps, err := svc.PreCalculate(ctx, "cast-1", state, []string{"winters_grip", "frostlash", "firebolt"})
		require.NoError(t, err)
		require.Len(t, snaps, 3)

		assert.Equal(t, "winters_grip_a0_0", snaps[0].ActionKey)
		assert.Equal(t, 0.0, snaps[0].Result.FinalDamage)
		assert.Equal(t, 2, snaps[0].Resulting.Effects.StackCount("chill"))

		assert.Equal(t, "frostlash_a0_1", snaps[1].ActionKey)
		assert.Equal(t, 6.0, snaps[1].Result.FinalDamage)

		assert.Equal(t, "firebolt_a0_2", snaps[2].ActionKey)
		assert.Equal(t, 10.0, snaps[2].Result.FinalDamage)
		assert.Equal(t, 16.0, snaps[2].Resulting.Spell.TotalDamage)
		assert.Equal(t, 10.0, snaps[2].Resulting.Spell.ElementTotals.Fire)
		assert.Equal(t, 6.0, snaps[2].Resulting.Spell.ElementTotals.Frost)
	})

	t.Run("consumable modifier spans cards and is consumed once", func(t *testing.T) {
		svc, _ := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		// emberseal adds a consumed-on-use fire +5; firebolt cashes it in.
		snaps, err := svc.PreCalculate(ctx, "cast-1", state, []string{"emberseal", "firebolt", "firebolt"})
		require.NoError(t, err)
		require.Len(t, snaps, 3)

		require.Len(t, snaps[0].Resulting.Spell.ActiveModifiers, 1)
		assert.Equal(t, 0.0, snaps[0].Result.FinalDamage)

		assert.Equal(t, 15.0, snaps[1].Result.FinalDamage)
		require.Len(t, snaps[1].Result.ConsumedModifiers, 1)
		assert.Empty(t, snaps[1].Resulting.Spell.ActiveModifiers)

		// Second firebolt sees no modifier.
		assert.Equal(t, 10.0, snaps[2].Result.FinalDamage)
	})

	t.Run("snapshot keys disambiguate repeated cards", func(t *testing.T) {
		svc, _ := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		snaps, err := svc.PreCalculate(ctx, "cast-1", state, []string{"firebolt", "firebolt"})
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, "firebolt_a0_0", snaps[0].ActionKey)
		assert.Equal(t, "firebolt_a0_1", snaps[1].ActionKey)
	})

	t.Run("stores the whole batch in the repository", func(t *testing.T) {
		svc, repo := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		snaps, err := svc.PreCalculate(ctx, "cast-1", state, []string{"kindle", "firebolt"})
		require.NoError(t, err)

		stored, err := repo.GetByCast(ctx, "cast-1")
		require.NoError(t, err)
		assert.Equal(t, snaps, stored)
	})

	t.Run("every snapshot validates", func(t *testing.T) {
		svc, _ := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		snaps, err := svc.PreCalculate(ctx, "cast-1", state,
			[]string{"winters_grip", "emberseal", "arcane_focus", "frostlash", "firebolt", "kindle"})
		require.NoError(t, err)

		for i := range snaps {
			assert.NoError(t, snaps[i].Validate(), "snapshot %d", i)
		}
	})

	t.Run("unknown card fails the whole pre-calculation", func(t *testing.T) {
		svc, repo := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		_, err := svc.PreCalculate(ctx, "cast-1", state, []string{"firebolt", "missing"})
		assert.True(t, errors.IsNotFound(err))

		_, err = repo.GetByCast(ctx, "cast-1")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("state not casting the given cast is rejected", func(t *testing.T) {
		svc, _ := newTestService(t, starterLibrary(t))

		_, err := svc.PreCalculate(ctx, "cast-1", combat.NewGameState(), []string{"firebolt"})
		assert.True(t, errors.IsValidation(err))

		state := castingState(t, "other-cast")
		_, err = svc.PreCalculate(ctx, "cast-1", state, []string{"firebolt"})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("empty submission is rejected", func(t *testing.T) {
		svc, _ := newTestService(t, starterLibrary(t))
		state := castingState(t, "cast-1")

		_, err := svc.PreCalculate(ctx, "cast-1", state, nil)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestPreCalculate_Determinism(t *testing.T) {
	ctx := context.Background()
	played := []string{"winters_grip", "emberseal", "arcane_focus", "frostlash", "firebolt", "kindle"}

	first, _ := newTestService(t, starterLibrary(t))
	second, _ := newTestService(t, starterLibrary(t))

	state := castingState(t, "cast-1")

	got1, err := first.PreCalculate(ctx, "cast-1", state, played)
	require.NoError(t, err)
	got2, err := second.PreCalculate(ctx, "cast-1", state, played)
	require.NoError(t, err)

	assert.Equal(t, got1, got2)
}

func TestPreCalculate_MonotonicIndexAndReplay(t *testing.T) {
	ctx := context.Background()
	played := []string{"winters_grip", "emberseal", "frostlash", "kindle", "firebolt"}

	svc, _ := newTestService(t, starterLibrary(t))
	initial := castingState(t, "cast-1")

	snaps, err := svc.PreCalculate(ctx, "cast-1", initial, played)
	require.NoError(t, err)

	state := initial
	for i := range snaps {
		assert.Equal(t, i+1, snaps[i].Resulting.Spell.ActionIndex, "snapshot %d", i)

		state, err = combat.ApplySnapshot(state, &snaps[i])
		require.NoError(t, err, "snapshot %d", i)
	}

	// Replaying every snapshot in order reproduces the final projection.
	last := snaps[len(snaps)-1]
	assert.Equal(t, last.Resulting.Spell.TotalDamage, state.Spell.TotalDamage)
	assert.Equal(t, last.Resulting.Spell.ElementTotals, state.Spell.ElementTotals)
	assert.Equal(t, last.Resulting.Spell.ActiveModifiers, state.Spell.ActiveModifiers)
	assert.Equal(t, last.Resulting.Effects, state.Effects)
	assert.Equal(t, last.Resulting.Spell.ActionIndex, state.Spell.ActionIndex)
	assert.Equal(t, "cast-1", state.CastID)
}

func TestPreCalculate_Conservation(t *testing.T) {
	ctx := context.Background()
	played := []string{"emberseal", "arcane_focus", "emberseal", "firebolt", "frostlash", "firebolt"}

	library := starterLibrary(t)
	svc, _ := newTestService(t, library)
	initial := castingState(t, "cast-1")

	snaps, err := svc.PreCalculate(ctx, "cast-1", initial, played)
	require.NoError(t, err)

	resolved, err := library.Resolve(played)
	require.NoError(t, err)
	var actions []cards.Action
	for _, card := range resolved {
		actions = append(actions, card.Actions...)
	}
	require.Len(t, snaps, len(actions))

	before := initial.Spell.ActiveModifiers
	for i := range snaps {
		result := snaps[i].Result

		// Remaining must be before-minus-consumed, order preserved. A
		// modifier action consumes nothing and appends exactly its declared
		// modifier.
		expected := subtract(before, result.ConsumedModifiers)
		if actions[i].Type == cards.ActionAddModifier {
			assert.Empty(t, result.ConsumedModifiers, "snapshot %d", i)
			expected = append(expected, *actions[i].Modifier)
		}
		assert.Equal(t, expected, result.RemainingModifiers, "snapshot %d", i)
		assert.Equal(t, result.RemainingModifiers, snaps[i].Resulting.Spell.ActiveModifiers, "snapshot %d", i)

		before = snaps[i].Resulting.Spell.ActiveModifiers
	}
}

// subtract removes each consumed modifier from mods once, preserving order
func subtract(mods, consumed []combat.Modifier) []combat.Modifier {
	var out []combat.Modifier
	used := make([]bool, len(consumed))
outer:
	for _, mod := range mods {
		for i, c := range consumed {
			if !used[i] && assert.ObjectsAreEqual(c, mod) {
				used[i] = true
				continue outer
			}
		}
		out = append(out, mod)
	}
	return out
}

func TestPreCalculate_EffectActions(t *testing.T) {
	ctx := context.Background()

	chill := effects.BuildChillEffect()
	library := cards.NewLibrary()
	require.NoError(t, library.Register(
		cards.NewBuilder("grip", "Grip").AddEffect(chill, effects.StackAdd, 4).Build()))
	require.NoError(t, library.Register(
		cards.NewBuilder("purge", "Purge").AddEffect(chill, effects.StackRemove, 4).Build()))

	svc, _ := newTestService(t, library)
	state := castingState(t, "cast-1")

	snaps, err := svc.PreCalculate(ctx, "cast-1", state, []string{"grip", "purge"})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, 4, snaps[0].Resulting.Effects.StackCount(chill.Type))
	assert.False(t, snaps[1].Resulting.Effects.Has(chill.Type))

	// AppliedAt comes from the cast start, keeping reruns identical.
	inst, ok := snaps[0].Resulting.Effects.Get(chill.Type)
	require.True(t, ok)
	assert.Equal(t, testStart, inst.AppliedAt)
}
