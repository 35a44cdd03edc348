package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
)

func TestLibrary(t *testing.T) {
	t.Run("registers and resolves in submission order", func(t *testing.T) {
		library := NewLibrary()
		require.NoError(t, library.Register(NewBuilder("fb", "Firebolt").AddDamage(combat.ElementFire, 10).Build()))
		require.NoError(t, library.Register(NewBuilder("fl", "Frostlash").AddDamage(combat.ElementFrost, 3).Build()))

		resolved, err := library.Resolve([]string{"fl", "fb", "fl"})
		require.NoError(t, err)
		require.Len(t, resolved, 3)
		assert.Equal(t, "fl", resolved[0].ID)
		assert.Equal(t, "fb", resolved[1].ID)
		assert.Equal(t, "fl", resolved[2].ID)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		library := NewLibrary()
		card := NewBuilder("fb", "Firebolt").AddDamage(combat.ElementFire, 10).Build()
		require.NoError(t, library.Register(card))

		err := library.Register(card)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("unknown card is a not found error", func(t *testing.T) {
		library := NewLibrary()
		_, err := library.Get("missing")
		assert.True(t, errors.IsNotFound(err))

		_, err = library.Resolve([]string{"missing"})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("empty submission is rejected", func(t *testing.T) {
		library := NewLibrary()
		_, err := library.Resolve(nil)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestCardValidate(t *testing.T) {
	t.Run("card requires actions", func(t *testing.T) {
		err := (&Card{ID: "empty", Name: "Empty"}).Validate()
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("modifier action requires a modifier", func(t *testing.T) {
		card := &Card{
			ID:   "broken",
			Name: "Broken",
			Actions: []Action{
				{ID: "broken_a0", Type: ActionAddModifier},
			},
		}
		assert.True(t, errors.IsValidation(card.Validate()))
	})

	t.Run("effect action requires template and stack op", func(t *testing.T) {
		card := &Card{
			ID:   "broken",
			Name: "Broken",
			Actions: []Action{
				{ID: "broken_a0", Type: ActionApplyEffect, Effect: effects.BuildChillEffect()},
			},
		}
		assert.True(t, errors.IsValidation(card.Validate()))
	})

	t.Run("per-stack damage requires a scaling effect", func(t *testing.T) {
		card := &Card{
			ID:   "broken",
			Name: "Broken",
			Actions: []Action{
				{ID: "broken_a0", Type: ActionDealDamage, Amount: 3, Scaling: ScalingPerStack},
			},
		}
		assert.True(t, errors.IsValidation(card.Validate()))
	})
}

func TestStarterLibrary(t *testing.T) {
	library, err := StarterLibrary()
	require.NoError(t, err)

	for _, id := range []string{"firebolt", "winters_grip", "frostlash", "kindle", "emberseal", "arcane_focus"} {
		card, err := library.Get(id)
		require.NoError(t, err, "card %s", id)
		assert.NoError(t, card.Validate())
	}

	t.Run("action IDs are unique within a card", func(t *testing.T) {
		kindle, err := library.Get("kindle")
		require.NoError(t, err)
		require.Len(t, kindle.Actions, 2)
		assert.NotEqual(t, kindle.Actions[0].ID, kindle.Actions[1].ID)
	})
}
