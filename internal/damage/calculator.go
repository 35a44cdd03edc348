// Package damage computes the outcome of a single damage action against an
// encounter projection. Calculation is pure: callers fold the result into
// the next projection themselves.
package damage

import (
	"github.com/hollowmere/spellforge/internal/domain/cards"
	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/errors"
)

// conditionContext builds the applicability context modifiers match their
// conditions against.
func conditionContext(action *cards.Action) map[string]string {
	return map[string]string{
		"element":     string(action.Element),
		"action_type": string(action.Type),
	}
}

// Calculate resolves a damage action: raw base amount, then every eligible
// modifier in stored order, then the consumed/remaining partition.
//
// Consumed-on-use modifiers are recorded during the pass and removed only
// after it, so a modifier is applied exactly once even when consumed. The
// final amount is not rounded and not clamped; a negative total passes
// through unchanged.
func Calculate(action *cards.Action, projection combat.Projection) (combat.ActionResult, error) {
	if action == nil {
		return combat.ActionResult{}, errors.InvalidArgument("action is required")
	}
	if action.Type != cards.ActionDealDamage {
		return combat.ActionResult{}, errors.InvalidArgumentf("action %s is not a damage action", action.ID)
	}
	if err := action.Validate(); err != nil {
		return combat.ActionResult{}, err
	}

	running := action.Amount
	if action.Scaling == cards.ScalingPerStack {
		running = action.Amount * float64(projection.Effects.StackCount(action.ScalingEffect))
	}

	context := conditionContext(action)
	active := projection.Spell.ActiveModifiers

	var consumed []combat.Modifier
	consumedAt := make(map[int]bool)

	for i, mod := range active {
		if !mod.AppliesTo(action.Element, context) {
			continue
		}

		switch mod.Kind {
		case combat.ModifierAdd:
			running += mod.Value
		case combat.ModifierMultiply:
			running *= mod.Value
		case combat.ModifierSet:
			running = mod.Value
		default:
			return combat.ActionResult{}, errors.Internalf("modifier %d has unknown kind %q", i, mod.Kind)
		}

		if mod.ConsumedOnUse {
			consumedAt[i] = true
			consumed = append(consumed, mod)
		}
	}

	var remaining []combat.Modifier
	for i, mod := range active {
		if !consumedAt[i] {
			remaining = append(remaining, mod)
		}
	}

	return combat.ActionResult{
		ActionID:           action.ID,
		FinalDamage:        running,
		ConsumedModifiers:  consumed,
		RemainingModifiers: remaining,
	}, nil
}
