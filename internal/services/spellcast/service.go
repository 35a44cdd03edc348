// Package spellcast pre-calculates an entire spell: one deterministic
// forward pass over every action of every played card, producing the
// ordered snapshot list the replay phase consumes verbatim.
package spellcast

import (
	"context"

	"github.com/hollowmere/spellforge/internal/clock"
	"github.com/hollowmere/spellforge/internal/damage"
	"github.com/hollowmere/spellforge/internal/domain/cards"
	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/errors"
	"github.com/hollowmere/spellforge/internal/repositories/snapshots"
)

// Service pre-calculates spell casts
type Service interface {
	// PreCalculate simulates every action of the played cards against the
	// given state and stores the resulting snapshots under the cast ID.
	// This is the only place damage and modifier math runs for a cast;
	// execution replays the stored results.
	PreCalculate(ctx context.Context, castID string, state combat.GameState, playedCardIDs []string) ([]combat.Snapshot, error)
}

// ServiceConfig holds the dependencies for the engine
type ServiceConfig struct {
	Library      *cards.Library
	Repository   snapshots.Repository
	TimeProvider clock.TimeProvider
}

type service struct {
	library      *cards.Library
	repository   snapshots.Repository
	timeProvider clock.TimeProvider
}

// NewService creates a new pre-calculation engine
func NewService(cfg *ServiceConfig) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.Library == nil {
		return nil, errors.InvalidArgument("card library is required")
	}
	if cfg.Repository == nil {
		return nil, errors.InvalidArgument("snapshot repository is required")
	}
	if cfg.TimeProvider == nil {
		return nil, errors.InvalidArgument("time provider is required")
	}

	return &service{
		library:      cfg.Library,
		repository:   cfg.Repository,
		timeProvider: cfg.TimeProvider,
	}, nil
}

func (s *service) PreCalculate(ctx context.Context, castID string, state combat.GameState, playedCardIDs []string) ([]combat.Snapshot, error) {
	if castID == "" {
		return nil, errors.InvalidArgument("cast ID is required")
	}
	if !state.Spell.IsActive || state.CastID != castID {
		return nil, errors.Validationf("state is not casting %s", castID)
	}

	played, err := s.library.Resolve(playedCardIDs)
	if err != nil {
		return nil, err
	}

	// One timestamp for the whole batch; time feeds snapshot metadata
	// only, never the numbers.
	createdAt := s.timeProvider.Now()

	projection := state.Projection()
	var snaps []combat.Snapshot

	for _, card := range played {
		for i := range card.Actions {
			action := &card.Actions[i]

			key := combat.ActionKey(action.ID, projection.ActionIndex())

			result, next, err := s.simulateAction(action, projection)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to simulate action %s", key)
			}

			snaps = append(snaps, combat.Snapshot{
				CastID:    castID,
				ActionKey: key,
				Resulting: next,
				Result:    result,
				CreatedAt: createdAt,
			})

			projection = next
		}
	}

	if len(snaps) == 0 {
		return nil, errors.Validation("played cards declare no actions")
	}

	if err := s.repository.SaveCast(ctx, castID, snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// simulateAction resolves one action against the projection and derives
// the projection the next action runs against. Every slice in the derived
// projection is freshly allocated so earlier snapshots stay immutable.
func (s *service) simulateAction(action *cards.Action, projection combat.Projection) (combat.ActionResult, combat.Projection, error) {
	switch action.Type {
	case cards.ActionDealDamage:
		return s.simulateDamage(action, projection)
	case cards.ActionAddModifier:
		return s.simulateModifier(action, projection)
	case cards.ActionApplyEffect:
		return s.simulateEffect(action, projection)
	default:
		return combat.ActionResult{}, projection, errors.Validationf("action %s has unknown type %q", action.ID, action.Type)
	}
}

func (s *service) simulateDamage(action *cards.Action, projection combat.Projection) (combat.ActionResult, combat.Projection, error) {
	result, err := damage.Calculate(action, projection)
	if err != nil {
		return combat.ActionResult{}, projection, err
	}

	next := clone(projection)
	next.Spell.ActiveModifiers = copyModifiers(result.RemainingModifiers)
	next.Spell.TotalDamage += result.FinalDamage
	next.Spell.ElementTotals = next.Spell.ElementTotals.Add(action.Element, result.FinalDamage)
	next.Spell.ActionIndex++
	return result, next, nil
}

func (s *service) simulateModifier(action *cards.Action, projection combat.Projection) (combat.ActionResult, combat.Projection, error) {
	if action.Modifier == nil {
		return combat.ActionResult{}, projection, errors.Validationf("action %s declares no modifier", action.ID)
	}

	mod, err := combat.NewModifier(action.Modifier.Kind, action.Modifier.Element,
		action.Modifier.Value, action.Modifier.ConsumedOnUse, action.Modifier.Conditions...)
	if err != nil {
		return combat.ActionResult{}, projection, err
	}

	next := clone(projection)
	next.Spell.ActiveModifiers = append(copyModifiers(projection.Spell.ActiveModifiers), mod)
	next.Spell.ActionIndex++

	result := combat.ActionResult{
		ActionID:           action.ID,
		FinalDamage:        0,
		RemainingModifiers: copyModifiers(next.Spell.ActiveModifiers),
	}
	return result, next, nil
}

func (s *service) simulateEffect(action *cards.Action, projection combat.Projection) (combat.ActionResult, combat.Projection, error) {
	// AppliedAt comes from the cast's start time, not the wall clock, so
	// two pre-calculations of the same cast agree on every stored field.
	appliedAt := projection.Spell.StartTime
	if appliedAt == nil {
		return combat.ActionResult{}, projection, errors.Validation("projection has no cast start time")
	}

	effectState, err := projection.Effects.Apply(action.Effect, action.Stacks, action.StackOp, *appliedAt)
	if err != nil {
		return combat.ActionResult{}, projection, err
	}

	next := clone(projection)
	next.Effects = effectState
	next.Spell.ActionIndex++

	result := combat.ActionResult{
		ActionID:           action.ID,
		FinalDamage:        0,
		RemainingModifiers: copyModifiers(next.Spell.ActiveModifiers),
	}
	return result, next, nil
}

func clone(projection combat.Projection) combat.Projection {
	cloned := combat.Projection{
		Spell:   projection.Spell,
		Effects: projection.Effects,
	}
	cloned.Spell.ActiveModifiers = copyModifiers(projection.Spell.ActiveModifiers)
	return cloned
}

func copyModifiers(mods []combat.Modifier) []combat.Modifier {
	if len(mods) == 0 {
		return nil
	}
	copied := make([]combat.Modifier, len(mods))
	copy(copied, mods)
	return copied
}
