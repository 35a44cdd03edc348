package combat

import (
	"time"

	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
)

// GameState is the authoritative, versioned game state. It is never
// mutated in place: transitions go through ApplyCommand or ApplySnapshot,
// which return the next state and leave the prior one untouched on any
// failure path.
type GameState struct {
	Version uint64 `json:"version"`

	// CastID binds the live state to the precomputed snapshot set it is
	// consuming. It is not part of the projection and is explicitly
	// carried over when a snapshot is applied.
	CastID string `json:"cast_id,omitempty"`

	Spell   SpellState    `json:"spell"`
	Effects effects.State `json:"effects"`
}

// NewGameState returns an empty state at version zero
func NewGameState() GameState {
	return GameState{}
}

// Projection derives the simulation read view from the state
func (g GameState) Projection() Projection {
	return Projection{
		Spell:   cloneSpellState(g.Spell),
		Effects: g.Effects,
	}
}

// Command is a state-transition request handled by ApplyCommand
type Command interface {
	commandName() string
}

// BeginCast activates the spell state for a new cast
type BeginCast struct {
	CastID    string
	StartTime time.Time
}

func (BeginCast) commandName() string { return "begin_cast" }

// CompleteCast finishes the active cast: clears the working spell state and
// appends a summary to the history.
type CompleteCast struct {
	CompletedAt time.Time
}

func (CompleteCast) commandName() string { return "complete_cast" }

// AbandonCast drops the active cast. State already applied from earlier
// snapshots stands; only the in-progress spell bookkeeping is cleared.
type AbandonCast struct {
	AbandonedAt time.Time
}

func (AbandonCast) commandName() string { return "abandon_cast" }

// TriggerEffects fires every status effect matching the condition. The
// hook is the caller-visible effect behavior.
type TriggerEffects struct {
	Condition effects.TriggerCondition
	Hook      effects.TriggerHook
}

func (TriggerEffects) commandName() string { return "trigger_effects" }

// EndTurn runs the end-of-turn decay sweep over the status effects
type EndTurn struct{}

func (EndTurn) commandName() string { return "end_turn" }

// ApplyCommand produces the next state from a command. On error the input
// state is returned unchanged; there is no partial application.
func ApplyCommand(state GameState, cmd Command) (GameState, error) {
	if cmd == nil {
		return state, errors.InvalidArgument("command is required")
	}

	switch c := cmd.(type) {
	case BeginCast:
		return applyBeginCast(state, c)
	case CompleteCast:
		return applyCompleteCast(state, c)
	case AbandonCast:
		return applyAbandonCast(state, c)
	case TriggerEffects:
		next := state
		next.Effects = state.Effects.Trigger(c.Condition, c.Hook)
		next.Version++
		return next, nil
	case EndTurn:
		next := state
		next.Effects = state.Effects.Decay(effects.DecayEndOfTurn).Decay(effects.DecayReduceByOneEndOfTurn)
		next.Version++
		return next, nil
	default:
		return state, errors.InvalidArgumentf("unknown command %q", cmd.commandName())
	}
}

func applyBeginCast(state GameState, cmd BeginCast) (GameState, error) {
	if cmd.CastID == "" {
		return state, errors.InvalidArgument("begin cast requires a cast ID")
	}
	if cmd.StartTime.IsZero() {
		return state, errors.InvalidArgument("begin cast requires a start time")
	}
	if state.Spell.IsActive {
		return state, errors.Validation("a spell is already being cast")
	}

	start := cmd.StartTime
	next := state
	next.CastID = cmd.CastID
	next.Spell = SpellState{
		IsActive:  true,
		History:   cloneHistory(state.Spell.History),
		StartTime: &start,
	}
	next.Version++
	return next, nil
}

func applyCompleteCast(state GameState, cmd CompleteCast) (GameState, error) {
	if !state.Spell.IsActive || state.Spell.StartTime == nil {
		return state, errors.Validation("no spell is being cast")
	}

	summary := CastSummary{
		CastID:      state.CastID,
		TotalDamage: state.Spell.TotalDamage,
		Elements:    state.Spell.ElementTotals,
		Actions:     state.Spell.ActionIndex,
		StartedAt:   *state.Spell.StartTime,
		CompletedAt: cmd.CompletedAt,
	}

	next := state
	next.CastID = ""
	next.Spell = SpellState{
		History: appendHistory(state.Spell.History, summary),
	}
	next.Version++
	return next, nil
}

func applyAbandonCast(state GameState, cmd AbandonCast) (GameState, error) {
	if !state.Spell.IsActive || state.Spell.StartTime == nil {
		return state, errors.Validation("no spell is being cast")
	}

	summary := CastSummary{
		CastID:      state.CastID,
		TotalDamage: state.Spell.TotalDamage,
		Elements:    state.Spell.ElementTotals,
		Actions:     state.Spell.ActionIndex,
		StartedAt:   *state.Spell.StartTime,
		CompletedAt: cmd.AbandonedAt,
		Abandoned:   true,
	}

	next := state
	next.CastID = ""
	next.Spell = SpellState{
		History: appendHistory(state.Spell.History, summary),
	}
	next.Version++
	return next, nil
}

// ApplySnapshot folds a precomputed snapshot into the state: the spell and
// status-effect slices are replaced by the snapshot's resulting projection.
// Fields carried over from the prior state, by name: CastID (the identity
// token binding the state to its snapshot set), Spell.History and
// Spell.StartTime (authoritative bookkeeping, not per-action simulation
// output). Applying out of order or against the wrong cast is a
// consistency error.
func ApplySnapshot(state GameState, snap *Snapshot) (GameState, error) {
	if err := snap.Validate(); err != nil {
		return state, err
	}
	if state.CastID == "" || !state.Spell.IsActive {
		return state, errors.Validation("no active cast to apply a snapshot to")
	}
	if snap.CastID != state.CastID {
		return state, errors.Consistencyf("snapshot %s belongs to cast %s, state is consuming cast %s",
			snap.ActionKey, snap.CastID, state.CastID)
	}
	if snap.Resulting.Spell.ActionIndex != state.Spell.ActionIndex+1 {
		return state, errors.Consistencyf("snapshot %s advances to action index %d, state is at %d",
			snap.ActionKey, snap.Resulting.Spell.ActionIndex, state.Spell.ActionIndex)
	}

	next := state
	next.Spell = cloneSpellState(snap.Resulting.Spell)
	next.Spell.History = cloneHistory(state.Spell.History)
	next.Spell.StartTime = state.Spell.StartTime
	next.Effects = snap.Resulting.Effects
	next.CastID = state.CastID
	next.Version++
	return next, nil
}
