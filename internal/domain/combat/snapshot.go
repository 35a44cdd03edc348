package combat

import (
	"fmt"
	"time"

	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
)

// Projection is the read view the simulation operates over: the
// spell-in-progress state plus the status-effect state. It is derived from
// a GameState and folded back in via ApplySnapshot, never owned separately.
type Projection struct {
	Spell   SpellState    `json:"spell"`
	Effects effects.State `json:"effects"`
}

// ActionIndex returns the position of the next action to simulate. The
// index lives in SpellState only; the projection exposes it rather than
// duplicating it.
func (p Projection) ActionIndex() int {
	return p.Spell.ActionIndex
}

// ActionResult is the immutable outcome of one simulated action. It is
// computed exactly once per cast; the replay phase reuses it verbatim.
type ActionResult struct {
	ActionID           string     `json:"action_id"`
	FinalDamage        float64    `json:"final_damage"`
	ConsumedModifiers  []Modifier `json:"consumed_modifiers,omitempty"`
	RemainingModifiers []Modifier `json:"remaining_modifiers,omitempty"`
}

// ActionKey builds the canonical snapshot key. The index disambiguates
// repeated use of the same action definition within one spell. Producer and
// consumer both derive keys from here; there is no fallback scheme.
func ActionKey(actionID string, actionIndex int) string {
	return fmt.Sprintf("%s_%d", actionID, actionIndex)
}

// Snapshot pairs one action's result with the complete projection that
// results from applying it. Snapshots for a whole spell are produced in
// bulk before any action executes.
type Snapshot struct {
	CastID    string       `json:"cast_id"`
	ActionKey string       `json:"action_key"`
	Resulting Projection   `json:"resulting"`
	Result    ActionResult `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks the snapshot is well-formed: both halves present and
// internally consistent. A snapshot failing validation must never be
// applied.
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.InvalidArgument("snapshot is required")
	}
	if s.CastID == "" {
		return errors.Validation("snapshot is missing its cast ID")
	}
	if s.ActionKey == "" {
		return errors.Validation("snapshot is missing its action key")
	}
	if s.Result.ActionID == "" {
		return errors.Validationf("snapshot %s has no action result", s.ActionKey)
	}
	if !equalModifiers(s.Resulting.Spell.ActiveModifiers, s.Result.RemainingModifiers) {
		return errors.Validationf("snapshot %s is inconsistent: resulting modifier list does not match remaining modifiers", s.ActionKey)
	}
	return nil
}
