package cards

import (
	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
)

// ActionType represents what an action does when it executes
type ActionType string

const (
	// ActionDealDamage deals damage of the action's element
	ActionDealDamage ActionType = "deal_damage"

	// ActionAddModifier appends a modifier to the active spell's list
	ActionAddModifier ActionType = "add_modifier"

	// ActionApplyEffect performs a stack operation on a status effect
	ActionApplyEffect ActionType = "apply_effect"
)

// ScalingKind represents how a damage action's base amount is derived
type ScalingKind string

const (
	// ScalingNone uses the declared amount as-is
	ScalingNone ScalingKind = "none"

	// ScalingPerStack multiplies the declared amount by the current stack
	// count of the scaling effect. Zero stacks means zero damage.
	ScalingPerStack ScalingKind = "per_stack"
)

// Action is one atomic effect declaration on a card. Which fields are
// meaningful depends on Type; Validate enforces the per-type requirements.
type Action struct {
	ID   string     `json:"id"`
	Type ActionType `json:"type"`

	// Damage actions
	Amount        float64            `json:"amount,omitempty"`
	Element       combat.Element     `json:"element,omitempty"`
	Scaling       ScalingKind        `json:"scaling,omitempty"`
	ScalingEffect effects.EffectType `json:"scaling_effect,omitempty"`

	// Modifier actions
	Modifier *combat.Modifier `json:"modifier,omitempty"`

	// Status-effect actions
	Effect  *effects.Template `json:"effect,omitempty"`
	StackOp effects.StackOp   `json:"stack_op,omitempty"`
	Stacks  int               `json:"stacks,omitempty"`
}

// Validate checks the action declares everything its type needs
func (a *Action) Validate() error {
	if a == nil {
		return errors.InvalidArgument("action is required")
	}
	if a.ID == "" {
		return errors.Validation("action must have an ID")
	}

	switch a.Type {
	case ActionDealDamage:
		if a.Scaling == ScalingPerStack && a.ScalingEffect == "" {
			return errors.Validationf("action %s scales per stack but names no effect", a.ID)
		}
	case ActionAddModifier:
		if a.Modifier == nil {
			return errors.Validationf("action %s adds a modifier but declares none", a.ID)
		}
	case ActionApplyEffect:
		if a.Effect == nil {
			return errors.Validationf("action %s applies an effect but declares none", a.ID)
		}
		if a.StackOp == "" {
			return errors.Validationf("action %s applies an effect but declares no stack operation", a.ID)
		}
	default:
		return errors.Validationf("action %s has unknown type %q", a.ID, a.Type)
	}
	return nil
}

// Card is an ordered sequence of actions. Card order and intra-card action
// order together define execution order for a spell.
type Card struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// Validate checks the card and all its actions
func (c *Card) Validate() error {
	if c == nil {
		return errors.InvalidArgument("card is required")
	}
	if c.ID == "" {
		return errors.Validation("card must have an ID")
	}
	if len(c.Actions) == 0 {
		return errors.Validationf("card %s declares no actions", c.ID)
	}
	for i := range c.Actions {
		if err := c.Actions[i].Validate(); err != nil {
			return errors.Wrapf(err, "card %s action %d", c.ID, i)
		}
	}
	return nil
}
