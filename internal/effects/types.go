package effects

import (
	"time"
)

// EffectType identifies a status effect. At most one live instance of a
// type exists in a State at any time.
type EffectType string

// TriggerCondition represents when an effect's behavior fires
type TriggerCondition string

const (
	TriggerOnDamageDealt TriggerCondition = "on_damage_dealt"
	TriggerOnCardPlayed  TriggerCondition = "on_card_played"
	TriggerOnTurnStart   TriggerCondition = "on_turn_start"
	TriggerOnTurnEnd     TriggerCondition = "on_turn_end"
)

// DecayMode represents how an effect loses stacks over time
type DecayMode string

const (
	DecayNever                DecayMode = "never"
	DecayEndOfTurn            DecayMode = "end_of_turn"
	DecayReduceByOneEndOfTurn DecayMode = "reduce_by_one_end_of_turn"
	DecayReduceByOneOnTrigger DecayMode = "reduce_by_one_on_trigger"
	DecayRemoveOnTrigger      DecayMode = "remove_on_trigger"
)

// StackOp is the operation a status-effect action performs on stacks
type StackOp string

const (
	StackAdd      StackOp = "add"
	StackSet      StackOp = "set"
	StackRemove   StackOp = "remove"
	StackMultiply StackOp = "multiply"
)

// Template defines a status effect: its identity, when it triggers, how it
// decays, and how many stacks it can hold.
type Template struct {
	Type          EffectType       `json:"type"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Trigger       TriggerCondition `json:"trigger"`
	Decay         DecayMode        `json:"decay"`
	MaxStacks     int              `json:"max_stacks"`
	PerStackValue float64          `json:"per_stack_value,omitempty"`
}

// Instance is a live, stack-counted application of a template.
type Instance struct {
	Type      EffectType `json:"type"`
	Stacks    int        `json:"stacks"`
	Template  *Template  `json:"template"`
	AppliedAt time.Time  `json:"applied_at"`
}

// State holds the active status-effect instances in insertion order.
// Insertion order is the selection order for triggers, which keeps a
// simulation pass reproducible. State values are treated as immutable;
// every operation returns a new State.
type State struct {
	Instances []Instance `json:"instances,omitempty"`
}

// StackCount returns the current stacks for a type, 0 if absent
func (s State) StackCount(effectType EffectType) int {
	for _, inst := range s.Instances {
		if inst.Type == effectType {
			return inst.Stacks
		}
	}
	return 0
}

// Has reports whether a live instance of the type exists
func (s State) Has(effectType EffectType) bool {
	return s.StackCount(effectType) > 0
}

// Get returns the live instance of the type, if any
func (s State) Get(effectType EffectType) (Instance, bool) {
	for _, inst := range s.Instances {
		if inst.Type == effectType {
			return inst, true
		}
	}
	return Instance{}, false
}

// ForTrigger returns the instances whose template fires on the given
// condition, in insertion order.
func (s State) ForTrigger(condition TriggerCondition) []Instance {
	matches := []Instance{}
	for _, inst := range s.Instances {
		if inst.Template != nil && inst.Template.Trigger == condition {
			matches = append(matches, inst)
		}
	}
	return matches
}

// Active returns a copy of all live instances in insertion order
func (s State) Active() []Instance {
	active := make([]Instance, len(s.Instances))
	copy(active, s.Instances)
	return active
}

// clone copies the instance list so mutations never leak into the receiver
func (s State) clone() State {
	if len(s.Instances) == 0 {
		return State{}
	}
	instances := make([]Instance, len(s.Instances))
	copy(instances, s.Instances)
	return State{Instances: instances}
}
