package combat

import (
	"github.com/hollowmere/spellforge/internal/errors"
)

// Element represents a damage category
type Element string

const (
	// ElementAny matches every damage category
	ElementAny Element = ""

	ElementPhysical Element = "physical"
	ElementFire     Element = "fire"
	ElementFrost    Element = "frost"
	ElementArcane   Element = "arcane"
	ElementShadow   Element = "shadow"
)

// ModifierKind represents how a modifier adjusts a running damage total
type ModifierKind string

const (
	ModifierAdd      ModifierKind = "add"
	ModifierMultiply ModifierKind = "multiply"
	ModifierSet      ModifierKind = "set"
)

// Condition represents an applicability requirement for a modifier. All of
// a modifier's conditions must hold for it to be eligible.
type Condition struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Modifier is an immutable damage adjustment living in the active spell's
// modifier list until consumed or the spell completes.
type Modifier struct {
	Kind          ModifierKind `json:"kind"`
	Element       Element      `json:"element"`
	Value         float64      `json:"value"`
	ConsumedOnUse bool         `json:"consumed_on_use"`
	Conditions    []Condition  `json:"conditions,omitempty"`
}

// NewModifier constructs a validated modifier. Multiply and Set require a
// positive value; Add may be negative.
func NewModifier(kind ModifierKind, element Element, value float64, consumedOnUse bool, conditions ...Condition) (Modifier, error) {
	switch kind {
	case ModifierAdd:
	case ModifierMultiply, ModifierSet:
		if value <= 0 {
			return Modifier{}, errors.Validationf("%s modifier requires a positive value, got %g", kind, value)
		}
	default:
		return Modifier{}, errors.InvalidArgumentf("unknown modifier kind %q", kind)
	}

	return Modifier{
		Kind:          kind,
		Element:       element,
		Value:         value,
		ConsumedOnUse: consumedOnUse,
		Conditions:    conditions,
	}, nil
}

// AppliesTo reports whether the modifier is eligible for an action dealing
// the given element, under the supplied condition context.
func (m Modifier) AppliesTo(element Element, context map[string]string) bool {
	if m.Element != ElementAny && m.Element != element {
		return false
	}

	for _, cond := range m.Conditions {
		if val, ok := context[cond.Type]; !ok || val != cond.Value {
			return false
		}
	}
	return true
}

// equalModifiers compares two modifier sequences element-wise, order included
func equalModifiers(a, b []Modifier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalModifier(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalModifier(a, b Modifier) bool {
	if a.Kind != b.Kind || a.Element != b.Element || a.Value != b.Value || a.ConsumedOnUse != b.ConsumedOnUse {
		return false
	}
	if len(a.Conditions) != len(b.Conditions) {
		return false
	}
	for i := range a.Conditions {
		if a.Conditions[i] != b.Conditions[i] {
			return false
		}
	}
	return true
}
