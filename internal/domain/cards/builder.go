package cards

import (
	"fmt"

	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/effects"
)

// Builder helps construct cards
type Builder struct {
	card *Card
}

// NewBuilder creates a card builder. Action IDs are derived from the card
// ID and the action's position, so a card's actions key uniquely.
func NewBuilder(id, name string) *Builder {
	return &Builder{
		card: &Card{
			ID:      id,
			Name:    name,
			Actions: []Action{},
		},
	}
}

func (b *Builder) nextActionID() string {
	return fmt.Sprintf("%s_a%d", b.card.ID, len(b.card.Actions))
}

// AddDamage appends a flat damage action
func (b *Builder) AddDamage(element combat.Element, amount float64) *Builder {
	b.card.Actions = append(b.card.Actions, Action{
		ID:      b.nextActionID(),
		Type:    ActionDealDamage,
		Amount:  amount,
		Element: element,
		Scaling: ScalingNone,
	})
	return b
}

// AddScalingDamage appends a damage action whose amount multiplies by the
// current stack count of the named effect.
func (b *Builder) AddScalingDamage(element combat.Element, amountPerStack float64, effectType effects.EffectType) *Builder {
	b.card.Actions = append(b.card.Actions, Action{
		ID:            b.nextActionID(),
		Type:          ActionDealDamage,
		Amount:        amountPerStack,
		Element:       element,
		Scaling:       ScalingPerStack,
		ScalingEffect: effectType,
	})
	return b
}

// AddModifier appends a modifier action
func (b *Builder) AddModifier(modifier combat.Modifier) *Builder {
	b.card.Actions = append(b.card.Actions, Action{
		ID:       b.nextActionID(),
		Type:     ActionAddModifier,
		Modifier: &modifier,
	})
	return b
}

// AddEffect appends a status-effect action
func (b *Builder) AddEffect(tmpl *effects.Template, op effects.StackOp, stacks int) *Builder {
	b.card.Actions = append(b.card.Actions, Action{
		ID:      b.nextActionID(),
		Type:    ActionApplyEffect,
		Effect:  tmpl,
		StackOp: op,
		Stacks:  stacks,
	})
	return b
}

// Build returns the constructed card
func (b *Builder) Build() *Card {
	return b.card
}

// StarterLibrary registers the built-in card set used by the simulator and
// the integration tests.
func StarterLibrary() (*Library, error) {
	chill := effects.BuildChillEffect()
	burn := effects.BuildBurnEffect()

	emberseal, err := combat.NewModifier(combat.ModifierAdd, combat.ElementFire, 5, true)
	if err != nil {
		return nil, err
	}
	focus, err := combat.NewModifier(combat.ModifierMultiply, combat.ElementAny, 2, false)
	if err != nil {
		return nil, err
	}

	library := NewLibrary()
	starter := []*Card{
		NewBuilder("firebolt", "Firebolt").
			AddDamage(combat.ElementFire, 10).
			Build(),
		NewBuilder("winters_grip", "Winter's Grip").
			AddEffect(chill, effects.StackAdd, 2).
			Build(),
		NewBuilder("frostlash", "Frostlash").
			AddScalingDamage(combat.ElementFrost, 3, chill.Type).
			Build(),
		NewBuilder("kindle", "Kindle").
			AddEffect(burn, effects.StackAdd, 2).
			AddDamage(combat.ElementFire, 4).
			Build(),
		NewBuilder("emberseal", "Emberseal").
			AddModifier(emberseal).
			Build(),
		NewBuilder("arcane_focus", "Arcane Focus").
			AddModifier(focus).
			Build(),
	}

	for _, card := range starter {
		if err := library.Register(card); err != nil {
			return nil, err
		}
	}
	return library, nil
}
