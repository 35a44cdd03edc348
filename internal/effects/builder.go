package effects

// Builder helps construct effect templates
type Builder struct {
	tmpl *Template
}

// NewBuilder creates a template builder for the given effect type
func NewBuilder(effectType EffectType, name string) *Builder {
	return &Builder{
		tmpl: &Template{
			Type:      effectType,
			Name:      name,
			Decay:     DecayNever,
			MaxStacks: 1,
		},
	}
}

// WithDescription adds a description
func (b *Builder) WithDescription(desc string) *Builder {
	b.tmpl.Description = desc
	return b
}

// WithTrigger sets when the effect's behavior fires
func (b *Builder) WithTrigger(condition TriggerCondition) *Builder {
	b.tmpl.Trigger = condition
	return b
}

// WithDecay sets how the effect loses stacks
func (b *Builder) WithDecay(mode DecayMode) *Builder {
	b.tmpl.Decay = mode
	return b
}

// WithMaxStacks sets the stack cap
func (b *Builder) WithMaxStacks(maxStacks int) *Builder {
	b.tmpl.MaxStacks = maxStacks
	return b
}

// WithPerStackValue sets the value per stack read by scaling damage actions
// and trigger behaviors.
func (b *Builder) WithPerStackValue(value float64) *Builder {
	b.tmpl.PerStackValue = value
	return b
}

// Build returns the constructed template
func (b *Builder) Build() *Template {
	return b.tmpl
}

// Common templates used by the starter card set and tests

// BuildChillEffect creates the frost-scaling Chill effect. It never decays
// on its own; frost damage actions scale off its stack count.
func BuildChillEffect() *Template {
	return NewBuilder("chill", "Chill").
		WithDescription("Frost damage scales with the number of Chill stacks on the target.").
		WithTrigger(TriggerOnDamageDealt).
		WithDecay(DecayNever).
		WithMaxStacks(10).
		WithPerStackValue(1).
		Build()
}

// BuildBurnEffect creates the Burn effect: fires on turn end and burns down
// one stack per trigger.
func BuildBurnEffect() *Template {
	return NewBuilder("burn", "Burn").
		WithDescription("Deals its per-stack value at the end of each turn, then fades by one stack.").
		WithTrigger(TriggerOnTurnEnd).
		WithDecay(DecayReduceByOneOnTrigger).
		WithMaxStacks(5).
		WithPerStackValue(2).
		Build()
}

// BuildWardEffect creates the Ward effect: consumed entirely the first time
// it triggers.
func BuildWardEffect() *Template {
	return NewBuilder("ward", "Ward").
		WithDescription("Absorbs the next incoming trigger, then shatters.").
		WithTrigger(TriggerOnCardPlayed).
		WithDecay(DecayRemoveOnTrigger).
		WithMaxStacks(3).
		Build()
}

// BuildHasteEffect creates the Haste effect: expires at end of turn.
func BuildHasteEffect() *Template {
	return NewBuilder("haste", "Haste").
		WithDescription("Lasts until the end of the turn.").
		WithTrigger(TriggerOnTurnStart).
		WithDecay(DecayEndOfTurn).
		WithMaxStacks(1).
		Build()
}
