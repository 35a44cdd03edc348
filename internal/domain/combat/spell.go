package combat

import (
	"time"
)

// HistoryLimit caps the spell history; the oldest summary is evicted first
const HistoryLimit = 50

// ElementTotals accumulates damage dealt per element. A fixed struct rather
// than a string-keyed bag so a missing or mistyped counter cannot compile.
type ElementTotals struct {
	Physical float64 `json:"physical,omitempty"`
	Fire     float64 `json:"fire,omitempty"`
	Frost    float64 `json:"frost,omitempty"`
	Arcane   float64 `json:"arcane,omitempty"`
	Shadow   float64 `json:"shadow,omitempty"`
}

// Add returns the totals with amount added to the element's counter
func (t ElementTotals) Add(element Element, amount float64) ElementTotals {
	switch element {
	case ElementPhysical:
		t.Physical += amount
	case ElementFire:
		t.Fire += amount
	case ElementFrost:
		t.Frost += amount
	case ElementArcane:
		t.Arcane += amount
	case ElementShadow:
		t.Shadow += amount
	}
	return t
}

// Get returns the counter for an element
func (t ElementTotals) Get(element Element) float64 {
	switch element {
	case ElementPhysical:
		return t.Physical
	case ElementFire:
		return t.Fire
	case ElementFrost:
		return t.Frost
	case ElementArcane:
		return t.Arcane
	case ElementShadow:
		return t.Shadow
	}
	return 0
}

// CastSummary records a finished spell cast in the history
type CastSummary struct {
	CastID      string        `json:"cast_id"`
	TotalDamage float64       `json:"total_damage"`
	Elements    ElementTotals `json:"elements"`
	Actions     int           `json:"actions"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Abandoned   bool          `json:"abandoned,omitempty"`
}

// SpellState tracks the spell currently being cast. Active requires
// StartTime set; inactive requires it absent.
type SpellState struct {
	IsActive        bool          `json:"is_active"`
	ActiveModifiers []Modifier    `json:"active_modifiers,omitempty"`
	ElementTotals   ElementTotals `json:"element_totals"`
	TotalDamage     float64       `json:"total_damage"`
	History         []CastSummary `json:"history,omitempty"`
	StartTime       *time.Time    `json:"start_time,omitempty"`
	ActionIndex     int           `json:"action_index"`
}

// cloneSpellState deep-copies the slices and pointer so derived states
// never share mutable backing storage with their source.
func cloneSpellState(s SpellState) SpellState {
	if len(s.ActiveModifiers) > 0 {
		mods := make([]Modifier, len(s.ActiveModifiers))
		copy(mods, s.ActiveModifiers)
		s.ActiveModifiers = mods
	}
	s.History = cloneHistory(s.History)
	if s.StartTime != nil {
		t := *s.StartTime
		s.StartTime = &t
	}
	return s
}

func cloneHistory(history []CastSummary) []CastSummary {
	if len(history) == 0 {
		return nil
	}
	cloned := make([]CastSummary, len(history))
	copy(cloned, history)
	return cloned
}

// appendHistory appends a summary, evicting the oldest past the cap
func appendHistory(history []CastSummary, summary CastSummary) []CastSummary {
	next := append(cloneHistory(history), summary)
	if len(next) > HistoryLimit {
		next = next[len(next)-HistoryLimit:]
	}
	return next
}
