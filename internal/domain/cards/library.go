package cards

import (
	"sync"

	"github.com/hollowmere/spellforge/internal/errors"
)

// Library resolves played-card identifiers to card definitions. Reads far
// outnumber writes; registration normally happens once at startup.
type Library struct {
	mu    sync.RWMutex
	cards map[string]*Card
}

// NewLibrary creates an empty card library
func NewLibrary() *Library {
	return &Library{
		cards: make(map[string]*Card),
	}
}

// Register adds a card definition to the library
func (l *Library) Register(card *Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.cards[card.ID]; exists {
		return errors.Validationf("card %s is already registered", card.ID)
	}

	l.cards[card.ID] = card
	return nil
}

// Get returns the card with the given ID
func (l *Library) Get(id string) (*Card, error) {
	if id == "" {
		return nil, errors.InvalidArgument("card ID is required")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	card, exists := l.cards[id]
	if !exists {
		return nil, errors.NotFoundf("card not found: %s", id)
	}
	return card, nil
}

// Resolve maps an ordered list of played-card IDs to their definitions,
// preserving submission order.
func (l *Library) Resolve(ids []string) ([]*Card, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidArgument("at least one played card is required")
	}

	resolved := make([]*Card, 0, len(ids))
	for _, id := range ids {
		card, err := l.Get(id)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, card)
	}
	return resolved, nil
}
