package snapshots

import (
	"context"
	"sync"

	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/errors"
)

type inMemoryRepository struct {
	mu      sync.RWMutex
	byCast  map[string]map[string]combat.Snapshot
	ordered map[string][]string // castID -> action keys in execution order
}

// NewInMemoryRepository creates a new in-memory snapshot repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		byCast:  make(map[string]map[string]combat.Snapshot),
		ordered: make(map[string][]string),
	}
}

// SaveCast stores every snapshot for a cast in one operation
func (r *inMemoryRepository) SaveCast(ctx context.Context, castID string, snaps []combat.Snapshot) error {
	if castID == "" {
		return errors.InvalidArgument("cast ID is required")
	}
	if len(snaps) == 0 {
		return errors.InvalidArgument("at least one snapshot is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCast[castID]; exists {
		return errors.Validationf("snapshots for cast %s already stored", castID)
	}

	keyed := make(map[string]combat.Snapshot, len(snaps))
	order := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		if _, dup := keyed[snap.ActionKey]; dup {
			return errors.Validationf("cast %s has duplicate action key %s", castID, snap.ActionKey)
		}
		keyed[snap.ActionKey] = snap
		order = append(order, snap.ActionKey)
	}

	r.byCast[castID] = keyed
	r.ordered[castID] = order
	return nil
}

// Get retrieves one snapshot by cast and action key
func (r *inMemoryRepository) Get(ctx context.Context, castID, actionKey string) (*combat.Snapshot, error) {
	if castID == "" || actionKey == "" {
		return nil, errors.InvalidArgument("cast ID and action key are required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	keyed, exists := r.byCast[castID]
	if !exists {
		return nil, errors.NotFoundf("no snapshots stored for cast %s", castID)
	}

	snap, exists := keyed[actionKey]
	if !exists {
		return nil, errors.NotFoundf("snapshot not found: cast %s action %s", castID, actionKey)
	}
	return &snap, nil
}

// GetByCast retrieves all snapshots for a cast in execution order
func (r *inMemoryRepository) GetByCast(ctx context.Context, castID string) ([]combat.Snapshot, error) {
	if castID == "" {
		return nil, errors.InvalidArgument("cast ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	keyed, exists := r.byCast[castID]
	if !exists {
		return nil, errors.NotFoundf("no snapshots stored for cast %s", castID)
	}

	snaps := make([]combat.Snapshot, 0, len(keyed))
	for _, key := range r.ordered[castID] {
		snaps = append(snaps, keyed[key])
	}
	return snaps, nil
}

// DeleteCast removes every snapshot belonging to a cast
func (r *inMemoryRepository) DeleteCast(ctx context.Context, castID string) error {
	if castID == "" {
		return errors.InvalidArgument("cast ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byCast, castID)
	delete(r.ordered, castID)
	return nil
}
