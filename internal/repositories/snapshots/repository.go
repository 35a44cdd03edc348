package snapshots

import (
	"context"

	"github.com/hollowmere/spellforge/internal/domain/combat"
)

// Repository stores precomputed snapshots keyed by cast identity. A cast's
// snapshots are written in one batch before any is consumed; readers look
// them up point-wise by action key or in bulk by cast. Casts are evicted
// explicitly on completion or abandonment (implementations may add a TTL
// backstop for casts that are never closed out).
type Repository interface {
	// SaveCast stores every snapshot for a cast in one operation
	SaveCast(ctx context.Context, castID string, snaps []combat.Snapshot) error

	// Get retrieves one snapshot by cast and action key
	Get(ctx context.Context, castID, actionKey string) (*combat.Snapshot, error)

	// GetByCast retrieves all snapshots for a cast in execution order
	GetByCast(ctx context.Context, castID string) ([]combat.Snapshot, error)

	// DeleteCast removes every snapshot belonging to a cast
	DeleteCast(ctx context.Context, castID string) error
}
