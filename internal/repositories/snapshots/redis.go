package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/errors"
)

const (
	snapshotKeyFormat = "cast:%s:snapshot:%s"
	actionsKeyFormat  = "cast:%s:actions"

	// Retention backstop for casts never completed or abandoned. The
	// normal path evicts via DeleteCast.
	defaultRetention = time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client    redis.UniversalClient
	Retention time.Duration
}

type redisRepository struct {
	client    redis.UniversalClient
	retention time.Duration
}

// NewRedisRepository creates a Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisRepoConfig) (Repository, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, errors.InvalidArgument("redis client is required")
	}

	retention := cfg.Retention
	if retention == 0 {
		retention = defaultRetention
	}

	return &redisRepository{
		client:    cfg.Client,
		retention: retention,
	}, nil
}

func snapshotKey(castID, actionKey string) string {
	return fmt.Sprintf(snapshotKeyFormat, castID, actionKey)
}

func actionsKey(castID string) string {
	return fmt.Sprintf(actionsKeyFormat, castID)
}

// SaveCast stores every snapshot for a cast in one pipeline
func (r *redisRepository) SaveCast(ctx context.Context, castID string, snaps []combat.Snapshot) error {
	if castID == "" {
		return errors.InvalidArgument("cast ID is required")
	}
	if len(snaps) == 0 {
		return errors.InvalidArgument("at least one snapshot is required")
	}

	exists, err := r.client.Exists(ctx, actionsKey(castID)).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to check cast %s", castID)
	}
	if exists > 0 {
		return errors.Validationf("snapshots for cast %s already stored", castID)
	}

	pipe := r.client.Pipeline()
	for _, snap := range snaps {
		data, err := json.Marshal(snap)
		if err != nil {
			return errors.Wrapf(err, "failed to serialize snapshot %s", snap.ActionKey)
		}
		pipe.Set(ctx, snapshotKey(castID, snap.ActionKey), string(data), r.retention)
		pipe.RPush(ctx, actionsKey(castID), snap.ActionKey)
	}
	pipe.Expire(ctx, actionsKey(castID), r.retention)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to store snapshots for cast %s", castID)
	}
	return nil
}

// Get retrieves one snapshot by cast and action key
func (r *redisRepository) Get(ctx context.Context, castID, actionKey string) (*combat.Snapshot, error) {
	if castID == "" || actionKey == "" {
		return nil, errors.InvalidArgument("cast ID and action key are required")
	}

	data, err := r.client.Get(ctx, snapshotKey(castID, actionKey)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("snapshot not found: cast %s action %s", castID, actionKey)
		}
		return nil, errors.Wrapf(err, "failed to get snapshot %s for cast %s", actionKey, castID)
	}

	var snap combat.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "failed to deserialize snapshot %s", actionKey)
	}
	return &snap, nil
}

// GetByCast retrieves all snapshots for a cast in execution order
func (r *redisRepository) GetByCast(ctx context.Context, castID string) ([]combat.Snapshot, error) {
	if castID == "" {
		return nil, errors.InvalidArgument("cast ID is required")
	}

	keys, err := r.client.LRange(ctx, actionsKey(castID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list snapshots for cast %s", castID)
	}
	if len(keys) == 0 {
		return nil, errors.NotFoundf("no snapshots stored for cast %s", castID)
	}

	snaps := make([]combat.Snapshot, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			snap, err := r.Get(ctx, castID, key)
			if err != nil {
				return err
			}
			snaps[i] = *snap
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// DeleteCast removes every snapshot belonging to a cast
func (r *redisRepository) DeleteCast(ctx context.Context, castID string) error {
	if castID == "" {
		return errors.InvalidArgument("cast ID is required")
	}

	keys, err := r.client.LRange(ctx, actionsKey(castID), 0, -1).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to list snapshots for cast %s", castID)
	}

	pipe := r.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, snapshotKey(castID, key))
	}
	pipe.Del(ctx, actionsKey(castID))

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete snapshots for cast %s", castID)
	}
	return nil
}
