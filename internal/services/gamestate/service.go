// Package gamestate owns the authoritative game state. All transitions go
// through the pure functions in the combat package; this service adds
// snapshot lookup, cast identity, and eviction of consumed snapshot sets.
package gamestate

import (
	"context"
	"sync"

	"github.com/hollowmere/spellforge/internal/clock"
	"github.com/hollowmere/spellforge/internal/domain/combat"
	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/errors"
	"github.com/hollowmere/spellforge/internal/repositories/snapshots"
	"github.com/hollowmere/spellforge/internal/services/spellcast"
	"github.com/hollowmere/spellforge/internal/uuid"
)

// Service drives the authoritative state through spell casts
type Service interface {
	// Current returns the authoritative state
	Current() combat.GameState

	// BeginCast activates a new cast for the played cards and pre-calculates
	// every snapshot before any action executes. The returned plan is the
	// preview: execution replays exactly these snapshots.
	BeginCast(ctx context.Context, playedCardIDs []string) (*CastPlan, error)

	// ApplyNext applies the precomputed snapshot for the given action key.
	// A lookup miss means pre-calculation and execution fell out of sync
	// and surfaces as a consistency error.
	ApplyNext(ctx context.Context, actionKey string) (combat.GameState, error)

	// CompleteCast closes out the active cast and discards its snapshots
	CompleteCast(ctx context.Context) (combat.GameState, error)

	// AbandonCast drops the active cast, discarding unconsumed snapshots.
	// State already applied from earlier snapshots stands.
	AbandonCast(ctx context.Context) (combat.GameState, error)

	// TriggerEffects fires every status effect matching the condition
	TriggerEffects(condition effects.TriggerCondition, hook effects.TriggerHook) (combat.GameState, error)

	// EndTurn runs the end-of-turn decay sweep
	EndTurn() (combat.GameState, error)
}

// CastPlan is the preview handed to the sequencing layer: the cast
// identity plus its ordered snapshots.
type CastPlan struct {
	CastID    string
	Snapshots []combat.Snapshot
}

// ServiceConfig holds the dependencies for the state service
type ServiceConfig struct {
	Engine        spellcast.Service
	Repository    snapshots.Repository
	UUIDGenerator uuid.Generator
	TimeProvider  clock.TimeProvider

	// Initial seeds the authoritative state; zero value if nil
	Initial *combat.GameState
}

type service struct {
	mu            sync.Mutex
	state         combat.GameState
	engine        spellcast.Service
	repository    snapshots.Repository
	uuidGenerator uuid.Generator
	timeProvider  clock.TimeProvider
}

// NewService creates a new game state service
func NewService(cfg *ServiceConfig) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if cfg.Engine == nil {
		return nil, errors.InvalidArgument("spellcast engine is required")
	}
	if cfg.Repository == nil {
		return nil, errors.InvalidArgument("snapshot repository is required")
	}
	if cfg.UUIDGenerator == nil {
		return nil, errors.InvalidArgument("uuid generator is required")
	}
	if cfg.TimeProvider == nil {
		return nil, errors.InvalidArgument("time provider is required")
	}

	state := combat.NewGameState()
	if cfg.Initial != nil {
		state = *cfg.Initial
	}

	return &service{
		state:         state,
		engine:        cfg.Engine,
		repository:    cfg.Repository,
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
	}, nil
}

func (s *service) Current() combat.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) BeginCast(ctx context.Context, playedCardIDs []string) (*CastPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	castID := s.uuidGenerator.New()

	next, err := combat.ApplyCommand(s.state, combat.BeginCast{
		CastID:    castID,
		StartTime: s.timeProvider.Now(),
	})
	if err != nil {
		return nil, err
	}

	// The state is only committed once pre-calculation succeeds, so a
	// rejected spell leaves no half-started cast behind.
	snaps, err := s.engine.PreCalculate(ctx, castID, next, playedCardIDs)
	if err != nil {
		return nil, err
	}

	s.state = next
	return &CastPlan{CastID: castID, Snapshots: snaps}, nil
}

func (s *service) ApplyNext(ctx context.Context, actionKey string) (combat.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CastID == "" {
		return s.state, errors.Validation("no active cast")
	}

	snap, err := s.repository.Get(ctx, s.state.CastID, actionKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return s.state, errors.Consistencyf("no precomputed snapshot for action %s in cast %s", actionKey, s.state.CastID)
		}
		return s.state, err
	}

	next, err := combat.ApplySnapshot(s.state, snap)
	if err != nil {
		return s.state, err
	}

	s.state = next
	return s.state, nil
}

func (s *service) CompleteCast(ctx context.Context) (combat.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	castID := s.state.CastID

	next, err := combat.ApplyCommand(s.state, combat.CompleteCast{
		CompletedAt: s.timeProvider.Now(),
	})
	if err != nil {
		return s.state, err
	}

	if err := s.repository.DeleteCast(ctx, castID); err != nil {
		return s.state, errors.Wrapf(err, "failed to discard snapshots for cast %s", castID)
	}

	s.state = next
	return s.state, nil
}

func (s *service) AbandonCast(ctx context.Context) (combat.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	castID := s.state.CastID

	next, err := combat.ApplyCommand(s.state, combat.AbandonCast{
		AbandonedAt: s.timeProvider.Now(),
	})
	if err != nil {
		return s.state, err
	}

	if err := s.repository.DeleteCast(ctx, castID); err != nil {
		return s.state, errors.Wrapf(err, "failed to discard snapshots for cast %s", castID)
	}

	s.state = next
	return s.state, nil
}

func (s *service) TriggerEffects(condition effects.TriggerCondition, hook effects.TriggerHook) (combat.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := combat.ApplyCommand(s.state, combat.TriggerEffects{
		Condition: condition,
		Hook:      hook,
	})
	if err != nil {
		return s.state, err
	}

	s.state = next
	return s.state, nil
}

func (s *service) EndTurn() (combat.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := combat.ApplyCommand(s.state, combat.EndTurn{})
	if err != nil {
		return s.state, err
	}

	s.state = next
	return s.state, nil
}
