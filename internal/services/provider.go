package services

import (
	"github.com/hollowmere/spellforge/internal/clock"
	"github.com/hollowmere/spellforge/internal/domain/cards"
	"github.com/hollowmere/spellforge/internal/repositories/snapshots"
	"github.com/hollowmere/spellforge/internal/services/gamestate"
	"github.com/hollowmere/spellforge/internal/services/spellcast"
	"github.com/hollowmere/spellforge/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	SpellcastService spellcast.Service
	GameStateService gamestate.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Library            *cards.Library
	SnapshotRepository snapshots.Repository
	UUIDGenerator      uuid.Generator
	TimeProvider       clock.TimeProvider
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	// Use in-memory repository if none provided
	repo := cfg.SnapshotRepository
	if repo == nil {
		repo = snapshots.NewInMemoryRepository()
	}

	library := cfg.Library
	if library == nil {
		built, err := cards.StarterLibrary()
		if err != nil {
			return nil, err
		}
		library = built
	}

	uuidGenerator := cfg.UUIDGenerator
	if uuidGenerator == nil {
		uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = clock.NewRealTimeProvider()
	}

	spellcastService, err := spellcast.NewService(&spellcast.ServiceConfig{
		Library:      library,
		Repository:   repo,
		TimeProvider: timeProvider,
	})
	if err != nil {
		return nil, err
	}

	gameStateService, err := gamestate.NewService(&gamestate.ServiceConfig{
		Engine:        spellcastService,
		Repository:    repo,
		UUIDGenerator: uuidGenerator,
		TimeProvider:  timeProvider,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		SpellcastService: spellcastService,
		GameStateService: gameStateService,
	}, nil
}
