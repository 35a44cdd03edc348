package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hollowmere/spellforge/internal/config"
	"github.com/hollowmere/spellforge/internal/effects"
	"github.com/hollowmere/spellforge/internal/repositories/snapshots"
	"github.com/hollowmere/spellforge/internal/services"
	"github.com/hollowmere/spellforge/internal/services/gamestate"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	repo, err := buildSnapshotRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to create snapshot repository: %v", err)
	}

	provider, err := services.NewProvider(&services.ProviderConfig{
		SnapshotRepository: repo,
	})
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	runDemoCast(provider.GameStateService)
}

func buildSnapshotRepository(cfg *config.Config) (snapshots.Repository, error) {
	if !cfg.Redis.Enabled {
		log.Println("Using in-memory snapshot store")
		return snapshots.NewInMemoryRepository(), nil
	}

	log.Printf("Using Redis snapshot store at %s", cfg.Redis.Addr)
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return snapshots.NewRedisRepository(&snapshots.RedisRepoConfig{
		Client:    client,
		Retention: cfg.Snapshots.Retention,
	})
}

// runDemoCast plays one spell end to end: build up Chill, seal in a fire
// modifier, then cash both in. The preview printed before execution is the
// exact data execution replays.
func runDemoCast(state gamestate.Service) {
	ctx := context.Background()

	played := []string{"winters_grip", "emberseal", "firebolt", "frostlash"}
	plan, err := state.BeginCast(ctx, played)
	if err != nil {
		log.Fatalf("Failed to begin cast: %v", err)
	}

	log.Printf("Cast %s: %d actions pre-calculated", plan.CastID, len(plan.Snapshots))
	for _, snap := range plan.Snapshots {
		log.Printf("  preview %-16s damage=%6.1f modifiers=%d effects=%d",
			snap.ActionKey, snap.Result.FinalDamage,
			len(snap.Result.RemainingModifiers), len(snap.Resulting.Effects.Instances))
	}

	// A real client paces these with animation; the core applies each
	// step to completion immediately when called.
	for _, snap := range plan.Snapshots {
		next, err := state.ApplyNext(ctx, snap.ActionKey)
		if err != nil {
			log.Fatalf("Failed to apply %s: %v", snap.ActionKey, err)
		}
		log.Printf("  applied %-16s total=%6.1f version=%d",
			snap.ActionKey, next.Spell.TotalDamage, next.Version)
	}

	final, err := state.CompleteCast(ctx)
	if err != nil {
		log.Fatalf("Failed to complete cast: %v", err)
	}

	summary := final.Spell.History[len(final.Spell.History)-1]
	log.Printf("Cast complete: total=%.1f fire=%.1f frost=%.1f actions=%d",
		summary.TotalDamage, summary.Elements.Fire, summary.Elements.Frost, summary.Actions)

	if _, err := state.TriggerEffects(effects.TriggerOnTurnEnd, func(inst effects.Instance) {
		log.Printf("  effect %s fired at %d stacks", inst.Template.Name, inst.Stacks)
	}); err != nil {
		log.Fatalf("Failed to trigger effects: %v", err)
	}

	if _, err := state.EndTurn(); err != nil {
		log.Fatalf("Failed to end turn: %v", err)
	}
}
