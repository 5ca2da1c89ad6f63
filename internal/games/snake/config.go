package snake

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
)

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// RulesFromConfig builds validated rules from a loaded configuration.
// A bad food catalog is reported as a *ValidationError.
func RulesFromConfig(cfg config.SnakeConfig) (Rules, error) {
	if err := cfg.Validate(); err != nil {
		return Rules{}, err
	}

	kinds := make([]FoodKind, 0, len(cfg.Foods))
	for _, f := range cfg.Foods {
		effect, err := ParseEffect(f.Effect)
		if err != nil {
			return Rules{}, invalid("UNKNOWN_EFFECT", "food %q: %v", f.ID, err)
		}
		kinds = append(kinds, FoodKind{
			ID:          f.ID,
			Probability: f.Probability,
			Points:      f.Points,
			Effect:      effect,
		})
	}
	catalog, err := NewCatalog(kinds)
	if err != nil {
		return Rules{}, err
	}

	rules := Rules{
		Grid:            Grid{Width: cfg.Grid.Width, Height: cfg.Grid.Height},
		Origin:          Point{X: cfg.Grid.OriginX, Y: cfg.Grid.OriginY},
		InitialInterval: millis(cfg.Speed.InitialMs),
		RampStep:        millis(cfg.Speed.RampStepMs),
		RampFloor:       millis(cfg.Speed.RampFloorMs),
		Effects: EffectRules{
			SpeedUpDuration:        millis(cfg.Effects.SpeedUp.DurationMs),
			SpeedUpDelta:           millis(cfg.Effects.SpeedUp.DeltaMs),
			SpeedUpFloor:           millis(cfg.Effects.SpeedUp.FloorMs),
			SlowDownDuration:       millis(cfg.Effects.SlowDown.DurationMs),
			SlowDownDelta:          millis(cfg.Effects.SlowDown.DeltaMs),
			DoublePointsDuration:   millis(cfg.Effects.DoublePoints.DurationMs),
			DoublePointsMultiplier: cfg.Effects.DoublePoints.Multiplier,
			InvincibleDuration:     millis(cfg.Effects.Invincible.DurationMs),
		},
		Catalog: catalog,
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("snake: %w", err)
	}
	return rules, nil
}

// RulesForPreset applies a difficulty preset to a copy of cfg and builds
// the rules.
func RulesForPreset(cfg config.SnakeConfig, preset config.DifficultyPreset) (Rules, error) {
	config.ApplySnakePreset(&cfg, preset)
	return RulesFromConfig(cfg)
}
