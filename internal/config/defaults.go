package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: SnakeGrid{
			Width:   20,
			Height:  20,
			OriginX: 10,
			OriginY: 10,
		},
		Speed: SnakeSpeed{
			InitialMs:   200,
			RampStepMs:  5,
			RampFloorMs: 100,
		},
		Effects: SnakeEffects{
			SpeedUp:      SpeedEffect{DurationMs: 5000, DeltaMs: 60, FloorMs: 50},
			SlowDown:     SpeedEffect{DurationMs: 5000, DeltaMs: 100},
			DoublePoints: MultiplierEffect{DurationMs: 10000, Multiplier: 2},
			Invincible:   TimedEffect{DurationMs: 8000},
		},
		Foods: []SnakeFood{
			{ID: "normal", Probability: 0.60, Points: 10, Effect: "none"},
			{ID: "speed_up", Probability: 0.15, Points: 20, Effect: "speed_up"},
			{ID: "slow_down", Probability: 0.10, Points: 15, Effect: "slow_down"},
			{ID: "double_points", Probability: 0.08, Points: 30, Effect: "double_points"},
			{ID: "shrink", Probability: 0.05, Points: 25, Effect: "shrink"},
			{ID: "invincible", Probability: 0.02, Points: 50, Effect: "invincible"},
		},
	}
}
