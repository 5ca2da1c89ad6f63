// Package config provides YAML-based snake configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// SnakeConfig contains all tunables of the snake rules engine.
type SnakeConfig struct {
	Grid    SnakeGrid    `yaml:"grid"`
	Speed   SnakeSpeed   `yaml:"speed"`
	Effects SnakeEffects `yaml:"effects"`
	Foods   []SnakeFood  `yaml:"foods"`
}

// SnakeGrid defines the board and where the snake starts.
type SnakeGrid struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	OriginX int `yaml:"origin_x"`
	OriginY int `yaml:"origin_y"`
}

// SnakeSpeed defines the tick interval and its passive ramp.
type SnakeSpeed struct {
	InitialMs   int `yaml:"initial_ms"`
	RampStepMs  int `yaml:"ramp_step_ms"` // 0 disables the ramp
	RampFloorMs int `yaml:"ramp_floor_ms"`
}

// SnakeEffects defines the timed effects.
type SnakeEffects struct {
	SpeedUp      SpeedEffect      `yaml:"speed_up"`
	SlowDown     SpeedEffect      `yaml:"slow_down"`
	DoublePoints MultiplierEffect `yaml:"double_points"`
	Invincible   TimedEffect      `yaml:"invincible"`
}

// TimedEffect is an effect that only has a duration.
type TimedEffect struct {
	DurationMs int `yaml:"duration_ms"`
}

// SpeedEffect changes the tick interval while active.
type SpeedEffect struct {
	DurationMs int `yaml:"duration_ms"`
	DeltaMs    int `yaml:"delta_ms"`
	FloorMs    int `yaml:"floor_ms,omitempty"` // speed_up only
}

// MultiplierEffect scales awarded points while active.
type MultiplierEffect struct {
	DurationMs int `yaml:"duration_ms"`
	Multiplier int `yaml:"multiplier"`
}

// SnakeFood is one catalog entry. Effect is one of none, speed_up,
// slow_down, double_points, shrink, invincible.
type SnakeFood struct {
	ID          string  `yaml:"id"`
	Probability float64 `yaml:"probability"`
	Points      int     `yaml:"points"`
	Effect      string  `yaml:"effect"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks structural values. Catalog semantics (one food per
// effect, probabilities summing to 1) are checked when the catalog is built.
func (c SnakeConfig) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d must be positive", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	case c.Grid.OriginX < 0 || c.Grid.OriginX >= c.Grid.Width ||
		c.Grid.OriginY < 0 || c.Grid.OriginY >= c.Grid.Height:
		return fmt.Errorf("%w: origin (%d,%d) outside grid", ErrInvalidConfig, c.Grid.OriginX, c.Grid.OriginY)
	case c.Speed.InitialMs <= 0:
		return fmt.Errorf("%w: speed.initial_ms must be positive", ErrInvalidConfig)
	case c.Speed.RampStepMs < 0 || c.Speed.RampFloorMs <= 0:
		return fmt.Errorf("%w: speed ramp step %d floor %d", ErrInvalidConfig, c.Speed.RampStepMs, c.Speed.RampFloorMs)
	case c.Effects.SpeedUp.FloorMs <= 0:
		return fmt.Errorf("%w: effects.speed_up.floor_ms must be positive", ErrInvalidConfig)
	case c.Effects.SpeedUp.DurationMs < 0 || c.Effects.SlowDown.DurationMs < 0 ||
		c.Effects.DoublePoints.DurationMs < 0 || c.Effects.Invincible.DurationMs < 0:
		return fmt.Errorf("%w: effect durations must not be negative", ErrInvalidConfig)
	case len(c.Foods) == 0:
		return fmt.Errorf("%w: no foods configured", ErrInvalidConfig)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the difficulty presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParseDifficulty validates a preset name. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// Description returns a one-line summary for menus.
func (p DifficultyPreset) Description() string {
	switch p {
	case DifficultyEasy:
		return "Slow start, gentle speed-up"
	case DifficultyNormal:
		return "Classic pace"
	case DifficultyHard:
		return "Fast start, steep speed-up"
	case DifficultyFixed:
		return "Constant speed, no ramp"
	default:
		return ""
	}
}

// GameID returns the leaderboard key for the preset. Each difficulty keeps
// its own scores.
func GameID(p DifficultyPreset) string {
	return "snake_" + string(p)
}
