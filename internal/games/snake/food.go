package snake

import (
	"fmt"
	"math"
)

// Effect tags what eating a food does beyond awarding points.
type Effect int

const (
	EffectNone Effect = iota
	EffectSpeedUp
	EffectSlowDown
	EffectDoublePoints
	EffectShrink
	EffectInvincible

	effectCount
)

var effectNames = [effectCount]string{
	EffectNone:         "none",
	EffectSpeedUp:      "speed_up",
	EffectSlowDown:     "slow_down",
	EffectDoublePoints: "double_points",
	EffectShrink:       "shrink",
	EffectInvincible:   "invincible",
}

func (e Effect) String() string {
	if e < 0 || e >= effectCount {
		return "unknown"
	}
	return effectNames[e]
}

// ParseEffect maps a config tag such as "speed_up" to its Effect.
func ParseEffect(s string) (Effect, error) {
	for i, name := range effectNames {
		if name == s {
			return Effect(i), nil
		}
	}
	return EffectNone, fmt.Errorf("snake: unknown effect %q", s)
}

// Timed reports whether the effect stays active for a duration.
// Shrink and none are instantaneous.
func (e Effect) Timed() bool {
	switch e {
	case EffectSpeedUp, EffectSlowDown, EffectDoublePoints, EffectInvincible:
		return true
	default:
		return false
	}
}

// AltersSpeed reports whether the effect changes the tick interval.
func (e Effect) AltersSpeed() bool {
	return e == EffectSpeedUp || e == EffectSlowDown
}

// FoodKind describes one entry of the food catalog.
type FoodKind struct {
	ID          string
	Probability float64
	Points      int
	Effect      Effect
}

// Food is a placed item on the board.
type Food struct {
	Pos  Point
	Kind FoodKind
}

// ValidationError describes a catalog or rules misconfiguration.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

const probabilityTolerance = 1e-9

// DefaultFoodKinds returns the stock catalog in selection order.
func DefaultFoodKinds() []FoodKind {
	return []FoodKind{
		{ID: "normal", Probability: 0.60, Points: 10, Effect: EffectNone},
		{ID: "speed_up", Probability: 0.15, Points: 20, Effect: EffectSpeedUp},
		{ID: "slow_down", Probability: 0.10, Points: 15, Effect: EffectSlowDown},
		{ID: "double_points", Probability: 0.08, Points: 30, Effect: EffectDoublePoints},
		{ID: "shrink", Probability: 0.05, Points: 25, Effect: EffectShrink},
		{ID: "invincible", Probability: 0.02, Points: 50, Effect: EffectInvincible},
	}
}

// Catalog is the validated, immutable set of food kinds.
type Catalog struct {
	kinds    []FoodKind
	fallback FoodKind
}

// NewCatalog validates kinds and builds a catalog. Exactly one kind per
// effect tag is required and probabilities must sum to 1.
func NewCatalog(kinds []FoodKind) (*Catalog, error) {
	if len(kinds) != int(effectCount) {
		return nil, invalid("CATALOG_SIZE", "expected %d food kinds, got %d", effectCount, len(kinds))
	}

	ids := make(map[string]bool, len(kinds))
	var seen [effectCount]bool
	sum := 0.0
	for i, k := range kinds {
		if k.ID == "" {
			return nil, invalid("EMPTY_ID", "food kind %d has no id", i)
		}
		if ids[k.ID] {
			return nil, invalid("DUPLICATE_ID", "food id %q appears more than once", k.ID)
		}
		ids[k.ID] = true

		if k.Effect < 0 || k.Effect >= effectCount {
			return nil, invalid("UNKNOWN_EFFECT", "food %q has unknown effect %d", k.ID, k.Effect)
		}
		if seen[k.Effect] {
			return nil, invalid("DUPLICATE_EFFECT", "effect %s is used by more than one food", k.Effect)
		}
		seen[k.Effect] = true

		if math.IsNaN(k.Probability) || k.Probability < 0 || k.Probability > 1 {
			return nil, invalid("BAD_PROBABILITY", "food %q probability %v outside [0,1]", k.ID, k.Probability)
		}
		if k.Points < 0 {
			return nil, invalid("BAD_POINTS", "food %q has negative points %d", k.ID, k.Points)
		}
		sum += k.Probability
	}

	for e := Effect(0); e < effectCount; e++ {
		if !seen[e] {
			return nil, invalid("MISSING_EFFECT", "no food carries effect %s", e)
		}
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return nil, invalid("BAD_SUM", "probabilities sum to %v, want 1", sum)
	}

	c := &Catalog{kinds: make([]FoodKind, len(kinds))}
	copy(c.kinds, kinds)
	for _, k := range c.kinds {
		if k.Effect == EffectNone {
			c.fallback = k
		}
	}
	return c, nil
}

// DefaultCatalog returns the stock catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultFoodKinds())
	if err != nil {
		panic(err)
	}
	return c
}

// Kinds returns a copy of the catalog entries in selection order.
func (c *Catalog) Kinds() []FoodKind {
	out := make([]FoodKind, len(c.kinds))
	copy(out, c.kinds)
	return out
}

// Fallback returns the kind with no effect.
func (c *Catalog) Fallback() FoodKind {
	return c.fallback
}

// Pick walks the catalog accumulating probability and returns the first
// kind whose cumulative mass reaches r. Rounding gaps fall back to the
// no-effect kind.
func (c *Catalog) Pick(r float64) FoodKind {
	cumulative := 0.0
	for _, k := range c.kinds {
		cumulative += k.Probability
		if r <= cumulative {
			return k
		}
	}
	return c.fallback
}

// Spawn places a new food on a free cell and selects its kind.
// Positions are rejection-sampled first; after 2*area misses the free cells
// are enumerated and one is chosen uniformly. ok is false when the board has
// no free cell.
func (c *Catalog) Spawn(grid Grid, occupied Occupancy, rng RNG) (Food, bool) {
	pos, ok := freeCell(grid, occupied, rng)
	if !ok {
		return Food{}, false
	}
	return Food{Pos: pos, Kind: c.Pick(rng.Float64())}, true
}

func freeCell(grid Grid, occupied Occupancy, rng RNG) (Point, bool) {
	if grid.Area() <= 0 {
		return Point{}, false
	}

	for range 2 * grid.Area() {
		p := Point{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
		if !occupied.Occupied(p) {
			return p, true
		}
	}

	var free []Point
	for y := range grid.Height {
		for x := range grid.Width {
			p := Point{X: x, Y: y}
			if !occupied.Occupied(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Point{}, false
	}
	return free[rng.Intn(len(free))], true
}
