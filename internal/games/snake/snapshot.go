package snake

import "time"

// Snapshot captures the complete game state for rendering, determinism
// testing and replay.
type Snapshot struct {
	Tick      uint64
	Grid      Grid
	Body      []Point // head first
	Direction Direction

	Food    Point
	Kind    FoodKind
	HasFood bool

	Score     int
	HighScore int
	Interval  time.Duration
	Effects   []ActiveEffect

	GameOver bool
	Reason   EndReason
}

// Head returns the head position.
func (s Snapshot) Head() Point {
	if len(s.Body) == 0 {
		return Point{}
	}
	return s.Body[0]
}

// Length returns the number of segments.
func (s Snapshot) Length() int {
	return len(s.Body)
}

// EffectActive reports whether e is among the running effects.
func (s Snapshot) EffectActive(e Effect) bool {
	for _, a := range s.Effects {
		if a.Effect == e {
			return true
		}
	}
	return false
}

// Snapshot returns an independent copy of the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:      g.tick,
		Grid:      g.rules.Grid,
		Body:      g.body.Clone(),
		Direction: g.direction,
		Food:      g.food.Pos,
		Kind:      g.food.Kind,
		HasFood:   g.hasFood,
		Score:     g.score,
		HighScore: g.highScore,
		Interval:  g.interval,
		Effects:   g.effects.List(),
		GameOver:  g.over,
		Reason:    g.reason,
	}
}
