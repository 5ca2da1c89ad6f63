package snake

import (
	"fmt"
	"time"
)

// Rules configures a game. Build one with DefaultRules or from a loaded
// config and pass it to New.
type Rules struct {
	Grid   Grid
	Origin Point

	InitialInterval time.Duration
	RampStep        time.Duration // passive speed-up per food eaten
	RampFloor       time.Duration // the passive ramp never goes below this

	Effects EffectRules
	Catalog *Catalog
}

// DefaultRules returns a 20x20 board starting at its center at 200ms/tick.
func DefaultRules() Rules {
	return Rules{
		Grid:            Grid{Width: 20, Height: 20},
		Origin:          Point{X: 10, Y: 10},
		InitialInterval: 200 * time.Millisecond,
		RampStep:        5 * time.Millisecond,
		RampFloor:       100 * time.Millisecond,
		Effects:         DefaultEffectRules(),
		Catalog:         DefaultCatalog(),
	}
}

// Validate checks the rules for values the engine cannot run with.
func (r Rules) Validate() error {
	if r.Grid.Width <= 0 || r.Grid.Height <= 0 {
		return invalid("BAD_GRID", "grid %dx%d must be positive", r.Grid.Width, r.Grid.Height)
	}
	if !r.Grid.Contains(r.Origin) {
		return invalid("BAD_ORIGIN", "origin (%d,%d) outside %dx%d grid",
			r.Origin.X, r.Origin.Y, r.Grid.Width, r.Grid.Height)
	}
	if r.InitialInterval <= 0 {
		return invalid("BAD_INTERVAL", "initial interval %v must be positive", r.InitialInterval)
	}
	if r.RampStep < 0 || r.RampFloor <= 0 {
		return invalid("BAD_RAMP", "ramp step %v / floor %v", r.RampStep, r.RampFloor)
	}
	if r.Effects.SpeedUpFloor <= 0 {
		return invalid("BAD_EFFECT", "speed up floor %v must be positive", r.Effects.SpeedUpFloor)
	}
	if r.Catalog == nil {
		return invalid("NO_CATALOG", "rules have no food catalog")
	}
	return nil
}

// EndReason says why a game ended.
type EndReason string

const (
	EndNone      EndReason = ""
	EndCollision EndReason = "collision"
	EndBoardFull EndReason = "board_full"
)

// TickResult reports what one tick did.
type TickResult struct {
	Moved bool
	Ate   bool
	Eaten FoodKind
	// Points awarded this tick after the multiplier.
	Points int

	GameOver bool
	Reason   EndReason

	Interval        time.Duration
	IntervalChanged bool
	NewHighScore    bool
	Expired         []Effect
}

// Game is the simulation aggregate: board, snake, food, score and effects.
// It is not safe for concurrent use; the session serializes access.
type Game struct {
	rules Rules
	rng   RNG

	tick      uint64
	body      Body
	direction Direction // committed on the last tick
	pending   Direction // applied on the next tick

	food    Food
	hasFood bool

	score     int
	highScore int
	interval  time.Duration
	effects   *Effects

	over   bool
	reason EndReason
}

// New creates a game in its initial state.
func New(rules Rules, rng RNG) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("snake: invalid rules: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("snake: nil rng")
	}
	g := &Game{
		rules:   rules,
		rng:     rng,
		effects: NewEffects(rules.Effects),
	}
	g.Reset()
	return g, nil
}

// Reset restores the initial state: one segment at the origin, no
// direction, zero score, the initial interval, no effects and fresh food.
// The high score is kept.
func (g *Game) Reset() {
	g.tick = 0
	g.body = Body{g.rules.Origin}
	g.direction = DirNone
	g.pending = DirNone
	g.score = 0
	g.interval = g.rules.InitialInterval
	g.effects.Reset()
	g.over = false
	g.reason = EndNone
	g.placeFood()
}

// QueueDirection buffers d for the next tick. The reverse of the committed
// direction is rejected, so the snake can never fold onto its neck.
func (g *Game) QueueDirection(d Direction) bool {
	if d < DirUp || d > DirRight {
		return false
	}
	if d == g.direction.Opposite() {
		return false
	}
	g.pending = d
	return true
}

// SetHighScore seeds the high score, usually from persistence.
func (g *Game) SetHighScore(n int) {
	if n > g.highScore {
		g.highScore = n
	}
}

// Interval returns the current tick interval.
func (g *Game) Interval() time.Duration { return g.interval }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// HighScore returns the best score seen.
func (g *Game) HighScore() int { return g.highScore }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Body returns a copy of the snake.
func (g *Game) Body() Body { return g.body.Clone() }

// Food returns the current food and whether one is placed.
func (g *Game) Food() (Food, bool) { return g.food, g.hasFood }

// Effects exposes the effect registry for inspection.
func (g *Game) Effects() *Effects { return g.effects }

// Tick advances the simulation by one step.
func (g *Game) Tick() TickResult {
	if g.over {
		return TickResult{GameOver: true, Reason: g.reason, Interval: g.interval}
	}

	g.tick++
	before := g.interval
	var res TickResult

	// Effects count down by the interval that elapsed since the last tick.
	d, expired := g.effects.Advance(g.interval, g.interval)
	g.interval = d.Interval
	res.Expired = expired

	g.direction = g.pending
	if g.direction == DirNone {
		return g.finish(res, before)
	}

	head := g.rules.Grid.Step(g.body.Head(), g.direction)
	if !g.effects.Invincible() && g.body.Occupied(head) {
		g.end(EndCollision)
		return g.finish(res, before)
	}

	g.body = g.body.pushHead(head)
	res.Moved = true

	if g.hasFood && head == g.food.Pos {
		g.eat(&res)
	} else {
		g.body = g.body.dropTail()
	}

	return g.finish(res, before)
}

// eat consumes the food under the head. The effect lands before scoring so
// a double-points food pays double.
func (g *Game) eat(res *TickResult) {
	kind := g.food.Kind
	res.Ate = true
	res.Eaten = kind

	d := g.effects.Apply(kind.Effect, g.interval)
	g.interval = d.Interval

	if kind.Effect == EffectShrink {
		g.body = g.body.dropTail()
	}

	res.Points = kind.Points * d.Multiplier
	g.score += res.Points
	if g.score > g.highScore {
		g.highScore = g.score
		res.NewHighScore = true
	}

	g.placeFood()

	if !g.effects.SpeedAltered() && g.interval > g.rules.RampFloor {
		g.interval = max(g.rules.RampFloor, g.interval-g.rules.RampStep)
	}
}

func (g *Game) placeFood() {
	food, ok := g.rules.Catalog.Spawn(g.rules.Grid, g.body, g.rng)
	g.food = food
	g.hasFood = ok
	if !ok {
		g.end(EndBoardFull)
	}
}

func (g *Game) end(reason EndReason) {
	g.over = true
	g.reason = reason
}

func (g *Game) finish(res TickResult, before time.Duration) TickResult {
	res.GameOver = g.over
	res.Reason = g.reason
	res.Interval = g.interval
	res.IntervalChanged = g.interval != before
	return res
}
