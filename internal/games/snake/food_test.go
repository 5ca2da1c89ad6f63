package snake

import (
	"errors"
	"math"
	"testing"
)

// fixedRNG always returns the same values.
type fixedRNG struct {
	n int
	f float64
}

func (r fixedRNG) Intn(n int) int   { return r.n % n }
func (r fixedRNG) Float64() float64 { return r.f }

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := NewCatalog(DefaultFoodKinds())
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	if c.Fallback().Effect != EffectNone || c.Fallback().ID != "normal" {
		t.Errorf("fallback = %+v, want normal", c.Fallback())
	}
	if len(c.Kinds()) != 6 {
		t.Errorf("expected 6 kinds, got %d", len(c.Kinds()))
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]FoodKind) []FoodKind
		code   string
	}{
		{"too few kinds", func(k []FoodKind) []FoodKind { return k[:5] }, "CATALOG_SIZE"},
		{"empty id", func(k []FoodKind) []FoodKind { k[2].ID = ""; return k }, "EMPTY_ID"},
		{"duplicate id", func(k []FoodKind) []FoodKind { k[1].ID = "normal"; return k }, "DUPLICATE_ID"},
		{"duplicate effect", func(k []FoodKind) []FoodKind { k[1].Effect = EffectShrink; return k }, "DUPLICATE_EFFECT"},
		{"negative probability", func(k []FoodKind) []FoodKind { k[0].Probability = -0.1; return k }, "BAD_PROBABILITY"},
		{"probability above one", func(k []FoodKind) []FoodKind { k[0].Probability = 1.5; return k }, "BAD_PROBABILITY"},
		{"sum not one", func(k []FoodKind) []FoodKind { k[0].Probability = 0.5; return k }, "BAD_SUM"},
		{"negative points", func(k []FoodKind) []FoodKind { k[3].Points = -1; return k }, "BAD_POINTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.mutate(DefaultFoodKinds()))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Code != tt.code {
				t.Errorf("code = %s, want %s", verr.Code, tt.code)
			}
		})
	}
}

func TestCatalogPick(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		r    float64
		want string
	}{
		{0.0, "normal"},
		{0.5, "normal"},
		{0.7, "speed_up"},
		{0.8, "slow_down"},
		{0.9, "double_points"},
		{0.95, "shrink"},
		{0.99, "invincible"},
		{2.0, "normal"}, // outside the mass falls back
	}

	for _, tt := range tests {
		if got := c.Pick(tt.r).ID; got != tt.want {
			t.Errorf("Pick(%v) = %s, want %s", tt.r, got, tt.want)
		}
	}
}

func TestCatalogPickDistribution(t *testing.T) {
	c := DefaultCatalog()
	rng := NewRNG(7)
	counts := map[string]int{}
	const draws = 100000
	for range draws {
		counts[c.Pick(rng.Float64()).ID]++
	}

	for _, k := range c.Kinds() {
		got := float64(counts[k.ID]) / draws
		if math.Abs(got-k.Probability) > 0.01 {
			t.Errorf("%s frequency %.3f, want about %.2f", k.ID, got, k.Probability)
		}
	}
}

func TestSpawnNeverOnSnake(t *testing.T) {
	c := DefaultCatalog()
	grid := Grid{Width: 5, Height: 5}
	rng := NewRNG(999)

	// Fill all but the last row.
	var body Body
	for y := range 4 {
		for x := range 5 {
			body = append(body, Point{x, y})
		}
	}

	for range 200 {
		food, ok := c.Spawn(grid, body, rng)
		if !ok {
			t.Fatal("spawn failed with free cells left")
		}
		if body.Occupied(food.Pos) {
			t.Fatalf("food spawned on snake at %v", food.Pos)
		}
		if !grid.Contains(food.Pos) {
			t.Fatalf("food spawned out of bounds at %v", food.Pos)
		}
	}
}

func TestSpawnFallbackScan(t *testing.T) {
	c := DefaultCatalog()
	grid := Grid{Width: 3, Height: 3}
	// Sampling always hits (0,0), which is occupied.
	body := Body{{0, 0}, {1, 0}}
	food, ok := c.Spawn(grid, body, fixedRNG{n: 0, f: 0.99})

	if !ok {
		t.Fatal("expected fallback to find a cell")
	}
	if food.Pos != (Point{2, 0}) {
		t.Errorf("food at %v, want first free cell (2,0)", food.Pos)
	}
	if food.Kind.ID != "invincible" {
		t.Errorf("kind = %s, want invincible", food.Kind.ID)
	}
}

func TestSpawnFullBoard(t *testing.T) {
	c := DefaultCatalog()
	grid := Grid{Width: 2, Height: 2}
	body := Body{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	if _, ok := c.Spawn(grid, body, NewRNG(1)); ok {
		t.Error("spawn should fail on a full board")
	}
}

func TestParseEffect(t *testing.T) {
	for e := Effect(0); e < effectCount; e++ {
		got, err := ParseEffect(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEffect(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseEffect("teleport"); err == nil {
		t.Error("expected error for unknown effect")
	}
}
