package snake

import "testing"

func TestSteerHeadsForFood(t *testing.T) {
	s := Snapshot{
		Grid: Grid{Width: 20, Height: 20},
		Body: []Point{{5, 5}},
		Food: Point{8, 5},
	}
	if got := Steer(s); got != DirRight {
		t.Errorf("Steer() = %v, want right", got)
	}

	// Across the wrap edge is shorter.
	s.Food = Point{18, 5}
	if got := Steer(s); got != DirLeft {
		t.Errorf("Steer() = %v, want left through the edge", got)
	}
}

func TestSteerAvoidsBody(t *testing.T) {
	s := Snapshot{
		Grid:      Grid{Width: 20, Height: 20},
		Body:      loopBody(),
		Direction: DirLeft,
		Food:      Point{5, 10},
	}
	got := Steer(s)
	if got == DirDown || got == DirRight {
		t.Errorf("Steer() = %v, a fatal or reversing move", got)
	}
}

func TestSteerKeepsGameAlive(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 3)
	for range 300 {
		if d := Steer(g.Snapshot()); d != DirNone {
			g.QueueDirection(d)
		}
		if res := g.Tick(); res.GameOver {
			break
		}
	}
	if g.Score() == 0 {
		t.Error("autopilot never ate anything")
	}
}
