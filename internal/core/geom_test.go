package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"top-left corner", 10, 10, true},
		{"inside", 12, 12, true},
		{"last cell", 14, 14, true},
		{"right edge is exclusive", 15, 12, false},
		{"bottom edge is exclusive", 12, 15, false},
		{"left of rect", 9, 12, false},
		{"above rect", 12, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	if r.Right() != 40 {
		t.Errorf("Right() = %d, expected 40", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("Bottom() = %d, expected 60", r.Bottom())
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(2, 3, 10, 6).Inset(1)
	if r != (Rect{X: 3, Y: 4, W: 8, H: 4}) {
		t.Errorf("Inset(1) = %+v", r)
	}
	if tiny := NewRect(0, 0, 1, 1).Inset(1); tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset should not go negative: %+v", tiny)
	}
}

func TestCentered(t *testing.T) {
	tests := []struct {
		name                 string
		outerW, outerH, w, h int
		minY                 int
		want                 Rect
	}{
		{"fits", 80, 24, 42, 22, 0, Rect{X: 19, Y: 1, W: 42, H: 22}},
		{"respects header", 80, 24, 42, 10, 8, Rect{X: 19, Y: 8, W: 42, H: 10}},
		{"too wide pins left", 20, 24, 42, 10, 0, Rect{X: 0, Y: 7, W: 42, H: 10}},
		{"too tall pins to header", 80, 10, 42, 22, 2, Rect{X: 19, Y: 2, W: 42, H: 22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Centered(tt.outerW, tt.outerH, tt.w, tt.h, tt.minY); got != tt.want {
				t.Errorf("Centered() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestActionIsDirectional(t *testing.T) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if !a.IsDirectional() {
			t.Errorf("%v should be directional", a)
		}
	}
	for _, a := range []Action{ActionNone, ActionStart, ActionPause, ActionQuit} {
		if a.IsDirectional() {
			t.Errorf("%v should not be directional", a)
		}
	}
}
