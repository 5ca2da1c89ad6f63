// Package core provides the terminal-independent building blocks shared by
// the game and the platform layer: a colored character buffer, layout
// rectangles and semantic input actions. It has no Bubble Tea dependency.
package core

// Rect is an axis-aligned area on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// Centered returns a w x h rectangle centered inside an outerW x outerH
// area, with its top edge no higher than minY. Oversized rectangles are
// pinned to the top-left.
func Centered(outerW, outerH, w, h, minY int) Rect {
	x := Clamp((outerW-w)/2, 0, max(outerW-w, 0))
	y := Clamp((outerH-h)/2, minY, max(outerH-h, minY))
	return Rect{X: x, Y: y, W: w, H: h}
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
