// Package snake implements the rules engine for a wraparound snake game.
// It has no notion of wall-clock time or terminals: the caller advances the
// simulation one tick at a time and reads back a Snapshot to draw.
package snake

// Direction represents a movement intent on the grid.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the per-step offset for the direction.
// Y grows downward, matching screen coordinates.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. DirNone has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Point is a cell coordinate on the grid.
type Point struct {
	X, Y int
}

// Grid is a toroidal board: leaving one edge re-enters on the opposite edge.
type Grid struct {
	Width  int
	Height int
}

// Area returns the number of cells on the board.
func (g Grid) Area() int {
	return g.Width * g.Height
}

// Contains reports whether p lies inside [0,W)x[0,H).
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Wrap normalizes p into the board, per axis.
func (g Grid) Wrap(p Point) Point {
	return Point{X: wrap(p.X, g.Width), Y: wrap(p.Y, g.Height)}
}

// Step returns the cell one move away from p in direction d.
func (g Grid) Step(p Point, d Direction) Point {
	dx, dy := d.Delta()
	return g.Wrap(Point{X: p.X + dx, Y: p.Y + dy})
}

func wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// Occupancy answers whether a cell is taken.
type Occupancy interface {
	Occupied(p Point) bool
}

// Body is the snake, head first. It always has at least one segment while
// a game is in progress.
type Body []Point

// Head returns the first segment.
func (b Body) Head() Point {
	return b[0]
}

// Tail returns the last segment.
func (b Body) Tail() Point {
	return b[len(b)-1]
}

// Occupied reports whether any segment, tail included, sits on p.
func (b Body) Occupied(p Point) bool {
	for _, seg := range b {
		if seg == p {
			return true
		}
	}
	return false
}

// pushHead returns the body with p inserted at the front.
func (b Body) pushHead(p Point) Body {
	b = append(b, Point{})
	copy(b[1:], b)
	b[0] = p
	return b
}

// dropTail returns the body without its last segment. A single segment is
// never removed.
func (b Body) dropTail() Body {
	if len(b) <= 1 {
		return b
	}
	return b[:len(b)-1]
}

// Clone returns an independent copy of the body.
func (b Body) Clone() Body {
	out := make(Body, len(b))
	copy(out, b)
	return out
}
