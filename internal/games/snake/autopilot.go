package snake

// Steer picks a direction for a computer-driven snake. It heads for the
// food along the shortest wrapped path and avoids cells that would end the
// game, preferring moves that keep the most open space reachable.
// It returns DirNone when every move is fatal.
func Steer(s Snapshot) Direction {
	if len(s.Body) == 0 {
		return DirNone
	}

	body := Body(s.Body)
	head := body.Head()
	invincible := s.EffectActive(EffectInvincible)

	best := DirNone
	bestSpace, bestDist := -1, 0
	for _, d := range []Direction{DirUp, DirRight, DirDown, DirLeft} {
		if s.Direction != DirNone && d == s.Direction.Opposite() {
			continue
		}
		next := s.Grid.Step(head, d)
		if !invincible && body.Occupied(next) {
			continue
		}

		space := reachable(s.Grid, body, next, len(body)+1)
		dist := wrappedDistance(s.Grid, next, s.Food)
		if space > bestSpace || (space == bestSpace && dist < bestDist) {
			best, bestSpace, bestDist = d, space, dist
		}
	}
	return best
}

// reachable counts free cells reachable from start, stopping at limit.
func reachable(grid Grid, body Body, start Point, limit int) int {
	seen := map[Point]bool{start: true}
	queue := []Point{start}
	for len(queue) > 0 && len(seen) < limit {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []Direction{DirUp, DirRight, DirDown, DirLeft} {
			n := grid.Step(p, d)
			if seen[n] || body.Occupied(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return min(len(seen), limit)
}

func wrappedDistance(grid Grid, a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	return min(dx, grid.Width-dx) + min(dy, grid.Height-dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
