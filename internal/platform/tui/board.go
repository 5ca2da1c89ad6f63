package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// Board layout: HUD on row 0, effects on row 1, the framed grid below.
const (
	hudRow     = 0
	effectsRow = 1
	boardTop   = 2
)

type look struct {
	glyph rune
	color core.Color
	label string
}

// looks gives each effect its food glyph, color and status label.
var looks = map[snake.Effect]look{
	snake.EffectNone:         {'*', core.ColorRed, ""},
	snake.EffectSpeedUp:      {'>', core.ColorYellow, "Speed up"},
	snake.EffectSlowDown:     {'<', core.ColorBlue, "Slow down"},
	snake.EffectDoublePoints: {'$', core.ColorBrightYellow, "Double points"},
	snake.EffectShrink:       {'%', core.ColorMagenta, "Shrink"},
	snake.EffectInvincible:   {'+', core.ColorCyan, "Invincible"},
}

func lookFor(e snake.Effect) look {
	if l, ok := looks[e]; ok {
		return l
	}
	return looks[snake.EffectNone]
}

// secondsLeft rounds a remaining duration up to whole seconds.
func secondsLeft(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// DrawBoard renders a snapshot onto the screen and returns the frame
// rectangle of the grid.
func DrawBoard(scr *core.Screen, snap session.Snapshot, title string) core.Rect {
	scr.Clear()

	grid := snap.Grid
	cellW := 2
	if scr.Width() < grid.Width*2+2 {
		cellW = 1
	}

	drawHUD(scr, snap, title)
	drawEffects(scr, snap.Effects)

	frame := core.Centered(scr.Width(), scr.Height(), grid.Width*cellW+2, grid.Height+2, boardTop)
	scr.DrawBox(frame, core.ColorGray)

	inner := frame.Inset(1)
	cell := func(p snake.Point) (int, int) {
		return inner.X + p.X*cellW, inner.Y + p.Y
	}

	if snap.HasFood {
		l := lookFor(snap.Kind.Effect)
		x, y := cell(snap.Food)
		scr.SetColored(x, y, l.glyph, l.color)
	}

	// Tail first so the head is drawn on top.
	for i := len(snap.Body) - 1; i > 0; i-- {
		x, y := cell(snap.Body[i])
		scr.SetColored(x, y, 'o', core.ColorGreen)
	}
	if len(snap.Body) > 0 {
		head, color := 'O', core.ColorBrightGreen
		switch {
		case snap.GameOver:
			head, color = 'X', core.ColorRed
		case snap.EffectActive(snake.EffectInvincible):
			color = core.ColorCyan
		}
		x, y := cell(snap.Head())
		scr.SetColored(x, y, head, color)
	}

	switch snap.State {
	case session.Idle:
		drawOverlay(scr, frame, core.ColorBrightGreen,
			"S N A K E",
			"",
			"enter or an arrow key to start",
			"space/p pause, r restart")
	case session.Paused:
		drawOverlay(scr, frame, core.ColorYellow,
			"PAUSED",
			"",
			"space or p to resume")
	case session.GameOver:
		lines := []string{"GAME OVER", "", reasonText(snap.Reason), fmt.Sprintf("Score: %d", snap.Score)}
		if snap.Score > 0 && snap.Score >= snap.HighScore {
			lines = append(lines, "New high score!")
		}
		lines = append(lines, "", "r to play again")
		drawOverlay(scr, frame, core.ColorRed, lines...)
	}

	return frame
}

func drawHUD(scr *core.Screen, snap session.Snapshot, title string) {
	stats := fmt.Sprintf("  Score %d  High %d  Length %d  %dms",
		snap.Score, snap.HighScore, snap.Length(), snap.Interval.Milliseconds())
	width := utf8.RuneCountInString(title) + utf8.RuneCountInString(stats)
	x := max((scr.Width()-width)/2, 0)

	scr.DrawTextColored(x, hudRow, title, core.ColorBrightGreen)
	scr.DrawText(x+utf8.RuneCountInString(title), hudRow, stats)
}

func drawEffects(scr *core.Screen, active []snake.ActiveEffect) {
	if len(active) == 0 {
		return
	}

	parts := make([]string, len(active))
	for i, a := range active {
		parts[i] = fmt.Sprintf("%s %ds", lookFor(a.Effect).label, secondsLeft(a.Remaining))
	}
	const sep = "   "
	width := utf8.RuneCountInString(strings.Join(parts, sep))
	x := max((scr.Width()-width)/2, 0)

	for i, a := range active {
		scr.DrawTextColored(x, effectsRow, parts[i], lookFor(a.Effect).color)
		x += utf8.RuneCountInString(parts[i]) + len(sep)
	}
}

func reasonText(r snake.EndReason) string {
	switch r {
	case snake.EndCollision:
		return "The snake bit itself"
	case snake.EndBoardFull:
		return "The board is full!"
	default:
		return ""
	}
}

// drawOverlay draws a framed message box centered over area. The first
// line takes the accent color.
func drawOverlay(scr *core.Screen, area core.Rect, accent core.Color, lines ...string) {
	w := 0
	for _, line := range lines {
		w = max(w, utf8.RuneCountInString(line))
	}
	w += 4
	h := len(lines) + 2

	box := core.Centered(area.W, area.H, w, h, 0)
	box.X += area.X
	box.Y += area.Y

	scr.DrawRect(box, ' ')
	scr.DrawBox(box, accent)
	for i, line := range lines {
		color := core.ColorWhite
		if i == 0 {
			color = accent
		}
		x := box.X + (box.W-utf8.RuneCountInString(line))/2
		scr.DrawTextColored(x, box.Y+1+i, line, color)
	}
}
