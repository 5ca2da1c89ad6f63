// Package sim runs headless games on a manual clock with the autopilot at
// the controls. It is used for balancing runs and reproducibility checks.
package sim

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// Options configures a simulation.
type Options struct {
	Rules    snake.Rules
	Seed     int64
	MaxTicks int
	Store    session.HighScoreStore
	Logger   *log.Logger
}

// Result summarizes a finished simulation.
type Result struct {
	Ticks     uint64
	Elapsed   time.Duration // game time, not wall time
	Score     int
	HighScore int
	Length    int
	GameOver  bool
	Reason    snake.EndReason
	Final     session.Snapshot
}

// Run plays one game until it ends or MaxTicks ticks have run.
func Run(opts Options) (Result, error) {
	if opts.MaxTicks <= 0 {
		return Result{}, fmt.Errorf("sim: max ticks must be positive, got %d", opts.MaxTicks)
	}

	clk := clock.NewManual()
	sess, err := session.New(session.Options{
		Rules:  opts.Rules,
		Seed:   opts.Seed,
		Clock:  clk,
		Store:  opts.Store,
		Logger: opts.Logger,
	})
	if err != nil {
		return Result{}, err
	}
	defer sess.Close()

	sess.Start()
	for range opts.MaxTicks {
		snap := sess.Snapshot()
		if snap.State != session.Running {
			break
		}
		sess.PostDirection(snake.Steer(snap.Snapshot))
		if !clk.Step() {
			break
		}
	}

	final := sess.Snapshot()
	return Result{
		Ticks:     final.Tick,
		Elapsed:   clk.Now(),
		Score:     final.Score,
		HighScore: final.HighScore,
		Length:    final.Length(),
		GameOver:  final.State == session.GameOver,
		Reason:    final.Reason,
		Final:     final,
	}, nil
}
