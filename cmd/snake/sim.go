package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/sim"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagSimTicks  int
	flagSimRecord bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless game driven by the autopilot",
	Long: `Play one game without a terminal UI. Time is simulated, so thousands
of ticks finish instantly. The same --seed always gives the same game.

With --record the final score goes to the leaderboard and the high score
is persisted, as in a real game.

Examples:
  snake sim --seed 42
  snake sim --difficulty hard --ticks 20000
  snake sim --record`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 10000, "Stop after this many ticks")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save the result to the scores database")
}

func runSim(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "snake-sim")
	if err != nil {
		return err
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	rules, err := loadRules(preset)
	if err != nil {
		return err
	}

	gameID := config.GameID(preset)
	opts := sim.Options{
		Rules:    rules,
		Seed:     seed(),
		MaxTicks: flagSimTicks,
		Logger:   logger,
	}

	var store *storage.Store
	if flagSimRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("error opening scores database: %w", err)
		}
		defer store.Close()
		opts.Store = store.HighScores(gameID)
	} else {
		opts.Store = session.NewMemoryStore(0)
	}

	logger.Debug("starting simulation", "difficulty", preset, "seed", opts.Seed, "ticks", opts.MaxTicks)
	res, err := sim.Run(opts)
	if err != nil {
		return err
	}

	outcome := "tick limit reached"
	if res.GameOver {
		outcome = string(res.Reason)
	}
	fmt.Printf("Difficulty: %s\n", preset)
	fmt.Printf("Seed:       %d\n", opts.Seed)
	fmt.Printf("Ticks:      %d (%s of game time)\n", res.Ticks, res.Elapsed)
	fmt.Printf("Outcome:    %s\n", outcome)
	fmt.Printf("Score:      %d\n", res.Score)
	fmt.Printf("Length:     %d\n", res.Length)
	fmt.Printf("Best:       %d\n", res.HighScore)

	if store != nil && res.Score > 0 {
		if _, err := store.SaveScore(gameID, res.Score); err != nil {
			return fmt.Errorf("error recording score: %w", err)
		}
		fmt.Println("Score recorded.")
	}
	return nil
}
