package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal. Without --difficulty a picker is shown.

Controls:
  Arrows/WASD  - Steer (an arrow also starts the game)
  Enter        - Start
  Space/P      - Pause / resume
  R            - Restart
  Tab          - High scores
  Esc          - Back to the difficulty picker (when not running)
  Q/Ctrl+C     - Quit

Foods:
  *  normal       > speed up     < slow down
  $  double       %  shrink      +  invincible

Difficulty options:
  easy   - Slow start, gentle speed-up
  normal - Classic pace
  hard   - Fast start, steep speed-up
  fixed  - Constant speed, no ramp

Examples:
  snake play
  snake play --difficulty hard
  snake play --config ./my-snake.yaml --log-file snake.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (logs are discarded otherwise)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	// Logging to the terminal would corrupt the alt screen.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, "snake")
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := core.RuntimeConfig{ScreenW: width, ScreenH: height, Seed: seed()}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	fixedPreset := flagDifficulty != ""
	for {
		preset, quit, err := choosePreset(fixedPreset, store, rt)
		if err != nil || quit {
			return err
		}

		back, err := playOnce(preset, store, rt, logger)
		if err != nil {
			return err
		}
		// With --difficulty there is no menu to go back to.
		if !back || fixedPreset {
			return nil
		}
	}
}

// choosePreset returns the --difficulty preset, or runs the picker.
func choosePreset(fixed bool, store *storage.Store, rt core.RuntimeConfig) (config.DifficultyPreset, bool, error) {
	if fixed {
		preset, err := config.ParseDifficulty(flagDifficulty)
		return preset, false, err
	}

	for {
		res, err := tui.RunDifficultyMenu(rt)
		if err != nil {
			return "", true, err
		}
		switch {
		case res.Quit:
			return "", true, nil
		case res.WantsScoreboard:
			if err := tui.RunScoreboard(store, rt.ScreenW, rt.ScreenH); err != nil {
				return "", true, err
			}
		default:
			return res.Preset, false, nil
		}
	}
}

// playOnce runs one session and reports whether the user went back.
func playOnce(preset config.DifficultyPreset, store *storage.Store, rt core.RuntimeConfig, logger *log.Logger) (bool, error) {
	rules, err := loadRules(preset)
	if err != nil {
		return false, err
	}

	ticker := clock.NewTicker()
	defer ticker.Stop()

	gameID := config.GameID(preset)
	opts := session.Options{
		Rules:  rules,
		Seed:   rt.Seed,
		Clock:  ticker,
		Logger: logger.With("difficulty", string(preset)),
	}
	if store != nil {
		opts.Store = store.HighScores(gameID)
	}

	sess, err := session.New(opts)
	if err != nil {
		return false, err
	}
	defer sess.Close()

	logger.Info("starting game", "difficulty", preset, "seed", rt.Seed)
	back, err := tui.Run(tui.PlayOptions{
		Session: sess,
		Store:   store,
		GameID:  gameID,
		Title:   "SNAKE " + string(preset),
		Config:  rt,
		Logger:  logger,
	})
	if err != nil {
		return false, fmt.Errorf("error running game: %w", err)
	}
	return back, nil
}
