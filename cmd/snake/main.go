// snake is a terminal snake game with timed power-up foods.
//
// Usage:
//
//	snake play               - Play in this terminal
//	snake scores             - Show high scores
//	snake serve              - Start SSH server for remote play
//	snake sim                - Run a headless game with the autopilot
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/scores.db)
//	--config <path>       - Use a custom snake.yaml
//	--difficulty <name>   - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - a terminal snake game with power-up foods",
	Long: `Snake is played on a wraparound grid. Food comes in six kinds: some
only score, others speed the snake up or slow it down, double your points,
shrink the tail or make the snake invincible for a few seconds.

Available commands:
  play     - Play in this terminal
  scores   - View high scores
  serve    - Start SSH server for remote play
  sim      - Headless game driven by the autopilot
  config   - Print the effective configuration

Examples:
  snake play
  snake play --difficulty hard
  snake scores --tui
  snake serve --ssh :2222
  snake sim --seed 42 --ticks 5000`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom snake config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger creates a logger at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(level)
	return logger, nil
}

// loadConfig reads the snake configuration from --config or the default
// search path.
func loadConfig() (config.SnakeConfig, error) {
	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		return config.SnakeConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.SnakeConfig{}, err
	}
	return cfg, nil
}

// loadRules builds the rules for a difficulty preset.
func loadRules(preset config.DifficultyPreset) (snake.Rules, error) {
	cfg, err := loadConfig()
	if err != nil {
		return snake.Rules{}, err
	}
	return snake.RulesForPreset(cfg, preset)
}

// seed returns --seed, or a time-based seed when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
