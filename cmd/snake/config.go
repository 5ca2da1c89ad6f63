package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the snake configuration that play, serve and sim would use, as
YAML, after the search path and --difficulty are applied. Redirect it to
~/.arcade/configs/snake.yaml to start customizing.

Examples:
  snake config
  snake config --difficulty hard
  snake config --config ./my-snake.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		preset, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		config.ApplySnakePreset(&cfg, preset)
	}

	// Reject a catalog the game would refuse to start with.
	if _, err := snake.RulesFromConfig(cfg); err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
