package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/platform/tui"
	"github.com/vovakirdan/inspector/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a difficulty, play, repeat",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a difficulty, Enter to start or 1-4 for a
direct pick. Tab opens the scoreboard. After a run, press B to come back.

Examples:
  inspector menu
  inspector menu --fps 60
  inspector menu --db ./inspector.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	a := mustSetup(cmd)
	defer a.Close()

	cfg := runtimeConfig()
	level := config.LevelNormal

	for {
		menuResult, err := tui.RunMenu(a.loaded.Balance, a.scores(), gameID, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(a.scores(), gameID, level, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return
		}

		level = menuResult.Level
		game, err := registry.Create(gameID, registry.Options{
			Balance: a.loaded.Balance,
			Level:   level,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			return
		}

		result, err := tui.RunGame(game, a.scores(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			return
		}
		cfg = result.Config
		if !result.BackToMenu {
			return
		}
	}
}
