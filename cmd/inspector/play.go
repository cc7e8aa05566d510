package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/platform/tui"
	"github.com/vovakirdan/inspector/internal/registry"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a shift",
	Long: `Start a run at the chosen difficulty.

Controls:
  A          - Toggle stamp between approve and reject
  S/Space    - Stamp the document in front of you
  P/Esc      - Pause
  R          - Restart (after game over)
  B          - Back (when paused or after game over)
  Ctrl+S     - Save a screenshot to ~/.inspector/screenshots
  Q/Ctrl+C   - Quit

Difficulty options:
  very-easy, easy, normal, hard

Examples:
  inspector play
  inspector play --difficulty hard
  inspector play --seed 42 --fps 60`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagDifficulty, "difficulty", "d", "normal", "Difficulty: very-easy, easy, normal, hard")
	scoresCmd.Flags().StringVarP(&flagDifficulty, "difficulty", "d", "normal", "Difficulty: very-easy, easy, normal, hard")
}

func runPlay(cmd *cobra.Command, _ []string) {
	level, err := config.ParseLevel(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := mustSetup(cmd)
	defer a.Close()

	game, err := registry.Create(gameID, registry.Options{
		Balance: a.loaded.Balance,
		Level:   level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		return
	}

	if _, err := tui.RunGame(game, a.scores(), runtimeConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
	}
}
