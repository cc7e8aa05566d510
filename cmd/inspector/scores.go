package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/inspector/internal/config"
)

var flagScoresClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores for a difficulty",
	Long: `Display the top 10 runs for the chosen difficulty, followed by a
summary of every difficulty.

Examples:
  inspector scores
  inspector scores --difficulty hard
  inspector scores --difficulty easy --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the recorded runs for the difficulty")
}

func runScores(cmd *cobra.Command, _ []string) {
	level, err := config.ParseLevel(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := mustSetup(cmd)
	defer a.Close()

	store := a.store
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: scores database is not available")
		return
	}

	if flagScoresClear {
		if err := store.ClearScores(gameID, string(level)); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared %s scores.\n", level.Title())
		return
	}

	scores, err := store.TopScores(gameID, string(level), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", level.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'inspector play --difficulty %s' to set the first high score!\n", string(level))
	} else {
		fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "Rank", "Score", "Combo", "Date")
		fmt.Printf("  %-4s  %-10s  %-5s  %s\n", "----", "-----", "-----", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-10s  %-5d  %s\n",
				i+1, humanize.Comma(int64(entry.Score)), entry.MaxCombo,
				entry.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	stats, err := store.Stats(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("  %-10s  %5s  %10s  %10s  %5s  %s\n", "Level", "Runs", "Best", "Average", "Combo", "Last played")
	for _, l := range config.Levels() {
		st, ok := stats[string(l)]
		if !ok {
			continue
		}
		fmt.Printf("  %-10s  %5d  %10s  %10s  %5d  %s\n",
			l.Title(), st.Runs,
			humanize.Comma(int64(st.HighScore)), humanize.Comma(int64(st.AvgScore)),
			st.BestCombo, humanize.Time(st.LastPlayed))
	}
}
