package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inspector/internal/config"
)

var flagLevelsYAML bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the effective tuning table",
	Long: `Print the balance in effect after every config layer was applied:
embedded defaults, balance file, saved overrides, remote config and
INSPECTOR_* environment variables.

Examples:
  inspector levels
  inspector levels --yaml > my-balance.yaml
  INSPECTOR_LEVELS__HARD__DECAY_RATE=0.5 inspector levels`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagLevelsYAML, "yaml", false, "Print the balance as YAML")
}

func runLevels(cmd *cobra.Command, _ []string) {
	a := mustSetup(cmd)
	defer a.Close()

	b := a.loaded.Balance

	if flagLevelsYAML {
		data, err := config.MarshalYAML(b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		os.Stdout.Write(data)
		return
	}

	fmt.Printf("Balance (sources: %s)\n\n", strings.Join(a.loaded.Sources, " < "))

	fmt.Printf("  %-10s  %6s  %8s  %8s  %8s  %s\n", "Level", "Decay", "Recover", "Wildcard", "Penalty", "Spawn approve/reject/wildcard")
	fmt.Printf("  %-10s  %6s  %8s  %8s  %8s  %s\n", "-----", "-----", "-------", "--------", "-------", "-------------------------")
	for _, l := range config.Levels() {
		t := b.Tuning(l)
		fmt.Printf("  %-10s  %6.2f  %8g  %8g  %8g  %g/%g/%g\n",
			l.Title(), t.DecayRate, t.RecoverOnSuccess, t.RecoverOnWildcard, t.PenaltyOnFail,
			t.Spawn.Approve, t.Spawn.Reject, t.Spawn.Wildcard)
	}

	s := b.Scoring
	fmt.Println()
	fmt.Printf("Points: %d + combo x %d, x%d in fever\n", s.BasePoints, s.ComboBonus, s.FeverMultiplier)
	fmt.Printf("Fever: +%g per stamp, -%g per tick\n", s.FeverGain, s.FeverDecay)
	fmt.Printf("Tick: %dms, drain grows by score / %g\n", s.TickMS, s.AccelDivisor)
	fmt.Printf("Shift delays: success %dms, fail %dms, reject-none %dms\n",
		s.ShiftDelays.SuccessMS, s.ShiftDelays.FailMS, s.ShiftDelays.RejectMS)
}
