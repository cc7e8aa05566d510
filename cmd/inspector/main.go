// inspector is a terminal arcade game: stamp the documents in the queue
// before the timer runs out.
//
// Usage:
//
//	inspector play               - Play at the chosen difficulty
//	inspector menu               - Pick a difficulty interactively
//	inspector levels             - Print the effective tuning table
//	inspector scores             - Show high scores for a difficulty
//	inspector balance            - Open the password-gated balance panel
//	inspector serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>     - Set frame rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible runs
//	--db <path>      - Set database path (default: ~/.inspector/inspector.db)
//	--config <path>  - Balance file
//	--remote <url>   - Remote config document
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/core"
	"github.com/vovakirdan/inspector/internal/games/inspector"
	"github.com/vovakirdan/inspector/internal/platform/tui"
	"github.com/vovakirdan/inspector/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagRemote  string
	flagVerbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inspector",
	Short: "Inspector - approve or reject documents before time runs out",
	Long: `Inspector is a terminal arcade game. Documents queue up in front of
you; flip your stamp between approve and reject and stamp each one before the
timer drains. Correct stamps build a combo and fill the fever gauge, which
doubles your points for a while.

Available commands:
  play     - Play at the chosen difficulty
  menu     - Interactive difficulty picker
  levels   - Show the effective tuning table
  scores   - View high scores
  balance  - Edit balance overrides (admin password required)
  serve    - Start SSH server for remote play

Examples:
  inspector play --difficulty hard
  inspector menu
  inspector scores --difficulty easy
  inspector serve --ssh :2222 --metrics :9108`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.inspector/inspector.db", "Path to scores and settings database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to balance YAML (default: ~/.inspector/balance.yaml, then ./configs/balance.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRemote, "remote", os.Getenv("INSPECTOR_REMOTE_URL"), "URL of the remote config document")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log config layering details")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(serveCmd)
}

// app holds what every command shares: logger, database and loaded config.
type app struct {
	logger *log.Logger
	store  *storage.Store // nil when the database could not be opened
	loaded *config.Loaded
}

// newLogger returns the CLI logger.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "inspector",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// setup opens the database and loads the balance. A missing database only
// disables scores and overrides.
func setup(ctx context.Context) (*app, error) {
	a := &app{logger: newLogger()}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		a.logger.Warn("could not open database, scores will not be saved", "error", err)
	} else {
		a.store = store
	}

	if err := a.reload(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// reload re-runs the config layering.
func (a *app) reload(ctx context.Context) error {
	loaded, err := config.Load(ctx, config.LoadOptions{
		Path:      flagConfig,
		Store:     a.settings(),
		RemoteURL: flagRemote,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	a.loaded = loaded
	a.logger.Debug("balance loaded", "sources", loaded.Sources)
	return nil
}

// scores returns the score store as an interface, nil without a database.
func (a *app) scores() tui.Scores {
	if a.store == nil {
		return nil
	}
	return a.store
}

// settings returns the settings store as an interface, nil without a database.
func (a *app) settings() config.SettingsStore {
	if a.store == nil {
		return nil
	}
	return a.store
}

// Close releases the database.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// mustSetup is setup for commands that cannot run without config.
func mustSetup(cmd *cobra.Command) *app {
	a, err := setup(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// gameID is the registered id of the inspector game.
const gameID = inspector.GameID
