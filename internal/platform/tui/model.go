package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/inspector/internal/core"
	"github.com/vovakirdan/inspector/internal/registry"
	"github.com/vovakirdan/inspector/internal/storage"
)

// ScoreSaver persists finished runs.
type ScoreSaver interface {
	SaveScore(e storage.ScoreEntry) (int64, error)
}

// Scores is everything the screens need from the score store. Pass a nil
// interface, not a nil *storage.Store, when no database is available.
type Scores interface {
	ScoreSaver
	ScoreReader
	HighScorer
}

// GameModel is the Bubble Tea model for one game screen.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	renderer   *ScreenRenderer
	store      ScoreSaver // may be nil
	config     core.RuntimeConfig
	fixedSeed  bool
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	runID      string
	scoreSaved bool // Whether score has been saved for current game over
	saveErr    error
	quitting   bool
	backToMenu bool
	exitOnBack bool // quit the program on back instead of waiting for a parent
}

// NewGameModel creates a new Bubble Tea model for the given game.
// A zero seed picks a time-based one for every run.
func NewGameModel(game registry.Game, store ScoreSaver, cfg core.RuntimeConfig, renderer *ScreenRenderer) GameModel {
	fixed := cfg.Seed != 0
	if !fixed {
		cfg.Seed = time.Now().UnixNano()
	}
	if renderer == nil {
		renderer = NewScreenRenderer(nil)
	}

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		renderer:   renderer,
		store:      store,
		config:     cfg,
		fixedSeed:  fixed,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
	m.reset()
	return m
}

// reset starts a fresh run with its own run ID.
func (m *GameModel) reset() {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.runID = storage.NewRunID()
	m.scoreSaved = false
	m.saveErr = nil
	m.inputFrame.Clear()
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The run keeps going; the renderer adapts to the new size.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleTick runs one simulation frame.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		if !m.fixedSeed {
			m.config.Seed = time.Now().UnixNano()
		}
		m.reset()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScore records the finished run once. Empty runs are not recorded.
func (m *GameModel) saveScore() {
	m.scoreSaved = true
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	_, m.saveErr = m.store.SaveScore(storage.ScoreEntry{
		RunID:    m.runID,
		GameID:   m.game.ID(),
		Level:    m.gameState.Level,
		Score:    m.gameState.Score,
		MaxCombo: m.gameState.MaxCombo,
	})
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".inspector", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s_%s.txt", m.game.ID(), m.gameState.Level, timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	out := m.renderer.Render(m.screen)
	if m.saveErr != nil && m.gameState.GameOver {
		out += "\nscore not saved: " + m.saveErr.Error()
	}
	return out
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last platform-facing game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// GameResult holds the outcome of a local game program.
type GameResult struct {
	Config     core.RuntimeConfig
	BackToMenu bool
	Quit       bool
}

// RunGame starts a Bubble Tea program for the given game and blocks until
// the player quits or goes back to the menu.
func RunGame(game registry.Game, store ScoreSaver, cfg core.RuntimeConfig) (GameResult, error) {
	model := NewGameModel(game, store, cfg, nil)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return GameResult{Config: cfg}, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return GameResult{Config: cfg, Quit: true}, nil
	}
	return GameResult{
		Config:     m.config,
		BackToMenu: m.BackToMenu(),
		Quit:       m.IsQuitting(),
	}, nil
}
