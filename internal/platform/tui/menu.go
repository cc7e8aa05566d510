package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/core"
)

// HighScorer looks up the best score for a level.
type HighScorer interface {
	HighScore(gameID, level string) (int, error)
}

// MenuItem represents a selectable difficulty in the menu.
type MenuItem struct {
	Level     config.Level
	Tuning    config.Tuning
	HighScore int
}

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	renderer       *lipgloss.Renderer
	quitting       bool
	selected       *MenuItem // Set when user picks a level
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a menu listing every level with its tuning and the
// best recorded score. scores may be nil.
func NewMenuModel(b config.Balance, scores HighScorer, gameID string, cfg core.RuntimeConfig, r *lipgloss.Renderer) MenuModel {
	levels := config.Levels()
	items := make([]MenuItem, 0, len(levels))
	cursor := 0

	for i, l := range levels {
		item := MenuItem{Level: l, Tuning: b.Tuning(l)}
		if scores != nil {
			if high, err := scores.HighScore(gameID, string(l)); err == nil {
				item.HighScore = high
			}
		}
		if l == config.LevelNormal {
			cursor = i
		}
		items = append(items, item)
	}

	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	return MenuModel{
		items:     items,
		cursor:    cursor,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		renderer:  r,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Number keys pick a level directly.
	if k := msg.String(); len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(m.items) {
		m.cursor = int(k[0] - '1')
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, tea.Quit
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting || m.selected != nil || m.openScoreboard {
		return ""
	}

	titleStyle := m.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	activeStyle := m.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("245"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  I N S P E C T O R  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose your shift", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := m.renderer.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = activeStyle
		}

		line := fmt.Sprintf("%s%d. %-10s best %s", cursor, i+1, item.Level.Title(), humanize.Comma(int64(item.HighScore)))
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		t := m.items[m.cursor].Tuning
		info := fmt.Sprintf("drain %.2f/tick  recover +%g  bread +%g  penalty -%g",
			t.DecayRate, t.RecoverOnSuccess, t.RecoverOnWildcard, t.PenaltyOnFail)
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render(info), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Start  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. ANSI styling is ignored
// when measuring.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Level           config.Level
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(b config.Balance, scores HighScorer, gameID string, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(b, scores, gameID, cfg, nil)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.Level = m.Selected().Level
	default:
		result.Quit = true
	}
	return result, nil
}
