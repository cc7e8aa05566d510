package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/inspector/internal/config"
)

// balanceField is one editable number in the panel.
type balanceField struct {
	group string
	label string
	step  float64
	get   func(b *config.Balance) float64
	set   func(b *config.Balance, v float64)
}

// tuningFields returns the editable fields of one level.
func tuningFields(l config.Level) []balanceField {
	field := func(label string, step float64, ptr func(t *config.Tuning) *float64) balanceField {
		return balanceField{
			group: l.Title(),
			label: label,
			step:  step,
			get: func(b *config.Balance) float64 {
				t := b.Tuning(l)
				return *ptr(&t)
			},
			set: func(b *config.Balance, v float64) {
				t := b.Tuning(l)
				*ptr(&t) = v
				b.SetTuning(l, t)
			},
		}
	}

	return []balanceField{
		field("decay rate", 0.05, func(t *config.Tuning) *float64 { return &t.DecayRate }),
		field("recover on success", 0.5, func(t *config.Tuning) *float64 { return &t.RecoverOnSuccess }),
		field("recover on bread", 0.5, func(t *config.Tuning) *float64 { return &t.RecoverOnWildcard }),
		field("penalty on fail", 1, func(t *config.Tuning) *float64 { return &t.PenaltyOnFail }),
		field("spawn approve", 1, func(t *config.Tuning) *float64 { return &t.Spawn.Approve }),
		field("spawn reject", 1, func(t *config.Tuning) *float64 { return &t.Spawn.Reject }),
		field("spawn bread", 1, func(t *config.Tuning) *float64 { return &t.Spawn.Wildcard }),
	}
}

// scoringFields returns the editable shared scoring fields.
func scoringFields() []balanceField {
	return []balanceField{
		{
			group: "Scoring", label: "fever gain", step: 1,
			get: func(b *config.Balance) float64 { return b.Scoring.FeverGain },
			set: func(b *config.Balance, v float64) { b.Scoring.FeverGain = v },
		},
		{
			group: "Scoring", label: "fever decay", step: 0.1,
			get: func(b *config.Balance) float64 { return b.Scoring.FeverDecay },
			set: func(b *config.Balance, v float64) { b.Scoring.FeverDecay = v },
		},
		{
			group: "Scoring", label: "base points", step: 10,
			get: func(b *config.Balance) float64 { return float64(b.Scoring.BasePoints) },
			set: func(b *config.Balance, v float64) { b.Scoring.BasePoints = int(v) },
		},
		{
			group: "Scoring", label: "combo bonus", step: 5,
			get: func(b *config.Balance) float64 { return float64(b.Scoring.ComboBonus) },
			set: func(b *config.Balance, v float64) { b.Scoring.ComboBonus = int(v) },
		},
	}
}

func allBalanceFields() []balanceField {
	var fields []balanceField
	for _, l := range config.Levels() {
		fields = append(fields, tuningFields(l)...)
	}
	return append(fields, scoringFields()...)
}

// BalanceKeyMap defines the key bindings for the unlocked panel.
type BalanceKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Dec   key.Binding
	Inc   key.Binding
	Save  key.Binding
	Reset key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BalanceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Dec, k.Inc, k.Save, k.Reset, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BalanceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Dec, k.Inc},
		{k.Save, k.Reset, k.Quit},
	}
}

// DefaultBalanceKeyMap returns default key bindings.
func DefaultBalanceKeyMap() BalanceKeyMap {
	return BalanceKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "prev")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "next")),
		Dec:   key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("left/-", "decrease")),
		Inc:   key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("right/+", "increase")),
		Save:  key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Reset: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear overrides")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
	}
}

// BalancePanelOptions configures the balance panel.
type BalancePanelOptions struct {
	// Balance is the local layer to edit (config.Loaded.Local). Remote and
	// environment values must not be passed in, or saving persists them.
	Balance           config.Balance
	AdminPasswordHash string               // empty keeps the panel locked
	Store             config.SettingsStore // nil disables saving
	// Reload returns the local layer after overrides were cleared.
	Reload func() (config.Balance, error)
}

// BalancePanel is the password-gated editor for balance overrides.
type BalancePanel struct {
	opts     BalancePanelOptions
	unlocked bool
	input    textinput.Model
	attempts int

	balance  config.Balance
	original config.Balance
	fields   []balanceField
	cursor   int
	keys     BalanceKeyMap
	help     help.Model
	height   int

	message  string
	isError  bool
	quitting bool
	renderer *lipgloss.Renderer
}

// NewBalancePanel creates the panel in its locked state.
func NewBalancePanel(opts BalancePanelOptions) BalancePanel {
	ti := textinput.New()
	ti.Placeholder = "admin password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128
	ti.Focus()

	p := BalancePanel{
		opts:     opts,
		input:    ti,
		balance:  opts.Balance,
		original: opts.Balance,
		fields:   allBalanceFields(),
		keys:     DefaultBalanceKeyMap(),
		help:     help.New(),
		height:   24,
		renderer: lipgloss.DefaultRenderer(),
	}
	if opts.AdminPasswordHash == "" {
		p.fail(config.ErrNoAdminPassword)
	}
	return p
}

// Init starts the cursor blink.
func (p BalancePanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p BalancePanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, isSize := msg.(tea.WindowSizeMsg); isSize {
		p.height = ws.Height
		p.help.Width = ws.Width
		return p, nil
	}

	km, ok := msg.(tea.KeyMsg)
	if ok && (km.String() == "ctrl+c" || km.String() == "esc") {
		p.quitting = true
		return p, tea.Quit
	}

	if !p.unlocked {
		return p.updateLocked(msg)
	}
	if ok {
		return p.updateEditor(km)
	}
	return p, nil
}

func (p BalancePanel) updateLocked(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.opts.AdminPasswordHash == "" {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "q" {
			p.quitting = true
			return p, tea.Quit
		}
		return p, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEnter {
		err := config.CheckAdminPassword(p.opts.AdminPasswordHash, p.input.Value())
		p.input.Reset()
		if err != nil {
			p.attempts++
			p.fail(err)
			return p, nil
		}
		p.unlocked = true
		p.input.Blur()
		p.info("Unlocked.")
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p BalancePanel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Quit):
		p.quitting = true
		return p, tea.Quit

	case key.Matches(msg, p.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}

	case key.Matches(msg, p.keys.Down):
		if p.cursor < len(p.fields)-1 {
			p.cursor++
		}

	case key.Matches(msg, p.keys.Dec):
		p.adjust(-1)

	case key.Matches(msg, p.keys.Inc):
		p.adjust(1)

	case key.Matches(msg, p.keys.Save):
		p.save()

	case key.Matches(msg, p.keys.Reset):
		p.clear()
	}
	return p, nil
}

// adjust moves the selected field by one step, never below zero.
func (p *BalancePanel) adjust(dir float64) {
	f := p.fields[p.cursor]
	v := f.get(&p.balance) + dir*f.step
	v = math.Round(v*1000) / 1000
	f.set(&p.balance, math.Max(v, 0))
	p.message = ""
}

func (p *BalancePanel) save() {
	if p.opts.Store == nil {
		p.fail(errors.New("no settings database, overrides cannot be saved"))
		return
	}
	if err := config.SaveOverrides(p.opts.Store, p.balance); err != nil {
		p.fail(err)
		return
	}
	p.original = p.balance
	p.info("Saved. New runs use the updated balance.")
}

func (p *BalancePanel) clear() {
	if p.opts.Store == nil {
		p.fail(errors.New("no settings database, nothing to clear"))
		return
	}
	if err := config.ClearOverrides(p.opts.Store); err != nil {
		p.fail(err)
		return
	}
	if p.opts.Reload != nil {
		b, err := p.opts.Reload()
		if err != nil {
			p.fail(err)
			return
		}
		p.balance = b
		p.original = b
	}
	p.info("Overrides cleared.")
}

func (p *BalancePanel) info(msg string) {
	p.message, p.isError = msg, false
}

func (p *BalancePanel) fail(err error) {
	p.isError = true
	switch {
	case errors.Is(err, config.ErrNoAdminPassword):
		p.message = "The balance panel is locked: no admin password was provided by the remote config.\n" +
			"Start with --remote <url> (or INSPECTOR_REMOTE_URL) pointing at a document with admin_password_hash."
	case errors.Is(err, config.ErrWrongPassword):
		p.message = fmt.Sprintf("Wrong password (attempt %d). Try again.", p.attempts)
	default:
		p.message = err.Error()
	}
}

// Unlocked reports whether the password was accepted.
func (p BalancePanel) Unlocked() bool {
	return p.unlocked
}

// Balance returns the balance being edited.
func (p BalancePanel) Balance() config.Balance {
	return p.balance
}

// View renders the panel.
func (p BalancePanel) View() string {
	if p.quitting {
		return ""
	}

	r := p.renderer
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dim := r.NewStyle().Foreground(lipgloss.Color("241"))
	msgStyle := r.NewStyle().Foreground(lipgloss.Color("10"))
	if p.isError {
		msgStyle = r.NewStyle().Foreground(lipgloss.Color("9"))
	}

	var b strings.Builder
	b.WriteString(title.Render("BALANCE PANEL"))
	b.WriteString("\n\n")

	if !p.unlocked {
		if p.opts.AdminPasswordHash != "" {
			b.WriteString(p.input.View())
			b.WriteString("\n\n")
			b.WriteString(dim.Render("enter: unlock  esc: quit"))
		} else {
			b.WriteString(dim.Render("q/esc: quit"))
		}
		if p.message != "" {
			b.WriteString("\n\n")
			b.WriteString(msgStyle.Render(p.message))
		}
		b.WriteString("\n")
		return b.String()
	}

	active := r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	first, last := p.visibleRange()
	group := ""
	for i := first; i < last; i++ {
		f := p.fields[i]
		if f.group != group {
			group = f.group
			b.WriteString(title.Render(group))
			b.WriteString("\n")
		}
		mark := " "
		if f.get(&p.balance) != f.get(&p.original) {
			mark = "*"
		}
		line := fmt.Sprintf(" %s %-20s %8g", mark, f.label, f.get(&p.balance))
		if i == p.cursor {
			line = active.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render(p.help.View(p.keys)))
	if p.message != "" {
		b.WriteString("\n")
		b.WriteString(msgStyle.Render(p.message))
	}
	b.WriteString("\n")
	return b.String()
}

// visibleRange returns the window of fields that fits the terminal,
// keeping the cursor in view.
func (p BalancePanel) visibleRange() (first, last int) {
	// Title, group headers, help and message take roughly a dozen lines.
	rows := max(p.height-12, 5)
	if rows >= len(p.fields) {
		return 0, len(p.fields)
	}
	first = min(max(p.cursor-rows/2, 0), len(p.fields)-rows)
	return first, first + rows
}

// RunBalancePanel runs the panel until the user quits.
func RunBalancePanel(opts BalancePanelOptions) error {
	p := tea.NewProgram(NewBalancePanel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
