package tui

import (
	"math"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/inspector/internal/config"
)

type memSettings map[string]string

func (s memSettings) Setting(key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

func (s memSettings) SetSetting(key, value string) error {
	s[key] = value
	return nil
}

func (s memSettings) DeleteSetting(key string) error {
	delete(s, key)
	return nil
}

func sendPanel(t *testing.T, p BalancePanel, msgs ...tea.Msg) BalancePanel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := p.Update(msg)
		p = next.(BalancePanel)
	}
	return p
}

func unlockedPanel(t *testing.T, store config.SettingsStore, reload func() (config.Balance, error)) BalancePanel {
	t.Helper()
	hash, err := config.HashPassword("letmein")
	if err != nil {
		t.Fatal(err)
	}
	p := NewBalancePanel(BalancePanelOptions{
		Balance:           config.DefaultBalance(),
		AdminPasswordHash: hash,
		Store:             store,
		Reload:            reload,
	})
	p = sendPanel(t, p, runeKey("letmein"), tea.KeyMsg{Type: tea.KeyEnter})
	if !p.Unlocked() {
		t.Fatalf("panel did not unlock: %s", p.View())
	}
	return p
}

func TestBalancePanelLockedWithoutHash(t *testing.T) {
	p := NewBalancePanel(BalancePanelOptions{Balance: config.DefaultBalance()})
	p = sendPanel(t, p, runeKey("anything"), tea.KeyMsg{Type: tea.KeyEnter})

	if p.Unlocked() {
		t.Fatal("panel unlocked without an admin password hash")
	}
	if !strings.Contains(p.View(), "no admin password was provided") {
		t.Errorf("View() should explain why the panel is locked:\n%s", p.View())
	}
}

func TestBalancePanelWrongPassword(t *testing.T) {
	hash, err := config.HashPassword("letmein")
	if err != nil {
		t.Fatal(err)
	}
	p := NewBalancePanel(BalancePanelOptions{Balance: config.DefaultBalance(), AdminPasswordHash: hash})

	p = sendPanel(t, p, runeKey("guess"), tea.KeyMsg{Type: tea.KeyEnter})
	if p.Unlocked() {
		t.Fatal("wrong password unlocked the panel")
	}
	if !strings.Contains(p.View(), "Wrong password (attempt 1)") {
		t.Errorf("missing wrong password message:\n%s", p.View())
	}

	p = sendPanel(t, p, runeKey("letmein"), tea.KeyMsg{Type: tea.KeyEnter})
	if !p.Unlocked() {
		t.Error("retry with the right password should unlock")
	}
}

func TestBalancePanelAdjustAndSave(t *testing.T) {
	store := memSettings{}
	p := unlockedPanel(t, store, nil)
	want := math.Round((config.DefaultBalance().Levels.VeryEasy.DecayRate+0.1)*1000) / 1000

	p = sendPanel(t, p, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if got := p.Balance().Levels.VeryEasy.DecayRate; got != want {
		t.Fatalf("decay rate = %v, expected %v", got, want)
	}

	p = sendPanel(t, p, runeKey("s"))
	if _, ok := store[config.OverridesKey]; !ok {
		t.Fatal("save did not write overrides")
	}

	t.Setenv("HOME", t.TempDir())
	loaded, err := config.Load(t.Context(), config.LoadOptions{Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Balance.Levels.VeryEasy.DecayRate; got != want {
		t.Errorf("reloaded decay rate = %v, expected %v", got, want)
	}
}

func TestBalancePanelSavesLocalLayerOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INSPECTOR_LEVELS__HARD__DECAY_RATE", "0.9")
	store := memSettings{}

	loaded, err := config.Load(t.Context(), config.LoadOptions{Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Balance.Levels.Hard.DecayRate != 0.9 {
		t.Fatalf("env override not applied: %v", loaded.Balance.Levels.Hard.DecayRate)
	}

	hash, err := config.HashPassword("letmein")
	if err != nil {
		t.Fatal(err)
	}
	p := NewBalancePanel(BalancePanelOptions{
		Balance:           loaded.Local,
		AdminPasswordHash: hash,
		Store:             store,
	})
	p = sendPanel(t, p, runeKey("letmein"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyRight}, runeKey("s"))

	os.Unsetenv("INSPECTOR_LEVELS__HARD__DECAY_RATE")
	reloaded, err := config.Load(t.Context(), config.LoadOptions{Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := reloaded.Balance.Levels.Hard.DecayRate, config.DefaultBalance().Levels.Hard.DecayRate; got != want {
		t.Errorf("env value leaked into overrides: hard decay rate = %v, expected %v", got, want)
	}
	if reloaded.Balance.Levels.VeryEasy.DecayRate == config.DefaultBalance().Levels.VeryEasy.DecayRate {
		t.Error("edited field was not saved")
	}
}

func TestBalancePanelNeverNegative(t *testing.T) {
	p := unlockedPanel(t, memSettings{}, nil)
	for range 100 {
		p = sendPanel(t, p, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if got := p.Balance().Levels.VeryEasy.DecayRate; got != 0 {
		t.Errorf("decay rate = %v, expected 0", got)
	}
}

func TestBalancePanelClear(t *testing.T) {
	store := memSettings{config.OverridesKey: "levels:\n  hard:\n    decay_rate: 9\n"}
	reloaded := 0
	reload := func() (config.Balance, error) {
		reloaded++
		return config.DefaultBalance(), nil
	}
	p := unlockedPanel(t, store, reload)

	p = sendPanel(t, p, runeKey("x"))
	if _, ok := store[config.OverridesKey]; ok {
		t.Error("clear left the overrides in place")
	}
	if reloaded != 1 {
		t.Errorf("reload called %d times, expected 1", reloaded)
	}
	if !strings.Contains(p.View(), "Overrides cleared.") {
		t.Errorf("missing confirmation:\n%s", p.View())
	}
}

func TestBalancePanelWithoutStore(t *testing.T) {
	p := unlockedPanel(t, nil, nil)
	p = sendPanel(t, p, runeKey("s"))
	if !strings.Contains(p.View(), "overrides cannot be saved") {
		t.Errorf("missing no-store message:\n%s", p.View())
	}
}
