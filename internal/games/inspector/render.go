package inspector

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/inspector/internal/core"
)

const (
	minWidth  = 44
	minHeight = 18
	gaugeW    = 30
	cardW     = 22
	cardH     = 7

	// lowTime is where the timer gauge turns red.
	lowTime = 30.0
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < minWidth || dst.Height() < minHeight {
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorYellow)
		dst.DrawTextCentered(dst.Height()/2+1, "Please resize terminal", core.ColorGray)
		return
	}

	left := (dst.Width() - gaugeW - 8) / 2

	g.renderHUD(dst, left)
	g.renderGauges(dst, left, 2)
	g.renderQueue(dst, 5)
	g.renderStatus(dst, 5+cardH+1)
	dst.DrawTextCentered(dst.Height()-1, "A toggle  S/Space stamp  P pause  Q quit", core.ColorGray)

	g.renderOverlays(dst)
}

func (g *Game) renderHUD(dst *core.Screen, left int) {
	s := g.state
	dst.DrawTextColor(left, 0, "INSPECTOR", core.ColorBrightYellow)

	level := g.opts.Level.Title()
	dst.DrawTextColor(left+gaugeW+8-len(level), 0, level, core.ColorCyan)

	score := fmt.Sprintf("Score %s", humanize.Comma(int64(s.Score)))
	combo := fmt.Sprintf("Combo x%d (best %d)", s.Combo, s.MaxCombo)
	dst.DrawText(left, 1, score)
	dst.DrawText(left+gaugeW+8-len(combo), 1, combo)
}

func (g *Game) renderGauges(dst *core.Screen, left, y int) {
	s := g.state

	timeColor := core.ColorBrightGreen
	if s.Time < lowTime {
		timeColor = core.ColorBrightRed
	}
	dst.DrawText(left, y, "TIME ")
	dst.DrawGauge(left+6, y, gaugeW, s.Time/GaugeMax, '█', '░', timeColor)

	feverColor := core.ColorMagenta
	if s.FeverActive {
		feverColor = core.ColorBrightMagenta
	}
	dst.DrawText(left, y+1, "FEVR ")
	dst.DrawGauge(left+6, y+1, gaugeW, s.Fever/GaugeMax, '▓', '░', feverColor)
	// Blink the multiplier while fever is running.
	if s.FeverActive && s.Ticks%4 < 2 {
		dst.DrawTextColor(left+gaugeW+7, y+1, "x2", core.ColorBrightYellow)
	}
}

// renderQueue draws the head document as a card with the rest of the
// queue lined up to its right.
func (g *Game) renderQueue(dst *core.Screen, y int) {
	s := g.state
	x := (dst.Width() - cardW - 2*(QueueLen-1)) / 2

	border := core.ColorWhite
	switch g.flash {
	case flashCorrect:
		border = core.ColorBrightGreen
	case flashWrong:
		border = core.ColorBrightRed
	}
	card := core.NewRect(x, y, cardW, cardH)
	dst.DrawBox(card, border)

	head := s.Head()
	if !s.Processing {
		dst.SetColor(x+cardW/2, y+2, head.Glyph, head.Color)
		dst.DrawTextColor(x+(cardW-len([]rune(head.Label)))/2, y+4, head.Label, head.Color)
	} else {
		dst.DrawTextColor(x+(cardW-len(feedback(s.LastOutcome)))/2, y+3, feedback(s.LastOutcome), border)
	}

	for i := 1; i < QueueLen; i++ {
		it := s.Queue[i]
		dst.SetColor(x+cardW+1+2*(i-1), y+cardH/2, it.Glyph, it.Color)
	}

	// The paper stack grows with each approved form.
	stack := min(g.stamps, cardH)
	for i := 0; i < stack; i++ {
		dst.SetColor(x-3, y+cardH-1-i, '▬', core.ColorWhite)
	}
}

func (g *Game) renderStatus(dst *core.Screen, y int) {
	s := g.state
	approve, reject := "[ APPROVE ]", "  reject   "
	approveColor, rejectColor := core.ColorBrightGreen, core.ColorGray
	if s.Status == StatusReject {
		approve, reject = "  approve  ", "[ REJECT ]"
		approveColor, rejectColor = core.ColorGray, core.ColorBrightRed
	}
	line := approve + "   " + reject
	x := (dst.Width() - len(line)) / 2
	dst.DrawTextColor(x, y, approve, approveColor)
	dst.DrawTextColor(x+len(approve)+3, y, reject, rejectColor)
}

func (g *Game) renderOverlays(dst *core.Screen) {
	s := g.state

	switch {
	case s.Over:
		box := dst.Bounds().Centered(30, 7)
		dst.DrawRect(box, ' ')
		dst.DrawBox(box, core.ColorBrightRed)
		dst.DrawTextCentered(box.Y+1, "TIME'S UP", core.ColorBrightRed)
		dst.DrawTextCentered(box.Y+3, "Score "+humanize.Comma(int64(s.Score)), core.ColorWhite)
		dst.DrawTextCentered(box.Y+4, fmt.Sprintf("Max combo %d", s.MaxCombo), core.ColorWhite)
		dst.DrawTextCentered(box.Y+5, "R restart  B menu  Q quit", core.ColorGray)
	case s.Paused:
		box := dst.Bounds().Centered(24, 5)
		dst.DrawRect(box, ' ')
		dst.DrawBox(box, core.ColorYellow)
		dst.DrawTextCentered(box.Y+1, "PAUSED", core.ColorYellow)
		dst.DrawTextCentered(box.Y+3, "P resume  B menu", core.ColorGray)
	}
}

func feedback(o Outcome) string {
	switch o {
	case OutcomeSuccessFever:
		return "STAMPED!"
	case OutcomeSuccessBonus:
		return "Yum, bread!"
	case OutcomeFail:
		return "WRONG STAMP"
	case OutcomeRejectNone:
		return "Waved through"
	default:
		return ""
	}
}
