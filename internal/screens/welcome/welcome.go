// Package welcome is the opening splash: a pulse trace, the banner and
// the medical notice the user acknowledges before using the calculator.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/router"
	"github.com/abhisek/calcitb/internal/screen"
	"github.com/abhisek/calcitb/internal/ui/layout"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	traceEnd     = 800 * time.Millisecond
	totalDur     = 1200 * time.Millisecond
)

// pulseTrace is revealed left to right while the splash runs.
const pulseTrace = "───────╮╭──────────╮  ╭───────╮╭──────────╮  ╭──────"

// heartbeat frames alternate beside the trace.
var heartbeatFrames = []string{"♥", "♡"}

type tickMsg time.Time

// WelcomeScreen shows the splash and then replaces itself with the
// calculator once the user presses a key.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return "Bem-vindo"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "qualquer tecla", Description: "Continuar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// The notice must be on screen before it can be dismissed.
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, nil
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	trace := []rune(pulseTrace)
	shown := len(trace)
	if w.elapsed < traceEnd {
		shown = int(float64(len(trace)) * float64(w.elapsed) / float64(traceEnd))
	}
	beat := lipgloss.NewStyle().
		Foreground(theme.Error).
		Render(heartbeatFrames[w.tickCount%len(heartbeatFrames)])
	line := lipgloss.NewStyle().
		Foreground(theme.Success).
		Render(string(trace[:shown]) + strings.Repeat(" ", len(trace)-shown))
	sections = append(sections, beat+" "+line)

	if w.elapsed >= traceEnd {
		sections = append(sections, RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render("Saúde Vascular Inteligente"))
	}

	if w.elapsed >= totalDur {
		notice := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(min(max(width-8, 20), 72)).
			Align(lipgloss.Center).
			Render(layout.Disclaimer)
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("pressione qualquer tecla para continuar")
		sections = append(sections, "", notice, "", hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
