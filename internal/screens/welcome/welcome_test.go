package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/calcitb/internal/router"
	"github.com/abhisek/calcitb/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "calc" }
func (s *stubScreen) Title() string                          { return "Calculadora" }

func newTestWelcomeWithCounter() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()

	view := w.View(100, 40)
	if strings.Contains(view, "Saúde Vascular Inteligente") {
		t.Error("tagline should not be visible at start")
	}

	// 8 ticks reveal the full trace and the banner.
	sendTicks(w, 8)
	if w.elapsed != traceEnd {
		t.Errorf("expected elapsed %v, got %v", traceEnd, w.elapsed)
	}
	view = w.View(100, 40)
	if !strings.Contains(view, "Saúde Vascular Inteligente") {
		t.Error("tagline should be visible once the trace is drawn")
	}
	if strings.Contains(view, "AVISO MÉDICO") {
		t.Error("notice should not be visible before the splash completes")
	}

	sendTicks(w, 4)
	view = w.View(100, 40)
	if !strings.Contains(view, "AVISO MÉDICO") {
		t.Error("notice should be visible after the splash completes")
	}
}

func TestKeypressDuringAnimationIsIgnored(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd != nil {
		t.Fatal("keypress before the notice is shown should not transition")
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called, got %d", *callCount)
	}
}

func TestKeypressAfterAnimationEmitsReplace(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 20)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("expected a command from keypress after animation")
	}

	replaceMsg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg")
	}
	if replaceMsg.Screen.Title() != "Calculadora" {
		t.Errorf("unexpected next screen %q", replaceMsg.Screen.Title())
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestElapsedIsCapped(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 40)

	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 20)
	w.Update(tea.KeyPressMsg{Code: 'a'})

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()
	sendTicks(w, 20)
	w.Update(tea.KeyPressMsg{Code: 'a'})

	if _, cmd := w.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("expected ticking to stop after transition")
	}
}

func TestBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "C A L C I T B") {
		t.Error("expected compact banner on narrow terminals")
	}
	if strings.Contains(RenderBanner(100), "C A L C I T B") {
		t.Error("expected full banner on wide terminals")
	}
}
