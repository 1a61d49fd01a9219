// Package calc is the calculator screen: the reading form, the result card
// with its reference gauge, the AI explanation and the photo scan prompt.
package calc

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/calcitb/internal/advisor"
	"github.com/abhisek/calcitb/internal/capture"
	"github.com/abhisek/calcitb/internal/llm"
	"github.com/abhisek/calcitb/internal/router"
	"github.com/abhisek/calcitb/internal/screen"
	"github.com/abhisek/calcitb/internal/screens/bands"
	sess "github.com/abhisek/calcitb/internal/session"
	"github.com/abhisek/calcitb/internal/ui/components"
	"github.com/abhisek/calcitb/internal/ui/layout"
)

// Form fields in focus order.
const (
	fieldArm = iota
	fieldAnkle
	fieldAge
	fieldSymptoms
	fieldCount
)

const (
	spinnerInterval = 100 * time.Millisecond
	scrollStep      = 5
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// CalcScreen implements screen.Screen for the ITB calculator.
type CalcScreen struct {
	calc    *sess.Calculator
	advisor advisor.Advisor

	inputs [fieldCount]components.TextInput
	focus  int

	path components.TextInput

	spinnerFrame int
	width        int
	scroll       int
}

var _ screen.Screen = (*CalcScreen)(nil)
var _ screen.KeyHintProvider = (*CalcScreen)(nil)
var _ screen.EscCapturer = (*CalcScreen)(nil)

// New creates the calculator screen. A nil advisor disables the AI
// affordances; scoring works either way.
func New(adv advisor.Advisor) *CalcScreen {
	s := &CalcScreen{
		calc:    sess.New(adv != nil),
		advisor: adv,
		path:    components.NewTextInput("Caminho da imagem", "Ex: ~/Fotos/pressao.jpg", false, 0),
	}

	// Pressures have no length cap: a scanned value must show exactly as
	// the calculator stores it.
	s.inputs[fieldArm] = components.NewTextInput("Pressão Braço (Sistólica)", "Ex: 120", true, 0)
	s.inputs[fieldAnkle] = components.NewTextInput("Pressão Tornozelo (Sistólica)", "Ex: 110", true, 0)
	s.inputs[fieldArm].Unit = "mmHg"
	s.inputs[fieldAnkle].Unit = "mmHg"
	s.inputs[fieldAge] = components.NewTextInput("Idade (opcional)", "Ex: 65", true, 3)
	s.inputs[fieldSymptoms] = components.NewTextInput("Sintomas (opcional)", "Ex: dor ao caminhar", false, 120)
	return s
}

// Calculator exposes the underlying session state.
func (s *CalcScreen) Calculator() *sess.Calculator {
	return s.calc
}

func (s *CalcScreen) Init() tea.Cmd {
	return s.inputs[fieldArm].Focus()
}

func (s *CalcScreen) Title() string {
	return "Calculadora"
}

// CapturesEsc keeps Esc inside the screen while the scan prompt is up.
func (s *CalcScreen) CapturesEsc() bool {
	st := s.calc.State()
	return st == sess.StateCaptureOpen || st == sess.StateCapturePending
}

func (s *CalcScreen) KeyHints() []layout.KeyHint {
	v := s.calc.Snapshot()
	switch v.State {
	case sess.StateCaptureOpen:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ler imagem"},
			{Key: "Esc", Description: "Cancelar"},
		}
	case sess.StateCapturePending:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Sair"}}
	}

	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Campo"},
		{Key: "Enter", Description: "Calcular"},
	}
	if v.AIEnabled {
		if v.Result != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+E", Description: "Perguntar à IA"})
		}
		hints = append(hints, layout.KeyHint{Key: "Ctrl+O", Description: "Escanear"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "Limpar"},
		layout.KeyHint{Key: "Ctrl+B", Description: "Faixas"},
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Rolar"},
	)
}

func (s *CalcScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case explainDoneMsg:
		s.calc.FinishExplain(msg.Ticket, msg.Text, msg.Err)
		return s, nil

	case scanDoneMsg:
		if s.calc.FinishScan(msg.Ticket, msg.Readings, msg.Err) {
			s.syncFromReading()
		}
		return s, nil

	case spinnerTickMsg:
		if !s.calc.State().Pending() {
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *CalcScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.calc.State() {
	case sess.StateCaptureOpen:
		return s.handleCaptureKey(msg)
	case sess.StateCapturePending:
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % s.fieldLimit())
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + s.fieldLimit() - 1) % s.fieldLimit())
	case "enter":
		if s.calc.Compute() {
			s.scroll = s.formHeight()
		}
		return s, nil
	case "ctrl+e":
		return s, s.startExplain()
	case "ctrl+o":
		if s.calc.OpenCapture() {
			s.path.SetValue("")
			return s, s.path.Focus()
		}
		return s, nil
	case "ctrl+r":
		s.calc.Reset()
		for i := range s.inputs {
			s.inputs[i].SetValue("")
		}
		s.scroll = 0
		return s, s.setFocus(fieldArm)
	case "ctrl+b":
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: bands.New()} }
	case "pgup":
		s.scroll = max(s.scroll-scrollStep, 0)
		return s, nil
	case "pgdown":
		s.scroll += scrollStep
		return s, nil
	}

	before := s.inputs[s.focus].Value()
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	s.syncInput(s.focus, before)
	return s, cmd
}

func (s *CalcScreen) handleCaptureKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.calc.CloseCapture()
		s.path.Blur()
		return s, s.setFocus(s.focus)
	case "enter":
		return s, s.startScan(s.path.Value())
	}

	var cmd tea.Cmd
	s.path, cmd = s.path.Update(msg)
	return s, cmd
}

// syncInput pushes an edited field into the calculator. A value the digit
// filter refuses is rolled back in the widget.
func (s *CalcScreen) syncInput(i int, before string) {
	after := s.inputs[i].Value()
	if after == before {
		return
	}
	switch i {
	case fieldArm:
		if !s.calc.SetArm(after) {
			s.inputs[i].SetValue(before)
		}
	case fieldAnkle:
		if !s.calc.SetAnkle(after) {
			s.inputs[i].SetValue(before)
		}
	default:
		s.calc.SetContext(s.inputs[fieldAge].Value(), s.inputs[fieldSymptoms].Value())
	}
}

// syncFromReading copies scanned readings back into the form.
func (s *CalcScreen) syncFromReading() {
	r := s.calc.Snapshot().Reading
	s.inputs[fieldArm].SetValue(r.Arm)
	s.inputs[fieldAnkle].SetValue(r.Ankle)
	s.path.Blur()
	s.setFocus(s.focus)
}

// fieldLimit hides the context fields when no advisor will read them.
func (s *CalcScreen) fieldLimit() int {
	if s.advisor == nil {
		return fieldAge
	}
	return fieldCount
}

func (s *CalcScreen) setFocus(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == i {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	return cmd
}

func (s *CalcScreen) startExplain() tea.Cmd {
	t, ok := s.calc.BeginExplain()
	if !ok {
		return nil
	}
	adv := s.advisor
	return tea.Batch(
		func() tea.Msg {
			ctx := llm.WithRequestID(context.Background(), uuid.NewString())
			text, err := adv.Explain(ctx, t.Input)
			return explainDoneMsg{Ticket: t, Text: text, Err: err}
		},
		spinnerTick(),
	)
}

// startScan reads the image synchronously so file problems stay on the
// prompt, then hands extraction to a command.
func (s *CalcScreen) startScan(path string) tea.Cmd {
	var image []byte
	src, err := capture.OpenFile(path)
	if err == nil {
		image, err = capture.Grab(context.Background(), src)
	}
	if err != nil {
		s.calc.FailCapture(captureMessage(err))
		return nil
	}

	t, ok := s.calc.BeginScan()
	if !ok {
		return nil
	}
	adv := s.advisor
	return tea.Batch(
		func() tea.Msg {
			ctx := llm.WithRequestID(context.Background(), uuid.NewString())
			r, err := adv.ExtractReadings(ctx, image)
			return scanDoneMsg{Ticket: t, Readings: r, Err: err}
		},
		spinnerTick(),
	)
}

func captureMessage(err error) string {
	return fmt.Sprintf("Não foi possível abrir a imagem: %v", err)
}

// formHeight is the number of lines above the result card.
func (s *CalcScreen) formHeight() int {
	return lineCount(s.renderForm(layout.ContentWidth(s.width), s.calc.Snapshot()))
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
