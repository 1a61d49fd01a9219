package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/advisor"
	"github.com/abhisek/calcitb/internal/router"
	"github.com/abhisek/calcitb/internal/screen"
	"github.com/abhisek/calcitb/internal/screens/calc"
	"github.com/abhisek/calcitb/internal/screens/welcome"
	"github.com/abhisek/calcitb/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	// Advisor enables the AI affordances. Nil runs the calculator alone.
	Advisor advisor.Advisor

	// ModelLabel is shown in the header, e.g. "gemini-2.5-flash".
	ModelLabel string

	// SkipWelcome opens the calculator directly.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router     *router.Router
	modelLabel string
	width      int
	height     int
}

// newAppModel creates a new AppModel starting at the welcome splash, or at
// the calculator when SkipWelcome is set.
func newAppModel(opts Options) AppModel {
	label := opts.ModelLabel
	if opts.Advisor == nil {
		label = ""
	}

	newCalc := func() screen.Screen { return calc.New(opts.Advisor) }
	var first screen.Screen = welcome.New(newCalc)
	if opts.SkipWelcome {
		first = newCalc()
	}
	return AppModel{
		router:     router.New(first),
		modelLabel: label,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscCapturer); ok && c.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if frame := m.render(); frame != "" {
		v.SetContent(frame)
	}
	return v
}

// render draws the full frame, or "" before the first size message.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.router.Titles(), m.modelLabel, m.width)

	var footerHints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if len(footerHints) == 0 {
		footerHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Sair"}}
		if m.router.Depth() > 1 {
			footerHints = append([]layout.KeyHint{{Key: "Esc", Description: "Voltar"}}, footerHints...)
		}
	}

	footer := layout.RenderFooter(footerHints, m.width, !layout.IsCompactHeight(m.height))

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
