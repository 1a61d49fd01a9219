// Package bands shows the ITB reference table.
package bands

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/screen"
	"github.com/abhisek/calcitb/internal/ui/components"
	"github.com/abhisek/calcitb/internal/ui/layout"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

// BandsScreen lists every band with its range and guidance.
type BandsScreen struct{}

var _ screen.Screen = (*BandsScreen)(nil)

// New creates the reference screen.
func New() *BandsScreen {
	return &BandsScreen{}
}

func (s *BandsScreen) Init() tea.Cmd { return nil }

func (s *BandsScreen) Title() string { return "Faixas de Referência" }

func (s *BandsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Voltar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *BandsScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *BandsScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	body := theme.Title.Render("Índice Tornozelo-Braquial") + "\n" +
		theme.Body.Width(cw).Render("O ITB divide a pressão sistólica do tornozelo pela do braço. Valores baixos indicam obstrução; valores muito altos sugerem artérias rígidas.") + "\n\n" +
		components.BandTable(cw, "")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}
