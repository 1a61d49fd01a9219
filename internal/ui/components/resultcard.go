package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

// ResultCard renders a classified result in its band colour.
func ResultCard(r itb.Result, width int) string {
	inner := max(width-6, 10)
	card := theme.Subtitle.Render("RESULTADO DO ÍNDICE") + "\n" +
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%.2f", r.Score)) + " " + theme.Subtitle.Render("ITB") + "\n\n" +
		lipgloss.NewStyle().Bold(true).Width(inner).Render(r.Message) + "\n" +
		theme.Body.Width(inner).Render(r.Recommendation)
	return theme.ResultCard(r.Style).Width(width).Render(card)
}
