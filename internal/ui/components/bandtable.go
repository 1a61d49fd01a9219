package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

// BandTable renders the reference bands as aligned, wrapped rows with a
// colour swatch per band. Highlight marks the row for a category, if any.
func BandTable(width int, highlight itb.Category) string {
	width = max(width, 40)
	rangeW := 14
	labelW := (width - rangeW - 2) / 3
	noteW := width - rangeW - labelW - 2

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Subtitle.Width(rangeW+2).Render("FAIXA"),
		theme.Subtitle.Width(labelW).Render("CLASSIFICAÇÃO"),
		theme.Subtitle.Width(noteW).Render("ORIENTAÇÃO"),
	)

	rows := []string{header}
	for _, b := range itb.Bands {
		c := theme.BandColor(b.Style)
		swatch := lipgloss.NewStyle().Foreground(c).Render("■ ")
		label := lipgloss.NewStyle().Foreground(c).Bold(b.Category == highlight)

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			swatch,
			theme.Body.Width(rangeW).Render(b.RangeLabel()),
			label.Width(labelW).Render(b.Label),
			theme.Hint.Width(noteW).Render(b.Recommendation),
		))
	}
	return strings.Join(rows, "\n\n")
}
