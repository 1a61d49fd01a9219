package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

// gaugeSegment is one coloured stretch of the reference scale. Widths are
// shares of the bar, not proportional to the score axis.
type gaugeSegment struct {
	category itb.Category
	share    float64
}

var gaugeSegments = []gaugeSegment{
	{itb.CategoryMildPAD, 0.30},
	{itb.CategoryBorderline, 0.10},
	{itb.CategoryNormal, 0.30},
	{itb.CategoryCalcification, 0.30},
}

// Gauge renders the reference scale with a marker under the score.
type Gauge struct {
	Score float64
	Width int
}

// NewGauge creates a gauge for score.
func NewGauge(score float64, width int) Gauge {
	return Gauge{Score: score, Width: width}
}

// View renders the bar, the tick labels and the marker line.
func (g Gauge) View() string {
	w := max(g.Width, 20)

	var bar strings.Builder
	used := 0
	for i, seg := range gaugeSegments {
		n := int(float64(w) * seg.share)
		if i == len(gaugeSegments)-1 {
			n = w - used
		}
		used += n
		band, _ := itb.BandFor(seg.category)
		bar.WriteString(lipgloss.NewStyle().
			Background(theme.BandColor(band.Style)).
			Render(strings.Repeat(" ", n)))
	}

	ticks := spread([]string{"0.0", "0.90", "1.00", "1.40", "Alto"}, w)

	pos := min(max(MarkerPosition(g.Score, w), 0), w-1)
	marker := strings.Repeat(" ", pos) + lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▲")
	label := lipgloss.NewStyle().
		Width(w).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("Seu resultado: %.2f", g.Score))

	return theme.Subtitle.Width(w).Align(lipgloss.Center).Render("ESCALA DE REFERÊNCIA") + "\n" +
		bar.String() + "\n" +
		theme.Subtitle.Render(ticks) + "\n" +
		marker + "\n" +
		label
}

// MarkerPosition maps a score onto a bar of width w using the same
// piecewise scale as the coloured segments.
func MarkerPosition(score float64, w int) int {
	type stop struct{ score, at float64 }
	stops := []stop{{0, 0}, {0.90, 0.30}, {1.00, 0.40}, {1.40, 0.70}, {2.00, 1.0}}

	if score <= 0 {
		return 0
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if score <= b.score {
			frac := a.at + (score-a.score)/(b.score-a.score)*(b.at-a.at)
			return int(frac * float64(w-1))
		}
	}
	return w - 1
}

// spread lays labels out evenly across w columns.
func spread(labels []string, w int) string {
	if len(labels) < 2 {
		return strings.Join(labels, "")
	}
	total := 0
	for _, l := range labels {
		total += len([]rune(l))
	}
	gaps := len(labels) - 1
	space := max(w-total, gaps)

	var b strings.Builder
	for i, l := range labels {
		b.WriteString(l)
		if i < gaps {
			n := space / gaps
			if i < space%gaps {
				n++
			}
			b.WriteString(strings.Repeat(" ", n))
		}
	}
	return b.String()
}
