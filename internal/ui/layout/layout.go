package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold  = 90
	CompactHeightThreshold = 34
)

// Disclaimer is the medical notice shown under every screen.
const Disclaimer = "AVISO MÉDICO: Este aplicativo é apenas para fins informativos e educacionais. " +
	"Os resultados não constituem diagnóstico médico. Se você tem pressão alta ou sente dores nas pernas, consulte um médico."

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentWidth is the column width screens lay their cards out in.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-4, 20), 72)
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal muito pequeno!\n\nRedimensione para pelo\nmenos %d x %d\n\nAtual: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar. crumbs is the screen
// stack from the root; ai describes the configured model, or "" if none.
func RenderHeader(crumbs []string, ai string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  CalcITB")
	if !IsCompactWidth(width) {
		left += lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("  Saúde Vascular Inteligente")
	}

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(strings.Join(crumbs, " › "))

	rightText := "IA desativada"
	rightColor := theme.TextDim
	if ai != "" {
		rightText = "IA: " + ai
		rightColor = theme.Secondary
	}
	right := lipgloss.NewStyle().Foreground(rightColor).Render(rightText)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0) // account for border padding

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the key hints and, when there is room, the
// disclaimer.
func RenderFooter(hints []KeyHint, width int, withDisclaimer bool) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	content := "  " + strings.Join(parts, "   ")
	if withDisclaimer {
		content += "\n" + lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(max(width-4, 10)).
			Align(lipgloss.Center).
			Render(Disclaimer)
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
