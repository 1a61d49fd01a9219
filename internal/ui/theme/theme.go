package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/itb"
)

// Color palette: clinical blues on slate
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#4F46E5") // Indigo, AI affordances
	Accent    = lipgloss.Color("#38BDF8") // Sky
	Success   = lipgloss.Color("#10B981") // Emerald
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
	Neutral   = lipgloss.Color("#CBD5E1") // Light slate, unmatched scores
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Unit = lipgloss.NewStyle().
		Foreground(TextDim)

	Warning = lipgloss.NewStyle().
		Foreground(Error)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	AICard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Secondary).
		Padding(1, 2)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Primary).
		Padding(1, 2)
)

// States
var (
	Focused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)

	Blurred = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// BandColor returns the display colour for a result style. Styles without
// a bar colour (the unmatched fallback) render neutral.
func BandColor(s itb.Style) color.Color {
	if s.Bar == "" {
		return Neutral
	}
	return lipgloss.Color(s.Bar)
}

// ResultCard is the bordered card for a classified result.
func ResultCard(s itb.Style) lipgloss.Style {
	c := BandColor(s)
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(c).
		Foreground(c).
		Padding(1, 2)
}
