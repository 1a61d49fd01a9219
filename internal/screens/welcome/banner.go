package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/ui/theme"
)

const bannerArt = `
  ██████╗ █████╗ ██╗      ██████╗ ██╗████████╗██████╗
 ██╔════╝██╔══██╗██║     ██╔════╝ ██║╚══██╔══╝██╔══██╗
 ██║     ███████║██║     ██║      ██║   ██║   ██████╔╝
 ██║     ██╔══██║██║     ██║      ██║   ██║   ██╔══██╗
 ╚██████╗██║  ██║███████╗╚██████╗ ██║   ██║   ██████╔╝
  ╚═════╝╚═╝  ╚═╝╚══════╝ ╚═════╝ ╚═╝   ╚═╝   ╚═════╝`

const bannerCompact = "C A L C I T B"

// RenderBanner returns the CalcITB banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 58 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 58 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
