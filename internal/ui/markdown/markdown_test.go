package markdown

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

const sample = `## O que significa

Seu ITB de **0.85** indica *alteração* leve.

- Caminhe diariamente
- Evite fumar

1. Procure um angiologista
2. Repita o exame`

func TestRender_StripsMarkup(t *testing.T) {
	out := Render(sample, 60)

	assert.Contains(t, out, "O que significa")
	assert.Contains(t, out, "0.85")
	assert.Contains(t, out, "alteração")
	assert.Contains(t, out, "• Caminhe diariamente")
	assert.Contains(t, out, "• Evite fumar")
	assert.Contains(t, out, "1. Procure um angiologista")
	assert.Contains(t, out, "2. Repita o exame")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "##")
}

func TestRender_WrapsToWidth(t *testing.T) {
	long := "palavra palavra palavra palavra palavra palavra palavra palavra palavra"
	out := Render(long, 20)
	assert.LessOrEqual(t, lipgloss.Width(out), 20)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render("", 40))
}

func TestToHTML(t *testing.T) {
	html := ToHTML("Seu ITB é **normal**.\nContinue assim.")
	assert.Contains(t, html, "<strong>normal</strong>")
	assert.Contains(t, html, "<br")
}

func TestToHTML_OmitsRawHTML(t *testing.T) {
	html := ToHTML("<script>alert(1)</script>\n\nTexto")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Texto")
}

func TestHang(t *testing.T) {
	assert.Equal(t, "• a\n  b", hang("• ", "a\nb"))
}

func TestRender_DeepNestingDoesNotPanic(t *testing.T) {
	quotes := strings.Repeat("> ", 40) + "texto\n" + strings.Repeat("> ", 40) + "\n" + strings.Repeat("> ", 40) + "---"
	lists := ""
	for i := 0; i < 30; i++ {
		lists += strings.Repeat("  ", i) + "- item\n"
	}

	for _, src := range []string{quotes, lists} {
		var out string
		assert.NotPanics(t, func() { out = Render(src, 66) })
		assert.NotEmpty(t, out)
	}
	assert.NotPanics(t, func() { Render(quotes, 0) })
}
