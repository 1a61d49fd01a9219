package calc

import (
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/calcitb/internal/session"
	"github.com/abhisek/calcitb/internal/ui/components"
	"github.com/abhisek/calcitb/internal/ui/layout"
	"github.com/abhisek/calcitb/internal/ui/markdown"
	"github.com/abhisek/calcitb/internal/ui/theme"
)

var fieldTips = [...]string{
	fieldArm:      "Insira a pressão sistólica (o número maior) do braço. Se mediu nos dois braços, use o valor mais alto.",
	fieldAnkle:    "Insira a pressão sistólica medida no tornozelo. Para um exame completo, meça os dois e calcule separadamente, ou use o lado com sintomas.",
	fieldAge:      "Usada apenas para contextualizar a análise da IA.",
	fieldSymptoms: "Ex: dor nas pernas ao caminhar, pés frios. Usado apenas pela IA.",
}

func (s *CalcScreen) View(width, height int) string {
	v := s.calc.Snapshot()
	cw := layout.ContentWidth(width)

	if v.State == sess.StateCaptureOpen || v.State == sess.StateCapturePending {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderCapture(cw, v))
	}

	body := s.renderForm(cw, v)
	if v.ScanError != "" {
		body += "\n" + theme.Warning.Width(cw).Render(v.ScanError)
	}
	if v.Result != nil {
		body += "\n" + s.renderResult(cw, v)
	}

	lines := strings.Split(body, "\n")
	if height > 0 && len(lines) > height {
		start := min(s.scroll, len(lines)-height)
		lines = lines[start : start+height]
	}
	body = strings.Join(lines, "\n")

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *CalcScreen) renderForm(cw int, v sess.View) string {
	var b strings.Builder

	if v.Result == nil {
		intro := theme.Title.Render("Cálculo de Risco Vascular") + "\n" +
			theme.Body.Width(cw-6).Render("Compare a pressão do tornozelo com a do braço para avaliar a circulação das pernas.") + "\n" +
			theme.Hint.Render("Dica: Use a pressão sistólica (o valor maior, ex: 120).")
		b.WriteString(theme.Card.Width(cw).Render(intro))
		b.WriteString("\n")
	}

	for i := 0; i < s.fieldLimit(); i++ {
		b.WriteString(s.inputs[i].View(cw))
		b.WriteString("\n")
		if i == s.focus {
			b.WriteString(theme.Hint.Width(cw).Render(fieldTips[i]))
			b.WriteString("\n")
		}
	}

	button := components.NewButton("Calcular ITB", "enter", v.CanCompute, nil)
	b.WriteString(button.View())
	return b.String()
}

func (s *CalcScreen) renderResult(cw int, v sess.View) string {
	parts := []string{
		components.ResultCard(*v.Result, cw),
		components.NewGauge(v.Result.Score, cw).View(),
	}

	if v.AIEnabled {
		parts = append(parts, s.renderAI(cw, v))
	}
	parts = append(parts, components.NewButton("Calcular novamente", "ctrl+r", true, nil).View())

	return strings.Join(parts, "\n")
}

func (s *CalcScreen) renderAI(cw int, v sess.View) string {
	if !v.ShowExplanation {
		body := theme.Title.Render("Interpretação Avançada") + "\n" +
			components.NewButton("Perguntar à IA sobre este resultado", "ctrl+e", true, nil).View()
		return theme.AICard.Width(cw).Render(body)
	}

	var content string
	if v.State == sess.StateExplanationPending {
		content = spinnerFrames[s.spinnerFrame] + " O Dr. AI está analisando..."
	} else {
		content = markdown.Render(v.Explanation, cw-6)
	}
	return theme.AICard.Width(cw).Render(theme.Title.Render("Análise Inteligente") + "\n\n" + content)
}

func (s *CalcScreen) renderCapture(cw int, v sess.View) string {
	w := min(cw, 60)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Escanear Anotação"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(w - 6).Render("Informe o caminho de uma foto da anotação ou do visor do aparelho de pressão."))
	b.WriteString("\n\n")

	if v.State == sess.StateCapturePending {
		b.WriteString(spinnerFrames[s.spinnerFrame] + " Lendo imagem...")
	} else {
		b.WriteString(s.path.View(w - 6))
	}
	if v.ScanError != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Width(w - 6).Render(v.ScanError))
	}

	return theme.Modal.Width(w).Render(b.String())
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
