package advisor

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"
)

const (
	defaultAge      = "Não informada"
	defaultSymptoms = "Nenhum"
)

var explainTemplate = template.Must(template.New("explain").Parse(`Aja como um cardiologista especialista vascular experiente.
O usuário calculou seu Índice Tornozelo-Braquial (ITB/ABI) e o resultado foi: {{.Score}}.
Idade do usuário: {{.Age}}.
Sintomas relatados: {{.Symptoms}}.

Com base APENAS neste resultado e nas diretrizes médicas padrão (TASC II, AHA):
1. Explique o que este número significa em linguagem simples para um paciente.
2. Dê 3 recomendações práticas de estilo de vida (focadas em quem tem pressão alta).
3. Indique sinais de alerta que exigiriam ida imediata ao médico.

Mantenha o tom profissional, empático, mas direto. Use formatação Markdown.
IMPORTANTE: Sempre inclua um aviso de que isso não substitui uma consulta médica real.`))

const scanPrompt = `Analise esta imagem de anotações médicas ou monitor de pressão arterial.
Identifique dois números principais para o cálculo do ITB (Índice Tornozelo-Braquial):
1. Pressão Sistólica do Braço (Arm Systolic) - geralmente o valor mais alto se houver dois braços, ou em torno de 100-180.
2. Pressão Sistólica do Tornozelo (Ankle Systolic) - valor medido na perna.

Retorne APENAS um objeto JSON (sem markdown, sem crases) com este formato:
{
   "armSystolic": number | null,
   "ankleSystolic": number | null
}

Se não conseguir identificar claramente, retorne null nos campos.`

func buildExplainPrompt(in ExplainInput) (string, error) {
	data := struct {
		Score, Age, Symptoms string
	}{
		Score:    strconv.FormatFloat(in.Score, 'f', -1, 64),
		Age:      orDefault(in.Age, defaultAge),
		Symptoms: orDefault(in.Symptoms, defaultSymptoms),
	}

	var buf bytes.Buffer
	if err := explainTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
