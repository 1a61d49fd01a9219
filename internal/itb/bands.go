package itb

import "strconv"

// Band is one inclusive [Min, Max] range of the score domain.
type Band struct {
	Min            float64  `json:"min"`
	Max            float64  `json:"max"`
	Category       Category `json:"category"`
	Label          string   `json:"label"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	Style          Style    `json:"style"`
}

// Contains reports whether score lies inside the band, bounds included.
func (b Band) Contains(score float64) bool {
	return score >= b.Min && score <= b.Max
}

// Bands is the fixed interpretation table, highest range first.
// The values are part of the external contract and must not be tuned.
// Scores in (0.90, 0.91), (0.99, 1.00), (1.40, 1.41) and above 999 match
// no band and fall through to FallbackResult.
var Bands = []Band{
	{
		Min:            1.41,
		Max:            999,
		Category:       CategoryCalcification,
		Label:          "Artérias Não Compressíveis",
		Message:        "ALERTA: Rigidez Arterial / Calcificação",
		Recommendation: "Valores acima de 1,4 sugerem artérias endurecidas. Consulte um cardiologista vascular.",
		Style:          Style{Text: "text-red-600 bg-red-50 border-red-200", Bar: "#dc2626"},
	},
	{
		Min:            1.00,
		Max:            1.40,
		Category:       CategoryNormal,
		Label:          "Circulação Normal",
		Message:        "CIRC OK: Fluxo sanguíneo adequado",
		Recommendation: "Sua circulação periférica aparenta estar saudável. Continue com hábitos saudáveis.",
		Style:          Style{Text: "text-emerald-700 bg-emerald-50 border-emerald-200", Bar: "#059669"},
	},
	{
		Min:            0.91,
		Max:            0.99,
		Category:       CategoryBorderline,
		Label:          "Limítrofe",
		Message:        "ATENÇÃO: Início de alteração",
		Recommendation: "Valor limítrofe. Recomendado monitorar e controlar fatores de risco como pressão e colesterol.",
		Style:          Style{Text: "text-yellow-700 bg-yellow-50 border-yellow-200", Bar: "#d97706"},
	},
	{
		Min:            0.00,
		Max:            0.90,
		Category:       CategoryMildPAD,
		Label:          "Doença Arterial Periférica",
		Message:        "! PERNAS: Atenção à circulação",
		Recommendation: "Indica possível Doença Arterial Obstrutiva Periférica (DAOP). Procure um médico.",
		Style:          Style{Text: "text-orange-700 bg-orange-50 border-orange-200", Bar: "#ea580c"},
	},
}

// BandFor returns the band for a category, or false if no band uses it.
func BandFor(c Category) (Band, bool) {
	for _, b := range Bands {
		if b.Category == c {
			return b, true
		}
	}
	return Band{}, false
}

// RangeLabel formats the band bounds for display. The open-ended top band
// is shown as a lower bound only.
func (b Band) RangeLabel() string {
	if b.Max >= 999 {
		return "≥ " + strconv.FormatFloat(b.Min, 'f', 2, 64)
	}
	return strconv.FormatFloat(b.Min, 'f', 2, 64) + " a " + strconv.FormatFloat(b.Max, 'f', 2, 64)
}
