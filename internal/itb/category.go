package itb

// Category is the clinical bucket a score falls into.
type Category string

const (
	CategoryCalcification Category = "CALCIFICATION"
	CategoryNormal        Category = "NORMAL"
	CategoryBorderline    Category = "BORDERLINE"
	CategoryMildPAD       Category = "MILD_PAD"

	// Declared for completeness; no band currently maps to these.
	CategoryModeratePAD Category = "MODERATE_PAD"
	CategorySeverePAD   Category = "SEVERE_PAD"
)

// Style is the display hint attached to a result. Text is a semantic
// class list understood by renderers; Bar is a hex colour for gauges.
type Style struct {
	Text string `json:"text"`
	Bar  string `json:"bar,omitempty"`
}

// Result is the outcome of classifying a single score.
type Result struct {
	Score          float64  `json:"score"`
	Category       Category `json:"category"`
	Style          Style    `json:"style"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}
