package itb

const (
	fallbackMessage        = "Valor fora do padrão"
	fallbackRecommendation = "Consulte um médico."
)

// FallbackStyle is the neutral hint used when no band matches.
var FallbackStyle = Style{Text: "text-gray-700"}

// Classify maps a score to its band. It scans Bands in order and returns
// the first inclusive match. Scores that match nothing (band gaps,
// negatives, NaN, ±Inf) yield FallbackResult. Classify never panics.
func Classify(score float64) Result {
	for _, b := range Bands {
		if b.Contains(score) {
			return Result{
				Score:          score,
				Category:       b.Category,
				Style:          b.Style,
				Message:        b.Message,
				Recommendation: b.Recommendation,
			}
		}
	}
	return FallbackResult(score)
}

// FallbackResult is the result returned for unmatched scores. The NORMAL
// category here is inherited behaviour and is pending clinical review.
func FallbackResult(score float64) Result {
	return Result{
		Score:          score,
		Category:       CategoryNormal,
		Style:          FallbackStyle,
		Message:        fallbackMessage,
		Recommendation: fallbackRecommendation,
	}
}

// IsFallback reports whether r came from the no-match path.
func IsFallback(r Result) bool {
	return r.Message == fallbackMessage && r.Style == FallbackStyle
}
