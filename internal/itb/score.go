package itb

import (
	"math"
	"strconv"
)

// RoundScore rounds to two decimals, half away from zero, on the float64
// value as stored. A nominal x.xx5 that is represented just below the
// midpoint rounds down.
func RoundScore(x float64) float64 {
	return math.Round(x*100) / 100
}

// ComputeScore parses the two raw readings and returns ankle/arm rounded to
// two decimals. ok is false when either value is empty, unparseable,
// non-finite or zero; no score is produced in that case.
func ComputeScore(arm, ankle string) (score float64, ok bool) {
	a, ok := parseReading(arm)
	if !ok {
		return 0, false
	}
	k, ok := parseReading(ankle)
	if !ok {
		return 0, false
	}
	return RoundScore(k / a), true
}

// Evaluate computes the score for r and classifies it.
func Evaluate(r Reading) (Result, bool) {
	score, ok := ComputeScore(r.Arm, r.Ankle)
	if !ok {
		return Result{}, false
	}
	return Classify(score), true
}

func parseReading(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0, false
	}
	return v, true
}
