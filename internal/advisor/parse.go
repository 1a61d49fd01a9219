package advisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/abhisek/calcitb/internal/llm"
)

type rawReadings struct {
	ArmSystolic   *json.Number `json:"armSystolic"`
	AnkleSystolic *json.Number `json:"ankleSystolic"`
}

// ParseReadings decodes a scan response. Code fences and surrounding
// whitespace are tolerated; anything else that is not a JSON object is an
// *llm.ErrInvalidResponse. Values that are not whole numbers are dropped.
func ParseReadings(raw []byte) (Readings, error) {
	clean := llm.StripCodeFence(raw)
	if len(clean) == 0 {
		return Readings{}, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("parse readings: empty response")}
	}

	if err := llm.ValidateJSON(recoveredReadingsSchema, clean); err != nil {
		return Readings{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.UseNumber()

	var r rawReadings
	if err := dec.Decode(&r); err != nil {
		return Readings{}, &llm.ErrInvalidResponse{Content: raw, Err: fmt.Errorf("parse readings: %w", err)}
	}

	return Readings{
		ArmSystolic:   wholeNumber(r.ArmSystolic),
		AnkleSystolic: wholeNumber(r.AnkleSystolic),
	}, nil
}

func wholeNumber(n *json.Number) *int {
	if n == nil {
		return nil
	}
	if v, err := strconv.Atoi(n.String()); err == nil {
		return &v
	}
	f, err := n.Float64()
	if err != nil || f != float64(int(f)) {
		return nil
	}
	v := int(f)
	return &v
}
