package advisor

import "github.com/abhisek/calcitb/internal/llm"

// ReadingsSchema constrains the scan response.
var ReadingsSchema = &llm.Schema{
	Name:        "itb-readings",
	Description: "Arm and ankle systolic pressures read from an image",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"armSystolic": map[string]any{
				"type":        []any{"number", "null"},
				"description": "Arm systolic pressure in mmHg, or null if not clearly visible",
			},
			"ankleSystolic": map[string]any{
				"type":        []any{"number", "null"},
				"description": "Ankle systolic pressure in mmHg, or null if not clearly visible",
			},
		},
		"required": []any{"armSystolic", "ankleSystolic"},
	},
}

// recoveredReadingsSchema is the looser contract for readings recovered
// from free text: keys may be missing and values may arrive as numeric
// strings, but the answer must still be an object of scalar readings.
var recoveredReadingsSchema = &llm.Schema{
	Name: "itb-readings-recovered",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"armSystolic":   map[string]any{"type": []any{"number", "string", "null"}},
			"ankleSystolic": map[string]any{"type": []any{"number", "string", "null"}},
		},
	},
}
