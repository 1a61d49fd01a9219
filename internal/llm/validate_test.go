package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-patient",
		Description: "A patient header",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
				"age":  map[string]any{"type": "integer", "minimum": 0},
				"side": map[string]any{"type": "string", "enum": []any{"left", "right"}},
			},
			"required": []any{"name", "age"},
		},
	}
}

func readingsSchema() *Schema {
	return &Schema{
		Name: "test-readings",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"armSystolic":   map[string]any{"type": []any{"integer", "null"}},
				"ankleSystolic": map[string]any{"type": []any{"integer", "null"}},
			},
			"required": []string{"armSystolic", "ankleSystolic"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"valid", testSchema(), `{"name":"Ana","age":61,"side":"left"}`, false},
		{"optional omitted", testSchema(), `{"name":"Ana","age":61}`, false},
		{"missing required", testSchema(), `{"name":"Ana"}`, true},
		{"wrong type", testSchema(), `{"name":"Ana","age":"61"}`, true},
		{"enum", testSchema(), `{"name":"Ana","age":61,"side":"both"}`, true},
		{"malformed", testSchema(), `{not json}`, true},
		{"empty", testSchema(), ``, true},
		{"nil schema", nil, `{"anything":"goes"}`, false},
		{"readings", readingsSchema(), `{"armSystolic":120,"ankleSystolic":108}`, false},
		{"readings null", readingsSchema(), `{"armSystolic":120,"ankleSystolic":null}`, false},
		{"readings as text", readingsSchema(), `{"armSystolic":"120","ankleSystolic":null}`, true},
		{"readings missing", readingsSchema(), `{"armSystolic":120}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("expected content to be kept, got %q", inv.Content)
			}
		})
	}
}

func TestValidateJSON_CachesCompiledSchema(t *testing.T) {
	s := readingsSchema()
	s.Name = "test-readings-cache"
	if err := ValidateJSON(s, json.RawMessage(`{"armSystolic":1,"ankleSystolic":2}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
