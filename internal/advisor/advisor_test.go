package advisor

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/abhisek/calcitb/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestExplain_SendsPromptWithDefaults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("## Significado\nSeu ITB está normal."))
	a := New(mock, DefaultConfig())

	text, err := a.Explain(context.Background(), ExplainInput{Score: 1.1})
	require.NoError(t, err)
	assert.Equal(t, "## Significado\nSeu ITB está normal.", text)

	req, ok := mock.LastRequest()
	require.True(t, ok)
	require.Len(t, req.Messages, 1)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "o resultado foi: 1.1.")
	assert.Contains(t, prompt, "Idade do usuário: Não informada.")
	assert.Contains(t, prompt, "Sintomas relatados: Nenhum.")
	assert.Contains(t, prompt, "não substitui uma consulta médica real")
	assert.Nil(t, req.Schema)
}

func TestExplain_IncludesContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("ok"))
	a := New(mock, DefaultConfig())

	_, err := a.Explain(context.Background(), ExplainInput{Score: 0.9, Age: "67", Symptoms: "dor ao caminhar"})
	require.NoError(t, err)

	req, _ := mock.LastRequest()
	assert.Contains(t, req.Messages[0].Content, "o resultado foi: 0.9.")
	assert.Contains(t, req.Messages[0].Content, "Idade do usuário: 67.")
	assert.Contains(t, req.Messages[0].Content, "Sintomas relatados: dor ao caminhar.")
}

func TestExplain_ProviderErrorIsReturned(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	a := New(mock, DefaultConfig())

	_, err := a.Explain(context.Background(), ExplainInput{Score: 1.0})
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestExplain_EmptyResponseIsError(t *testing.T) {
	a := New(llm.NewMockProvider(llm.MockText("   ")), DefaultConfig())
	_, err := a.Explain(context.Background(), ExplainInput{Score: 1.0})
	assert.Error(t, err)
}

func TestExtractReadings_SendsImageAndSchema(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"armSystolic":null,"ankleSystolic":115}`))
	a := New(mock, DefaultConfig())

	r, err := a.ExtractReadings(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Nil(t, r.ArmSystolic)
	require.NotNil(t, r.AnkleSystolic)
	assert.Equal(t, 115, *r.AnkleSystolic)

	req, _ := mock.LastRequest()
	assert.Same(t, ReadingsSchema, req.Schema)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "image/png", req.Messages[0].Images[0].MIMEType)
	assert.Contains(t, req.Messages[0].Content, "armSystolic")
}

func TestExtractReadings_RejectsNonImage(t *testing.T) {
	mock := llm.NewMockProvider()
	a := New(mock, DefaultConfig())

	_, err := a.ExtractReadings(context.Background(), []byte("just some text"))
	assert.Error(t, err)
	assert.Equal(t, 0, mock.CallCount(), "provider must not be called")
}

func TestExtractReadings_GarbageIsError(t *testing.T) {
	a := New(llm.NewMockProvider(llm.MockText("não consegui ler")), DefaultConfig())
	_, err := a.ExtractReadings(context.Background(), pngHeader)
	assert.Error(t, err)
	assert.True(t, llm.IsInvalidResponse(err))
	assert.False(t, llm.Transient(err))
}

func TestParseReadings(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name    string
		in      string
		want    Readings
		wantErr bool
	}{
		{"both", `{"armSystolic":120,"ankleSystolic":108}`, Readings{intp(120), intp(108)}, false},
		{"fenced", "```json\n{\"armSystolic\":130,\"ankleSystolic\":null}\n```", Readings{intp(130), nil}, false},
		{"padded", "\n  {\"armSystolic\":null,\"ankleSystolic\":null}  ", Readings{}, false},
		{"float whole", `{"armSystolic":120.0,"ankleSystolic":99}`, Readings{intp(120), intp(99)}, false},
		{"float fraction dropped", `{"armSystolic":120.5,"ankleSystolic":99}`, Readings{nil, intp(99)}, false},
		{"missing fields", `{}`, Readings{}, false},
		{"empty", ``, Readings{}, true},
		{"prose", `os valores são 120 e 108`, Readings{}, true},
		{"numeric string", `{"armSystolic":"120"}`, Readings{intp(120), nil}, false},
		{"non-numeric string", `{"armSystolic":"abc"}`, Readings{}, true},
		{"null document", `null`, Readings{}, true},
		{"array document", `[120, 108]`, Readings{}, true},
		{"nested value", `{"armSystolic":{"value":120}}`, Readings{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReadings([]byte(tt.in))
			if tt.wantErr {
				assert.True(t, llm.IsInvalidResponse(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSniffImageMIME(t *testing.T) {
	mime, err := SniffImageMIME([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	mime, err = SniffImageMIME(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = SniffImageMIME(nil)
	assert.Error(t, err)
	_, err = SniffImageMIME([]byte("%PDF-1.4"))
	assert.Error(t, err)
}

func TestDecodeImage(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(pngHeader)

	got, err := DecodeImage(b64)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	got, err = DecodeImage("data:image/png;base64," + b64)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	_, err = DecodeImage("data:image/png;base64")
	assert.Error(t, err)
	_, err = DecodeImage("***")
	assert.Error(t, err)
}
