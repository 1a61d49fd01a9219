package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// relaxedSafety turns off blocking for the four adjustable harm categories.
var relaxedSafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
}

// GeminiProvider implements Provider using the Google Gen AI SDK.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	relaxSafety bool
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		model:       resolveModel(cfg.Model, geminiModels),
		relaxSafety: cfg.RelaxSafety,
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	if p.relaxSafety {
		config.SafetySettings = relaxedSafety
	}

	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	contents := buildGeminiContents(req.Messages)

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	stop := mapGeminiStopReason(result)
	content := json.RawMessage(result.Text())
	if stop == "max_tokens" && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}

	if req.Schema != nil {
		content = StripCodeFence(content)
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	resp := &Response{
		Content:    content,
		Model:      p.model,
		StopReason: stop,
	}

	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return resp, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		parts := make([]*genai.Part, 0, len(m.Images)+1)
		for _, img := range m.Images {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
			})
		}
		if m.Content != "" {
			parts = append(parts, &genai.Part{Text: m.Content})
		}
		out[i] = &genai.Content{Role: role, Parts: parts}
	}
	return out
}

// buildGeminiSchema converts a JSON Schema definition map to a genai.Schema.
// A ["T", "null"] type union becomes a nullable T.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	switch t := def["type"].(type) {
	case string:
		schema.Type = mapGeminiType(t)
	case []any:
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if s == "null" {
				nullable := true
				schema.Nullable = &nullable
				continue
			}
			schema.Type = mapGeminiType(s)
		}
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if enums, ok := def["enum"].([]any); ok {
		for _, e := range enums {
			if s, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	return schema
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapGeminiStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 {
		switch result.Candidates[0].FinishReason {
		case genai.FinishReasonStop:
			return "end"
		case genai.FinishReasonMaxTokens:
			return "max_tokens"
		case genai.FinishReasonSafety:
			return "error"
		}
	}
	return "end"
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, err)
	}
	return &ErrProviderUnavailable{Err: err}
}

// classifyStatus maps an HTTP status from any vendor SDK onto the typed
// errors the retry layer understands.
func classifyStatus(code int, err error) error {
	switch {
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case code >= 500:
		return &ErrProviderUnavailable{Err: err}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &ErrAuth{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
