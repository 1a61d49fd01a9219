// Package advisor is the boundary to the external reasoning service: it
// turns an ABI score into a plain-language explanation and a photo of a
// note or monitor into the two systolic readings.
package advisor

import (
	"context"
	"fmt"

	"github.com/abhisek/calcitb/internal/llm"
)

// Advisor explains scores and reads pressures from images. Callers own
// error handling; see session for the fixed fallbacks.
type Advisor interface {
	Explain(ctx context.Context, in ExplainInput) (string, error)
	ExtractReadings(ctx context.Context, image []byte) (Readings, error)
}

// ExplainInput is the context sent along with a score.
type ExplainInput struct {
	Score    float64
	Age      string
	Symptoms string
}

// Readings are the values found in an image. A nil field was not found.
type Readings struct {
	ArmSystolic   *int `json:"armSystolic"`
	AnkleSystolic *int `json:"ankleSystolic"`
}

// Config tunes the LLM calls.
type Config struct {
	ExplainMaxTokens int
	ScanMaxTokens    int
	Temperature      float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ExplainMaxTokens: 2048,
		ScanMaxTokens:    256,
		Temperature:      0.4,
	}
}

// LLMAdvisor implements Advisor over an llm.Provider.
type LLMAdvisor struct {
	provider llm.Provider
	cfg      Config
}

var _ Advisor = (*LLMAdvisor)(nil)

// New creates an LLM-backed advisor.
func New(provider llm.Provider, cfg Config) *LLMAdvisor {
	return &LLMAdvisor{provider: provider, cfg: cfg}
}

// ModelID reports the model behind the advisor.
func (a *LLMAdvisor) ModelID() string {
	return a.provider.ModelID()
}

// Explain asks for a markdown explanation of the score.
func (a *LLMAdvisor) Explain(ctx context.Context, in ExplainInput) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	prompt, err := buildExplainPrompt(in)
	if err != nil {
		return "", fmt.Errorf("build explain prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   a.cfg.ExplainMaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM explanation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("LLM explanation failed: empty response")
	}
	return text, nil
}

// ExtractReadings sends the image with the extraction prompt and decodes
// the structured answer.
func (a *LLMAdvisor) ExtractReadings(ctx context.Context, image []byte) (Readings, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeScan)

	mime, err := SniffImageMIME(image)
	if err != nil {
		return Readings{}, err
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: scanPrompt,
			Images:  []llm.Image{{MIMEType: mime, Data: image}},
		}},
		Schema:    ReadingsSchema,
		MaxTokens: a.cfg.ScanMaxTokens,
	})
	if err != nil {
		return Readings{}, fmt.Errorf("LLM scan failed: %w", err)
	}

	return ParseReadings(resp.Content)
}
