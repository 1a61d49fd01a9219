package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its response. When the
	// request carries a Schema, the provider asks for JSON matching it and
	// Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history. Calcitb only ever sends a
	// single user turn.
	Messages []Message

	// Schema, when set, constrains the response to JSON of that shape.
	// When nil, the response Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are attached after the text. Only user messages carry them.
	Images []Image
}

// Image is an inline binary attachment.
type Image struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "abi-readings".
	Name string

	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON when a Schema was requested, otherwise
	// the raw model text.
	Content json.RawMessage

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as a plain string with surrounding whitespace removed.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
