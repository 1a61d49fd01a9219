package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/calcitb/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// eventRepo may be nil, in which case calls are not audited.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// NewProviderFromEnv resolves configuration from CALCITB_* variables, then
// from the vendors' standard key variables, and builds the provider.
// override, when non-empty, forces the provider name.
func NewProviderFromEnv(ctx context.Context, override string, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if override != "" {
		cfg.Provider = override
	}
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok || override != "" && discovered.Provider != override {
			return nil, err
		}
		cfg = discovered
	}
	return NewProvider(ctx, cfg, eventRepo)
}
