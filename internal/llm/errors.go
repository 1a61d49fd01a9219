package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered but the content did not parse
// or did not match the requested schema. Content keeps what came back.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return "invalid LLM response: " + errText(e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx answers, refusals and network failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrAuth is a rejected API key (401/403).
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return "LLM provider rejected credentials: " + errText(e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a response cut off at the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// Transient reports whether err may go away on its own: rate limits,
// outages and bare network errors. Cancellation, bad credentials,
// truncation and malformed content are not transient.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		auth  *ErrAuth
		trunc *ErrMaxTokensExceeded
	)
	if errors.As(err, &auth) || errors.As(err, &trunc) || IsInvalidResponse(err) {
		return false
	}
	return true
}

// IsInvalidResponse reports whether err wraps an *ErrInvalidResponse.
func IsInvalidResponse(err error) bool {
	var inv *ErrInvalidResponse
	return errors.As(err, &inv)
}

// RetryAfter is the provider's requested back-off, or zero.
func RetryAfter(err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
