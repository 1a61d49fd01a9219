package llm

import "context"

type contextKey string

const (
	purposeKey   contextKey = "llm_purpose"
	requestIDKey contextKey = "llm_request_id"
)

// Purposes used by calcitb when labelling calls for the audit log.
const (
	PurposeExplain = "explain"
	PurposeScan    = "scan"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithRequestID tags the context with a caller-side correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the correlation ID, or "" if none was set.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
