package authkit

import (
	"context"
)

// Context keys for AuthKit values.
type contextKey string

const (
	contextKeyClientIP  contextKey = "authkit:client_ip"
	contextKeyRequestID contextKey = "authkit:request_id"
)

// WithClientIP adds the client IP address to the context. Credential
// operations that take an IP parameter fall back to this value when the
// parameter is empty, so HTTP hosts can set it once in middleware.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyClientIP, ip)
}

// GetClientIP retrieves the client IP address from context.
// Returns empty string if not set.
func GetClientIP(ctx context.Context) string {
	if v := ctx.Value(contextKeyClientIP); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context (for correlation).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// clientIPOr resolves an explicit IP parameter against the context fallback.
func clientIPOr(ctx context.Context, ip string) string {
	if ip != "" {
		return ip
	}
	return GetClientIP(ctx)
}
