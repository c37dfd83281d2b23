package authkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClientIPContext tests storing and retrieving the client IP
func TestClientIPContext(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "", GetClientIP(ctx))

	ctx = WithClientIP(ctx, "203.0.113.7")
	assert.Equal(t, "203.0.113.7", GetClientIP(ctx))

	// Overwriting replaces the value
	ctx = WithClientIP(ctx, "198.51.100.2")
	assert.Equal(t, "198.51.100.2", GetClientIP(ctx))
}

// TestRequestIDContext tests storing and retrieving the request ID
func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "", GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
}

// TestClientIPOr tests the explicit-parameter-over-context fallback
func TestClientIPOr(t *testing.T) {
	ctx := WithClientIP(context.Background(), "203.0.113.7")

	// Explicit parameter wins
	assert.Equal(t, "10.0.0.1", clientIPOr(ctx, "10.0.0.1"))

	// Empty parameter falls back to the context
	assert.Equal(t, "203.0.113.7", clientIPOr(ctx, ""))

	// Neither set
	assert.Equal(t, "", clientIPOr(context.Background(), ""))
}
