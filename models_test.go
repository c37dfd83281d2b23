package authkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestPasswordResetRequestActive tests the active-window predicate
func TestPasswordResetRequestActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	req := &PasswordResetRequest{ExpireAt: now.Add(time.Hour)}
	assert.True(t, req.Active(now))

	// Expired
	req = &PasswordResetRequest{ExpireAt: now.Add(-time.Minute)}
	assert.False(t, req.Active(now))

	// Expiring exactly now is no longer active
	req = &PasswordResetRequest{ExpireAt: now}
	assert.False(t, req.Active(now))

	// Consumed requests are inactive even inside the window
	resetAt := now.Add(-time.Minute)
	req = &PasswordResetRequest{ExpireAt: now.Add(time.Hour), ResetAt: &resetAt}
	assert.False(t, req.Active(now))
}

// TestUserZeroValues tests the optional user fields' zero state
func TestUserZeroValues(t *testing.T) {
	var user User

	assert.Nil(t, user.EmailVerifiedAt)
	assert.False(t, user.NeedNewPassword)
}

// TestVerifyLoginResultZeroValue tests the result returned for unknown users
func TestVerifyLoginResultZeroValue(t *testing.T) {
	var result VerifyLoginResult

	assert.Nil(t, result.User)
	assert.False(t, result.Success)
	assert.False(t, result.IsKnown)
}
