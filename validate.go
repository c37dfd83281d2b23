package authkit

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// normalizeName lowercases and trims an identifier the way every name-like
// column is stored (tenant names, domains, user names, emails).
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isUUIDLiteral reports whether s parses as a canonical UUID. User and role
// names that look like UUIDs are rejected so APIs that accept either a name
// or an id never misroute.
func isUUIDLiteral(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// validatePrincipalName checks a user or role name: non-empty and not a UUID
// literal. The name is expected to be normalized already.
func validatePrincipalName(kind, name string) error {
	if name == "" {
		return NewError(ErrInvalidParameter, kind+" name is required")
	}
	if isUUIDLiteral(name) {
		return NewError(ErrInvalidParameter, kind+" name cannot be a UUID")
	}
	return nil
}

// validateEmail checks the address format. The normalized (lowercased) form
// is what gets stored.
func validateEmail(email string) error {
	if email == "" {
		return NewError(ErrInvalidParameter, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return NewError(ErrInvalidParameter, "invalid email address")
	}
	return nil
}

// validatePermissionName enforces the reserved-sigil rule: global permission
// names start with GlobalPermissionPrefix, tenant permission names do not.
// An empty name is allowed on update (meaning "leave unchanged").
func validatePermissionName(name string, global bool) error {
	if name == "" {
		return nil
	}
	if global && !strings.HasPrefix(name, GlobalPermissionPrefix) {
		return NewError(ErrInvalidParameter, "global permissions must start with "+GlobalPermissionPrefix)
	}
	if !global && strings.HasPrefix(name, GlobalPermissionPrefix) {
		return NewError(ErrInvalidParameter, "local permissions cannot start with "+GlobalPermissionPrefix)
	}
	return nil
}
