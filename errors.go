package authkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for AuthKit operations.
var (
	// ErrInvalidParameter is returned for every caller-input violation:
	// missing required fields, mutually exclusive fields both set, malformed
	// names or emails, tenant mismatches on assignment, or malformed
	// permission requirements. It is always raised before any store mutation
	// for the failing call.
	ErrInvalidParameter = errors.New("authkit: invalid parameter")

	// ErrNotFound is returned when an operation requires an entity that does
	// not exist (an unknown role name in a replace-all assignment, for
	// example). Plain lookups return nil instead of this error.
	ErrNotFound = errors.New("authkit: not found")

	// ErrDatabaseError is returned when a store operation fails for reasons
	// other than a constraint violation. Constraint violations propagate
	// unmodified from dbkit so callers keep dbkit.IsDuplicate et al.
	ErrDatabaseError = errors.New("authkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err      error  // Underlying sentinel error
	Message  string // Additional context
	TenantID string // Tenant involved (if applicable)
	UserID   string // User involved (if applicable)
	RoleID   string // Role involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithTenant adds tenant information to the error.
func (e *Error) WithTenant(tenantID string) *Error {
	e.TenantID = tenantID
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(roleID string) *Error {
	e.RoleID = roleID
	return e
}

// IsInvalidParameter checks if an error is a caller-input violation.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsNotFound checks if an error is due to a missing required entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
