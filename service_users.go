package authkit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// USER DIRECTORY
// ============================================================================

// NewUser carries the fields for CreateUser. Password is optional; when set,
// an initial login credential is created alongside the user.
type NewUser struct {
	UserName string
	Email    string
	Password string
}

// UserPatch is a partial update for a user. Empty fields are left unchanged.
type UserPatch struct {
	UserName string
	Email    string
}

// CreateUser creates a user owned by the given tenant (root tenant when
// tenantID is empty). The user name is lowercase-normalized, must not be a
// UUID literal and is unique within the tenant; the email address is
// validated and lowercase-normalized.
func (s *Service) CreateUser(ctx context.Context, tenantID string, nu NewUser) (*User, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	userName := normalizeName(nu.UserName)
	email := normalizeName(nu.Email)
	if err := validatePrincipalName("user", userName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user := &User{
		UserID:   uuid.NewString(),
		TenantID: tenantID,
		UserName: userName,
		Email:    email,
	}
	result, err := s.db.NewInsert().Model(user).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateUser").Err(); err != nil {
		return nil, err
	}

	if nu.Password != "" {
		if _, err := s.CreateLogin(ctx, user.UserID, nu.Password); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ListUsers returns the tenant's users ordered by name, paginated.
func (s *Service) ListUsers(ctx context.Context, tenantID string, filter PageFilter) ([]User, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var users []User
	err := dbkit.WithErr1(s.db.NewSelect().Model(&users).
		Where("tenant_id = ?", tenantID).
		Order("user_name ASC").
		Limit(filter.limitOr(s.config.PageLimit)).
		Offset(filter.Offset).
		Scan(ctx), "ListUsers").Err()
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByID returns a user by id, or nil when it does not exist.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	err := dbkit.WithErr1(s.db.NewSelect().Model(&user).Where("user_id = ?", userID).Limit(1).Scan(ctx), "GetUserByID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByName returns the tenant's user with the given name (exact match
// after normalization), or nil.
func (s *Service) GetUserByName(ctx context.Context, tenantID, userName string) (*User, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var user User
	err := dbkit.WithErr1(s.db.NewSelect().Model(&user).
		Where("tenant_id = ?", tenantID).
		Where("user_name = ?", normalizeName(userName)).
		Limit(1).Scan(ctx), "GetUserByName").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByEmail returns every user in the tenant with the given email.
// Email is not unique, so several users can share one address.
func (s *Service) GetUsersByEmail(ctx context.Context, tenantID, email string) ([]User, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var users []User
	err := dbkit.WithErr1(s.db.NewSelect().Model(&users).
		Where("tenant_id = ?", tenantID).
		Where("email = ?", normalizeName(email)).
		Scan(ctx), "GetUsersByEmail").Err()
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByNameOrEmail returns a user matched by name or by email. Exactly
// one of the two filters may be supplied; when matching by email the first
// match by creation time is returned.
func (s *Service) GetUserByNameOrEmail(ctx context.Context, tenantID, userName, email string) (*User, error) {
	if userName != "" && email != "" {
		return nil, NewError(ErrInvalidParameter, "cannot specify both userName and email")
	}
	if userName == "" && email == "" {
		return nil, NewError(ErrInvalidParameter, "one of userName or email must be specified")
	}
	if userName != "" {
		return s.GetUserByName(ctx, tenantID, userName)
	}

	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var user User
	err := dbkit.WithErr1(s.db.NewSelect().Model(&user).
		Where("tenant_id = ?", tenantID).
		Where("email = ?", normalizeName(email)).
		Order("created_at ASC").
		Limit(1).Scan(ctx), "GetUserByNameOrEmail").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial patch and bumps modified_at. Returns the
// number of rows updated.
func (s *Service) UpdateUser(ctx context.Context, userID string, patch UserPatch) (int64, error) {
	q := s.db.NewUpdate().Model((*User)(nil)).
		Set("modified_at = ?", time.Now()).
		Where("user_id = ?", userID)
	if patch.UserName != "" {
		userName := normalizeName(patch.UserName)
		if err := validatePrincipalName("user", userName); err != nil {
			return 0, err
		}
		q = q.Set("user_name = ?", userName)
	}
	if patch.Email != "" {
		email := normalizeName(patch.Email)
		if err := validateEmail(email); err != nil {
			return 0, err
		}
		q = q.Set("email = ?", email)
	}

	result, err := q.Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateUser").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// SetEmailVerified stamps email_verified_at for a user. Hosts call this once
// their verification flow proves ownership of the address; password reset is
// refused for users without the stamp.
func (s *Service) SetEmailVerified(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.NewUpdate().Model((*User)(nil)).
		Set("email_verified_at = ?", time.Now()).
		Set("modified_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "SetEmailVerified").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// RemoveUser hard-deletes a user; logins, attempts, reset requests and role
// edges cascade. Returns the number of rows deleted.
func (s *Service) RemoveUser(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.NewDelete().Model((*User)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveUser").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
