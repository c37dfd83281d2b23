package authkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Tenant is an isolated ownership realm for users, roles and permissions.
// Two reserved tenants exist after bootstrap: root (default scope) and global
// (owner of global permissions); both are marked non-deletable.
type Tenant struct {
	bun.BaseModel `bun:"table:tenants,alias:t"`

	TenantID     string    `bun:"tenant_id,pk,type:uuid"`
	TenantName   string    `bun:"tenant_name,notnull,unique"`
	Domain       string    `bun:"domain,notnull,unique"`
	CanBeDeleted bool      `bun:"can_be_deleted,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	ModifiedAt   time.Time `bun:"modified_at,notnull,default:current_timestamp"`
}

// User belongs to exactly one tenant. User names are lowercase-normalized and
// unique within their tenant, and may not be UUID literals.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID          string     `bun:"user_id,pk,type:uuid"`
	TenantID        string     `bun:"tenant_id,notnull,type:uuid"`
	UserName        string     `bun:"user_name,notnull"`
	Email           string     `bun:"email"`
	EmailVerifiedAt *time.Time `bun:"email_verified_at"`
	NeedNewPassword bool       `bun:"need_new_password,notnull,default:false"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	ModifiedAt      time.Time  `bun:"modified_at,notnull,default:current_timestamp"`
}

// Login is one password credential for a user. A user accumulates one row per
// password change; the newest row by CreatedAt is the authoritative one.
// Rows are never updated or deleted except by cascade.
type Login struct {
	bun.BaseModel `bun:"table:logins,alias:l"`

	LoginID      string    `bun:"login_id,pk,type:uuid"`
	UserID       string    `bun:"user_id,notnull,type:uuid"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// LoginAttempt is an append-only audit record of one verification attempt.
type LoginAttempt struct {
	bun.BaseModel `bun:"table:login_attempts,alias:la"`

	UserID  string    `bun:"user_id,type:uuid"`
	Success bool      `bun:"success"`
	LoginIP string    `bun:"login_ip"`
	LoginAt time.Time `bun:"login_at,notnull,default:current_timestamp"`
}

// PasswordResetRequest is a time-boxed, single-use credential recovery
// ticket. A request is active while ExpireAt is in the future and ResetAt is
// unset; at most one active request exists per user at a time.
type PasswordResetRequest struct {
	bun.BaseModel `bun:"table:password_reset_requests,alias:prr"`

	RequestID   string     `bun:"request_id,pk,type:uuid"`
	UserID      string     `bun:"user_id,notnull,type:uuid"`
	RequestCode string     `bun:"request_code,notnull,unique"`
	RequestAt   time.Time  `bun:"request_at,notnull,default:current_timestamp"`
	ExpireAt    time.Time  `bun:"expire_at,notnull"`
	RequestIP   string     `bun:"request_ip"`
	ResetAt     *time.Time `bun:"reset_at"`
	ResetIP     string     `bun:"reset_ip"`
}

// Active reports whether the request can still be consumed at the given
// instant.
func (r *PasswordResetRequest) Active(now time.Time) bool {
	return r.ResetAt == nil && r.ExpireAt.After(now)
}

// Role is a tenant-owned, named set of permission grants. Role names are
// unique within their tenant and may not be UUID literals. Protected roles
// (CanBeDeleted=false) survive RemoveRole.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	RoleID       string    `bun:"role_id,pk,type:uuid"`
	TenantID     string    `bun:"tenant_id,notnull,type:uuid"`
	RoleName     string    `bun:"role_name,notnull"`
	Description  string    `bun:"description"`
	CanBeDeleted bool      `bun:"can_be_deleted,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	ModifiedAt   time.Time `bun:"modified_at,notnull,default:current_timestamp"`
}

// Permission is a named capability owned by one regular tenant (Global=false)
// or by the global tenant (Global=true). Names are not unique across scopes;
// lookups resolve duplicates with tenant-before-global precedence.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	PermissionID string    `bun:"permission_id,pk,type:uuid"`
	TenantID     string    `bun:"tenant_id,notnull,type:uuid"`
	Permission   string    `bun:"permission,notnull"`
	Description  string    `bun:"description"`
	Global       bool      `bun:"global,notnull,default:false"`
	CanBeDeleted bool      `bun:"can_be_deleted,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	ModifiedAt   time.Time `bun:"modified_at,notnull,default:current_timestamp"`
}

// UserRole links a user to a role. Both endpoints must belong to the same
// tenant; the pair is unique.
type UserRole struct {
	bun.BaseModel `bun:"table:users_roles,alias:ur"`

	UserID    string    `bun:"user_id,pk,type:uuid"`
	RoleID    string    `bun:"role_id,pk,type:uuid"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// RolePermission links a role to a permission. Denied marks an explicit
// revocation rather than a grant; a deny always beats a grant of the same
// permission name when the effective grant set is computed.
type RolePermission struct {
	bun.BaseModel `bun:"table:roles_permissions,alias:rp"`

	RoleID       string    `bun:"role_id,pk,type:uuid"`
	PermissionID string    `bun:"permission_id,pk,type:uuid"`
	Denied       bool      `bun:"denied,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// EmailVerification is a pending proof of email ownership. AuthKit only
// consults users.email_verified_at; hosts drive the verification flow and
// stamp VerifiedAt through their own delivery channel.
type EmailVerification struct {
	bun.BaseModel `bun:"table:email_verifications,alias:ev"`

	VerificationID   string     `bun:"verification_id,pk,type:uuid"`
	UserID           string     `bun:"user_id,notnull,type:uuid"`
	VerificationCode string     `bun:"verification_code,notnull"`
	Email            string     `bun:"email,notnull"`
	RequestAt        time.Time  `bun:"request_at,notnull,default:current_timestamp"`
	ExpireAt         time.Time  `bun:"expire_at,notnull"`
	VerifiedAt       *time.Time `bun:"verified_at"`
}
