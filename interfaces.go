package authkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// The interfaces below carve the Service method set into the components a
// host usually wires separately: the tenant/permission/role graph, the
// authorization evaluator and the credential lifecycle. Accept the narrow
// interface you need; *Service satisfies all of them.

// TenantCatalog manages tenant records.
type TenantCatalog interface {
	CreateTenant(ctx context.Context, tenantName, domain string) (*Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string) (*Tenant, error)
	GetTenantByNameOrDomain(ctx context.Context, tenantName, domain string) (*Tenant, error)
	ListTenants(ctx context.Context, filter PageFilter) ([]Tenant, error)
	UpdateTenant(ctx context.Context, tenantID string, patch TenantPatch) (int64, error)
	RemoveTenant(ctx context.Context, tenantID string) (int64, error)
}

// UserDirectory manages user records within tenants.
type UserDirectory interface {
	CreateUser(ctx context.Context, tenantID string, nu NewUser) (*User, error)
	ListUsers(ctx context.Context, tenantID string, filter PageFilter) ([]User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByName(ctx context.Context, tenantID, userName string) (*User, error)
	GetUsersByEmail(ctx context.Context, tenantID, email string) ([]User, error)
	GetUserByNameOrEmail(ctx context.Context, tenantID, userName, email string) (*User, error)
	UpdateUser(ctx context.Context, userID string, patch UserPatch) (int64, error)
	SetEmailVerified(ctx context.Context, userID string) (int64, error)
	RemoveUser(ctx context.Context, userID string) (int64, error)
}

// PermissionCatalog manages permission definitions and the global-vs-tenant
// resolution rules.
type PermissionCatalog interface {
	CreatePermission(ctx context.Context, np NewPermission) (*Permission, error)
	GetPermissionByID(ctx context.Context, permissionID string) (*Permission, error)
	GetPermissionByName(ctx context.Context, tenantID, name string) (*Permission, error)
	ListPermissions(ctx context.Context, tenantID string) ([]Permission, error)
	UpdatePermission(ctx context.Context, permissionID string, patch PermissionPatch) (int64, error)
	RemovePermission(ctx context.Context, permissionID string) (int64, error)
	ListRolePermissionsByID(ctx context.Context, roleID string) ([]RolePermissionView, error)
	ListRolePermissionsByName(ctx context.Context, tenantID, roleName string) ([]RolePermissionView, error)
}

// RoleGraph manages roles and the user/role and role/permission edges.
type RoleGraph interface {
	CreateRole(ctx context.Context, tenantID, roleName, description string) (*Role, error)
	GetRoleByID(ctx context.Context, roleID string) (*Role, error)
	GetRoleByName(ctx context.Context, tenantID, roleName string) (*Role, error)
	ListRoles(ctx context.Context, tenantID string, filter PageFilter) ([]Role, error)
	UpdateRole(ctx context.Context, roleID string, patch RolePatch) (int64, error)
	RemoveRole(ctx context.Context, roleID string) (int64, error)
	AssignUserRole(ctx context.Context, userID, roleID string) error
	RemoveUserRole(ctx context.Context, userID, roleID string) (int64, error)
	ListUserRoles(ctx context.Context, userID string) ([]Role, error)
	GrantRolePermission(ctx context.Context, roleID, permissionID string) error
	DenyRolePermission(ctx context.Context, roleID, permissionID string) error
	RemoveRolePermission(ctx context.Context, roleID, permissionID string) (int64, error)
	SetUserRolesByName(ctx context.Context, tenantID, userName string, roleNames []string) error
	SetUserRolesByID(ctx context.Context, userID string, roleIDs []string) error
	SetRolePermissionsByIDs(ctx context.Context, roleID string, grants []RolePermissionGrant) error
}

// AuthorizationEvaluator computes grant sets and evaluates requirements
// against them.
type AuthorizationEvaluator interface {
	ListUserPermissions(ctx context.Context, userID string) (*UserPermissions, error)
	CheckUserPermissionsByName(ctx context.Context, requirement Requirement, tenantID, userName string) (bool, error)
}

// CredentialManager owns password hashing/verification, the login audit
// trail and the password-reset lifecycle.
type CredentialManager interface {
	CreateLogin(ctx context.Context, userID, password string) (*Login, error)
	VerifyLogin(ctx context.Context, userName, password, tenantID, loginIP string) (*VerifyLoginResult, error)
	RecordLoginAttempt(ctx context.Context, userID string, success bool, loginIP string) error
	GetLastLoginAttempts(ctx context.Context, userID string) (*LastLoginAttempts, error)
	RequestPasswordReset(ctx context.Context, input PasswordResetInput) (*PasswordResetResult, error)
	GetPasswordResetRequests(ctx context.Context, filter ResetRequestFilter) ([]PasswordResetRequest, error)
	ResetPassword(ctx context.Context, requestCode, newPassword, resetIP string) (bool, error)
}

// TransactionManager binds operations to caller-controlled transactions.
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, s *Service) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, s *Service) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, s *Service) error) error
}

// HealthMonitor reports database reachability and pool statistics.
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager tunes the database connection pool.
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	OptimizeConnectionPool() error
	ResetConnectionPool() error
}

var (
	_ TenantCatalog          = (*Service)(nil)
	_ UserDirectory          = (*Service)(nil)
	_ PermissionCatalog      = (*Service)(nil)
	_ RoleGraph              = (*Service)(nil)
	_ AuthorizationEvaluator = (*Service)(nil)
	_ CredentialManager      = (*Service)(nil)
	_ TransactionManager     = (*Service)(nil)
	_ HealthMonitor          = (*Service)(nil)
	_ PoolManager            = (*PoolService)(nil)
)
