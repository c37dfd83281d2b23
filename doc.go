// Package authkit provides multi-tenant role-based access control with an
// attached credential and password-reset lifecycle.
//
// AuthKit answers three questions for a hosting application: does a user hold
// a permission (possibly a boolean combination of permissions)? is a presented
// username/password pair valid, and what is the recent login history? and how
// does a user recover access through a time-boxed, single-use reset code?
//
// # Core Concepts
//
// Tenant: an isolated ownership realm for users, roles and permissions. Two
// reserved tenants always exist: the root tenant (the default scope for
// unscoped operations) and the global tenant (owner of global permissions).
//
// Permission: a named capability owned either by a regular tenant or by the
// global tenant. Global permission names start with the reserved "_" prefix;
// tenant permission names must not. When a tenant permission and a global
// permission share a name, the tenant one wins on lookup.
//
// Role: a tenant-owned, named set of permission grants. A role/permission
// edge can also carry an explicit deny, which always beats a grant of the
// same permission name when a user's effective grant set is computed.
//
// Requirement: a boolean expression over permission names (AND/OR
// composition, arbitrarily nested) used to gate an action.
//
// # Transactions
//
// Every operation runs against the dbkit.IDB the Service is bound to. Bind a
// Service to a caller-owned transaction with WithTx, or use the Transaction
// helper; AuthKit never opens a transaction on its own inside an operation.
//
// # Basic Usage
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := authkit.NewService(db, authkit.DefaultConfig())
//
//	// Provision schema and the reserved tenants/roles.
//	_, _ = db.Migrate(ctx, service.Migrations())
//
//	// Build the graph.
//	tenant, _ := service.CreateTenant(ctx, "acme", "acme.example.com")
//	user, _ := service.CreateUser(ctx, tenant.TenantID, authkit.NewUser{
//	    UserName: "jdoe",
//	    Email:    "jdoe@acme.example.com",
//	    Password: "s3cret",
//	})
//	role, _ := service.CreateRole(ctx, tenant.TenantID, "editor", "can edit")
//	perm, _ := service.CreatePermission(ctx, authkit.NewPermission{
//	    TenantID:   tenant.TenantID,
//	    Permission: "articles:write",
//	})
//	_ = service.GrantRolePermission(ctx, role.RoleID, perm.PermissionID)
//	_ = service.AssignUserRole(ctx, user.UserID, role.RoleID)
//
//	// Decide.
//	ok, _ := service.CheckUserPermissionsByName(ctx,
//	    authkit.AnyOf(authkit.Perm("articles:write"), authkit.Perm("_admin")),
//	    tenant.TenantID, "jdoe")
//
//	// Authenticate.
//	result, _ := service.VerifyLogin(ctx, "jdoe", "s3cret", tenant.TenantID, "10.0.0.1")
//	if result.Success && !result.IsKnown {
//	    // first login from this address
//	}
//
// # Password Reset
//
// RequestPasswordReset issues a short, unguessable, single-use code with a
// four hour expiry (configurable) and guarantees at most one active request
// per user by expiring earlier requests first. ResetPassword consumes the
// code exactly once; expired, unknown or already-consumed codes report
// failure without an error. Delivery of codes (mail, SMS) is the host's job:
// poll GetPasswordResetRequests with a request-time watermark.
package authkit
