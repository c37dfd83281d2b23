package authkit

import (
	"fmt"

	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required for AuthKit, including
// the bootstrap seed of the reserved tenants and protected roles configured
// on the Service. Use dbkit's migration runner:
//
//	result, err := db.Migrate(ctx, service.Migrations())
func (s *Service) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "authkit-001",
			Description: "Create tenants table",
			SQL: `
                CREATE TABLE IF NOT EXISTS tenants (
                    tenant_id UUID PRIMARY KEY,
                    tenant_name VARCHAR(64) UNIQUE NOT NULL,
                    domain VARCHAR(255) UNIQUE NOT NULL,
                    can_be_deleted BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    modified_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "authkit-002",
			Description: "Create users table",
			SQL: `
                CREATE TABLE IF NOT EXISTS users (
                    user_id UUID PRIMARY KEY,
                    tenant_id UUID NOT NULL REFERENCES tenants (tenant_id) ON DELETE CASCADE,
                    user_name VARCHAR(64) NOT NULL,
                    email VARCHAR(64),
                    email_verified_at TIMESTAMPTZ,
                    need_new_password BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    modified_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (tenant_id, user_name)
                );
                CREATE INDEX IF NOT EXISTS users_email_idx ON users (email)`,
		},
		{
			ID:          "authkit-003",
			Description: "Create logins table",
			SQL: `
                CREATE TABLE IF NOT EXISTS logins (
                    login_id UUID PRIMARY KEY,
                    user_id UUID NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
                    password_hash VARCHAR(128) NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                );
                CREATE INDEX IF NOT EXISTS logins_user_idx ON logins (user_id, created_at)`,
		},
		{
			ID:          "authkit-004",
			Description: "Create login_attempts table",
			SQL: `
                CREATE TABLE IF NOT EXISTS login_attempts (
                    user_id UUID REFERENCES users (user_id) ON DELETE CASCADE,
                    success BOOLEAN,
                    login_ip VARCHAR(45),
                    login_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                );
                CREATE INDEX IF NOT EXISTS login_attempts_user_idx ON login_attempts (user_id);
                CREATE INDEX IF NOT EXISTS login_attempts_at_idx ON login_attempts (login_at)`,
		},
		{
			ID:          "authkit-005",
			Description: "Create email_verifications table",
			SQL: `
                CREATE TABLE IF NOT EXISTS email_verifications (
                    verification_id UUID PRIMARY KEY,
                    user_id UUID NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
                    verification_code VARCHAR(64) NOT NULL,
                    email VARCHAR(64) NOT NULL,
                    request_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    expire_at TIMESTAMPTZ NOT NULL,
                    verified_at TIMESTAMPTZ
                );
                CREATE INDEX IF NOT EXISTS email_verifications_code_idx ON email_verifications (verification_code)`,
		},
		{
			ID:          "authkit-006",
			Description: "Create password_reset_requests table",
			SQL: `
                CREATE TABLE IF NOT EXISTS password_reset_requests (
                    request_id UUID PRIMARY KEY,
                    user_id UUID NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
                    request_code VARCHAR(64) UNIQUE NOT NULL,
                    request_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    expire_at TIMESTAMPTZ NOT NULL,
                    request_ip VARCHAR(45),
                    reset_at TIMESTAMPTZ,
                    reset_ip VARCHAR(45)
                );
                CREATE INDEX IF NOT EXISTS password_reset_requests_at_idx ON password_reset_requests (request_at)`,
		},
		{
			ID:          "authkit-007",
			Description: "Create roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles (
                    role_id UUID PRIMARY KEY,
                    tenant_id UUID NOT NULL REFERENCES tenants (tenant_id) ON DELETE CASCADE,
                    role_name VARCHAR(64) NOT NULL,
                    description TEXT,
                    can_be_deleted BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    modified_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (tenant_id, role_name)
                )`,
		},
		{
			ID:          "authkit-008",
			Description: "Create users_roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS users_roles (
                    user_id UUID NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
                    role_id UUID NOT NULL REFERENCES roles (role_id) ON DELETE CASCADE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    PRIMARY KEY (user_id, role_id)
                )`,
		},
		{
			ID:          "authkit-009",
			Description: "Create permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS permissions (
                    permission_id UUID PRIMARY KEY,
                    tenant_id UUID NOT NULL REFERENCES tenants (tenant_id) ON DELETE CASCADE,
                    permission VARCHAR(64) NOT NULL,
                    description VARCHAR(256),
                    global BOOLEAN NOT NULL DEFAULT false,
                    can_be_deleted BOOLEAN NOT NULL DEFAULT true,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    modified_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "authkit-010",
			Description: "Create roles_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS roles_permissions (
                    role_id UUID NOT NULL REFERENCES roles (role_id) ON DELETE CASCADE,
                    permission_id UUID NOT NULL REFERENCES permissions (permission_id) ON DELETE CASCADE,
                    denied BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    PRIMARY KEY (role_id, permission_id)
                )`,
		},
		{
			ID:          "authkit-011",
			Description: "Seed reserved tenants and protected roles",
			SQL: fmt.Sprintf(`
                INSERT INTO tenants (tenant_id, tenant_name, domain, can_be_deleted)
                VALUES
                    ('%s', 'root', '%s', false),
                    ('%s', 'global', 'global', false)
                ON CONFLICT (tenant_id) DO NOTHING;
                INSERT INTO roles (role_id, tenant_id, role_name, description, can_be_deleted)
                VALUES ('%s', '%s', 'superuser', 'unrestricted system role', false)
                ON CONFLICT (role_id) DO NOTHING;
                INSERT INTO roles (role_id, tenant_id, role_name, description)
                VALUES
                    (gen_random_uuid(), '%s', 'admin', 'administrative role'),
                    (gen_random_uuid(), '%s', 'user', 'standard user role')
                ON CONFLICT (tenant_id, role_name) DO NOTHING`,
				s.config.RootTenantID, s.config.RootDomain,
				s.config.GlobalTenantID,
				s.config.SuperuserRoleID, s.config.RootTenantID,
				s.config.RootTenantID,
				s.config.RootTenantID),
		},
	}
}
