package authkit

import "time"

// Well-known identifiers provisioned by the bootstrap migration. They are
// defaults, not ambient state: every Service carries its own copy inside its
// Config, so isolated catalogs can coexist (tests rely on this).
const (
	// DefaultRootTenantID is the reserved tenant used as the implicit scope
	// for operations that do not name a tenant.
	DefaultRootTenantID = "00000000-0000-0000-0000-000000000000"

	// DefaultGlobalTenantID is the reserved tenant that owns global
	// permissions, visible from every tenant.
	DefaultGlobalTenantID = "00000000-0000-0000-0000-000000000001"

	// DefaultSuperuserRoleID is the protected role seeded in the root tenant.
	// It cannot be deleted.
	DefaultSuperuserRoleID = "00000000-0000-0000-0000-000000000002"
)

// GlobalPermissionPrefix is the reserved sigil for global permission names.
// Global permission names must start with it; tenant permission names must
// not.
const GlobalPermissionPrefix = "_"

// Config carries the sentinel identifiers and tunables a Service operates
// with. Pass it to NewService; DefaultConfig covers the common case.
type Config struct {
	// RootTenantID is the tenant used when an operation omits a tenant.
	RootTenantID string

	// GlobalTenantID is the tenant that owns global permissions.
	GlobalTenantID string

	// SuperuserRoleID is the protected role seeded at bootstrap.
	SuperuserRoleID string

	// ResetRequestTTL is how long a password-reset code stays valid.
	ResetRequestTTL time.Duration

	// PageLimit is the default page size for list operations when the caller
	// passes a limit of zero.
	PageLimit int

	// RootDomain is the domain recorded for the root tenant at bootstrap.
	RootDomain string
}

// DefaultConfig returns a Config with the well-known identifiers, a four hour
// reset window and a page size of 20.
func DefaultConfig() Config {
	return Config{
		RootTenantID:    DefaultRootTenantID,
		GlobalTenantID:  DefaultGlobalTenantID,
		SuperuserRoleID: DefaultSuperuserRoleID,
		ResetRequestTTL: 4 * time.Hour,
		PageLimit:       20,
		RootDomain:      "example.localhost",
	}
}

// normalize fills zero fields with their defaults so a partially populated
// Config behaves predictably.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.RootTenantID == "" {
		c.RootTenantID = def.RootTenantID
	}
	if c.GlobalTenantID == "" {
		c.GlobalTenantID = def.GlobalTenantID
	}
	if c.SuperuserRoleID == "" {
		c.SuperuserRoleID = def.SuperuserRoleID
	}
	if c.ResetRequestTTL == 0 {
		c.ResetRequestTTL = def.ResetRequestTTL
	}
	if c.PageLimit == 0 {
		c.PageLimit = def.PageLimit
	}
	if c.RootDomain == "" {
		c.RootDomain = def.RootDomain
	}
	return c
}
