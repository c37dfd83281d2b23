package authkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrations tests migration definitions
func TestMigrations(t *testing.T) {
	service := NewService(nil, DefaultConfig())
	migrations := service.Migrations()

	require.NotEmpty(t, migrations)

	seen := make(map[string]bool)
	for _, migration := range migrations {
		assert.NotEmpty(t, migration.ID)
		assert.NotEmpty(t, migration.Description)
		assert.NotEmpty(t, migration.SQL)
		assert.False(t, seen[migration.ID], "duplicate migration id: %s", migration.ID)
		seen[migration.ID] = true
	}

	// The bootstrap seed carries the configured identifiers
	last := migrations[len(migrations)-1]
	assert.Contains(t, last.SQL, DefaultRootTenantID)
	assert.Contains(t, last.SQL, DefaultGlobalTenantID)
	assert.Contains(t, last.SQL, DefaultSuperuserRoleID)
}

// TestMigrationsBootstrapDatabase tests the seeded reserved entities
func TestMigrationsBootstrapDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()
	cfg := service.Config()

	root, err := service.GetTenantByID(ctx, cfg.RootTenantID)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.False(t, root.CanBeDeleted)

	global, err := service.GetTenantByID(ctx, cfg.GlobalTenantID)
	require.NoError(t, err)
	require.NotNil(t, global)
	assert.False(t, global.CanBeDeleted)

	superuser, err := service.GetRoleByID(ctx, cfg.SuperuserRoleID)
	require.NoError(t, err)
	require.NotNil(t, superuser)
	assert.False(t, superuser.CanBeDeleted)
	assert.Equal(t, cfg.RootTenantID, superuser.TenantID)

	// Default roles are seeded in the root tenant
	for _, roleName := range []string{"admin", "user"} {
		role, err := service.GetRoleByName(ctx, cfg.RootTenantID, roleName)
		require.NoError(t, err)
		assert.NotNil(t, role)
	}
}
