package authkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateUserDatabase tests user creation with real database
func TestCreateUserDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	tenant := helper.CreateTestTenant("users")

	t.Run("Create user successfully", func(t *testing.T) {
		name := helper.UniqueName("john")
		user, err := service.CreateUser(ctx, tenant.TenantID, NewUser{
			UserName: name,
			Email:    name + "@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, tenant.TenantID, user.TenantID)
		assert.Equal(t, name, user.UserName)
		assert.Nil(t, user.EmailVerifiedAt)
	})

	t.Run("Name and email are normalized", func(t *testing.T) {
		name := helper.UniqueName("mixed")
		user, err := service.CreateUser(ctx, tenant.TenantID, NewUser{
			UserName: "  " + name + "-CASE ",
			Email:    name + "@EXAMPLE.com",
		})
		require.NoError(t, err)
		assert.Equal(t, name+"-case", user.UserName)
		assert.Equal(t, name+"@example.com", user.Email)
	})

	t.Run("Empty tenant defaults to root", func(t *testing.T) {
		name := helper.UniqueName("rooter")
		user, err := service.CreateUser(ctx, "", NewUser{
			UserName: name,
			Email:    name + "@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, service.Config().RootTenantID, user.TenantID)
	})

	t.Run("UUID-shaped name rejected", func(t *testing.T) {
		_, err := service.CreateUser(ctx, tenant.TenantID, NewUser{
			UserName: "4f2d8b1a-9c3e-4d5f-8a7b-1c2d3e4f5a6b",
			Email:    "uuid@example.com",
		})
		assert.True(t, IsInvalidParameter(err))
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		_, err := service.CreateUser(ctx, tenant.TenantID, NewUser{
			UserName: helper.UniqueName("bademail"),
			Email:    "not-an-email",
		})
		assert.True(t, IsInvalidParameter(err))
	})

	t.Run("Password creates an initial credential", func(t *testing.T) {
		name := helper.UniqueName("withpass")
		user, err := service.CreateUser(ctx, tenant.TenantID, NewUser{
			UserName: name,
			Email:    name + "@example.com",
			Password: "s3cret",
		})
		require.NoError(t, err)

		result, err := service.VerifyLogin(ctx, user.UserName, "s3cret", tenant.TenantID, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}

// TestGetUserDatabase tests user lookups with real database
func TestGetUserDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	tenant := helper.CreateTestTenant("lookups")
	user := helper.CreateTestUser(tenant.TenantID, "target")

	t.Run("Get by id", func(t *testing.T) {
		found, err := service.GetUserByID(ctx, user.UserID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.UserName, found.UserName)
	})

	t.Run("Get by name is tenant-scoped", func(t *testing.T) {
		found, err := service.GetUserByName(ctx, tenant.TenantID, user.UserName)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.UserID, found.UserID)

		other := helper.CreateTestTenant("other")
		found, err = service.GetUserByName(ctx, other.TenantID, user.UserName)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Lookup normalizes the name", func(t *testing.T) {
		found, err := service.GetUserByName(ctx, tenant.TenantID, "  "+user.UserName+"  ")
		require.NoError(t, err)
		require.NotNil(t, found)
	})

	t.Run("Several users can share an email", func(t *testing.T) {
		email := helper.UniqueName("shared") + "@example.com"
		for range 2 {
			name := helper.UniqueName("sharer")
			_, err := service.CreateUser(ctx, tenant.TenantID, NewUser{UserName: name, Email: email})
			require.NoError(t, err)
		}

		users, err := service.GetUsersByEmail(ctx, tenant.TenantID, email)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("GetUserByNameOrEmail requires exactly one filter", func(t *testing.T) {
		_, err := service.GetUserByNameOrEmail(ctx, tenant.TenantID, user.UserName, user.Email)
		assert.True(t, IsInvalidParameter(err))

		_, err = service.GetUserByNameOrEmail(ctx, tenant.TenantID, "", "")
		assert.True(t, IsInvalidParameter(err))

		found, err := service.GetUserByNameOrEmail(ctx, tenant.TenantID, user.UserName, "")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.UserID, found.UserID)
	})
}

// TestUpdateUserDatabase tests partial updates and verification stamping
func TestUpdateUserDatabase(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	defer helper.CleanupTestData()

	service := helper.GetService()
	ctx := helper.GetContext()

	tenant := helper.CreateTestTenant("updates")

	t.Run("Update user name", func(t *testing.T) {
		user := helper.CreateTestUser(tenant.TenantID, "patchme")
		newName := helper.UniqueName("patched")

		rows, err := service.UpdateUser(ctx, user.UserID, UserPatch{UserName: newName})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		found, err := service.GetUserByID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, newName, found.UserName)
		assert.Equal(t, user.Email, found.Email)
	})

	t.Run("Update with UUID-shaped name rejected", func(t *testing.T) {
		user := helper.CreateTestUser(tenant.TenantID, "uuidpatch")
		_, err := service.UpdateUser(ctx, user.UserID, UserPatch{
			UserName: "4f2d8b1a-9c3e-4d5f-8a7b-1c2d3e4f5a6b",
		})
		assert.True(t, IsInvalidParameter(err))
	})

	t.Run("SetEmailVerified stamps the user", func(t *testing.T) {
		user := helper.CreateTestUser(tenant.TenantID, "verifyme")
		assert.Nil(t, user.EmailVerifiedAt)

		rows, err := service.SetEmailVerified(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		found, err := service.GetUserByID(ctx, user.UserID)
		require.NoError(t, err)
		assert.NotNil(t, found.EmailVerifiedAt)
	})

	t.Run("Remove user", func(t *testing.T) {
		user := helper.CreateTestUser(tenant.TenantID, "removeme")
		rows, err := service.RemoveUser(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		found, err := service.GetUserByID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
