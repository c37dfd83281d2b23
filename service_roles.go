package authkit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ROLE GRAPH
// ============================================================================

// RolePatch is a partial update for a role. Empty fields are left unchanged.
type RolePatch struct {
	RoleName    string
	Description string
}

// CreateRole creates a role owned by the given tenant (root tenant when
// tenantID is empty). Every role belongs to a concrete tenant: the global
// tenant cannot own roles. Role names may not be UUID literals.
func (s *Service) CreateRole(ctx context.Context, tenantID, roleName, description string) (*Role, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	if tenantID == s.config.GlobalTenantID {
		return nil, NewError(ErrInvalidParameter, "roles cannot belong to the global tenant").WithTenant(tenantID)
	}
	roleName = normalizeName(roleName)
	if err := validatePrincipalName("role", roleName); err != nil {
		return nil, err
	}

	role := &Role{
		RoleID:       uuid.NewString(),
		TenantID:     tenantID,
		RoleName:     roleName,
		Description:  description,
		CanBeDeleted: true,
	}
	result, err := s.db.NewInsert().Model(role).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateRole").Err(); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRoleByID returns a role by id, or nil when it does not exist.
func (s *Service) GetRoleByID(ctx context.Context, roleID string) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Where("role_id = ?", roleID).Limit(1).Scan(ctx), "GetRoleByID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// GetRoleByName returns the tenant's role with the given name, or nil.
func (s *Service) GetRoleByName(ctx context.Context, tenantID, roleName string) (*Role, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).
		Where("tenant_id = ?", tenantID).
		Where("role_name = ?", normalizeName(roleName)).
		Limit(1).Scan(ctx), "GetRoleByName").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// ListRoles returns the tenant's roles ordered by name, paginated.
func (s *Service) ListRoles(ctx context.Context, tenantID string, filter PageFilter) ([]Role, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var roles []Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&roles).
		Where("tenant_id = ?", tenantID).
		Order("role_name ASC").
		Limit(filter.limitOr(s.config.PageLimit)).
		Offset(filter.Offset).
		Scan(ctx), "ListRoles").Err()
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// UpdateRole applies a partial patch and bumps modified_at. A new role name
// is validated against the UUID-literal guard. Returns the number of rows
// updated.
func (s *Service) UpdateRole(ctx context.Context, roleID string, patch RolePatch) (int64, error) {
	q := s.db.NewUpdate().Model((*Role)(nil)).
		Set("modified_at = ?", time.Now()).
		Where("role_id = ?", roleID)
	if patch.RoleName != "" {
		roleName := normalizeName(patch.RoleName)
		if err := validatePrincipalName("role", roleName); err != nil {
			return 0, err
		}
		q = q.Set("role_name = ?", roleName)
	}
	if patch.Description != "" {
		q = q.Set("description = ?", patch.Description)
	}

	result, err := q.Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateRole").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// RemoveRole hard-deletes a role; user and permission edges cascade.
// Protected roles (the seeded superuser role) report 0 rows deleted.
func (s *Service) RemoveRole(ctx context.Context, roleID string) (int64, error) {
	result, err := s.db.NewDelete().Model((*Role)(nil)).
		Where("role_id = ?", roleID).
		Where("can_be_deleted = ?", true).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveRole").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// ============================================================================
// USER / ROLE EDGES
// ============================================================================

// AssignUserRole links a user to a role. The user's tenant and the role's
// tenant must match: tenant isolation is enforced at assignment time, not
// just at creation time. Duplicate assignments propagate as store errors
// (dbkit.IsDuplicate).
func (s *Service) AssignUserRole(ctx context.Context, userID, roleID string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NewError(ErrNotFound, "user does not exist").WithUser(userID)
	}
	role, err := s.GetRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return NewError(ErrNotFound, "role does not exist").WithRole(roleID)
	}
	if user.TenantID != role.TenantID {
		return NewError(ErrInvalidParameter, "user and role belong to different tenants").
			WithTenant(user.TenantID).
			WithUser(userID).
			WithRole(roleID)
	}

	edge := &UserRole{UserID: userID, RoleID: roleID}
	result, err := s.db.NewInsert().Model(edge).Exec(ctx)
	return dbkit.WithErr(result, err, "AssignUserRole").Err()
}

// RemoveUserRole deletes a user/role edge. Returns the number of rows
// deleted (0 when the edge did not exist).
func (s *Service) RemoveUserRole(ctx context.Context, userID, roleID string) (int64, error) {
	result, err := s.db.NewDelete().Model((*UserRole)(nil)).
		Where("user_id = ?", userID).
		Where("role_id = ?", roleID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveUserRole").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// ListUserRoles returns the roles assigned to a user.
func (s *Service) ListUserRoles(ctx context.Context, userID string) ([]Role, error) {
	var roles []Role
	err := dbkit.WithErr1(s.db.NewRaw(
		`SELECT r.role_id, r.tenant_id, r.role_name, r.description, r.can_be_deleted, r.created_at, r.modified_at
		 FROM roles AS r
		 JOIN users_roles AS ur ON ur.role_id = r.role_id
		 WHERE ur.user_id = ?
		 ORDER BY r.role_name ASC`, userID).Scan(ctx, &roles), "ListUserRoles").Err()
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// SetUserRolesByName replaces the user's entire role set with the named
// roles: every existing edge is deleted, then the new set inserted. Each
// name is resolved individually; any unknown user or role name fails the
// whole operation before the first mutation. Atomicity beyond that is the
// enclosing transaction's job.
func (s *Service) SetUserRolesByName(ctx context.Context, tenantID, userName string, roleNames []string) error {
	user, err := s.GetUserByName(ctx, tenantID, userName)
	if err != nil {
		return err
	}
	if user == nil {
		return NewError(ErrNotFound, "user does not exist: "+normalizeName(userName)).WithTenant(tenantID)
	}

	roleIDs := make([]string, 0, len(roleNames))
	for _, roleName := range roleNames {
		role, err := s.GetRoleByName(ctx, user.TenantID, roleName)
		if err != nil {
			return err
		}
		if role == nil {
			return NewError(ErrNotFound, "role does not exist: "+normalizeName(roleName)).WithTenant(user.TenantID)
		}
		roleIDs = append(roleIDs, role.RoleID)
	}

	return s.replaceUserRoles(ctx, user.UserID, roleIDs)
}

// SetUserRolesByID replaces the user's entire role set with the given role
// ids. Every role must exist and belong to the user's tenant.
func (s *Service) SetUserRolesByID(ctx context.Context, userID string, roleIDs []string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NewError(ErrNotFound, "user does not exist").WithUser(userID)
	}

	for _, roleID := range roleIDs {
		role, err := s.GetRoleByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return NewError(ErrNotFound, "role does not exist").WithRole(roleID)
		}
		if role.TenantID != user.TenantID {
			return NewError(ErrInvalidParameter, "user and role belong to different tenants").
				WithTenant(user.TenantID).
				WithUser(userID).
				WithRole(roleID)
		}
	}

	return s.replaceUserRoles(ctx, userID, roleIDs)
}

// replaceUserRoles deletes every edge for the user and inserts the given
// set.
func (s *Service) replaceUserRoles(ctx context.Context, userID string, roleIDs []string) error {
	result, err := s.db.NewDelete().Model((*UserRole)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "ReplaceUserRolesDelete").Err(); err != nil {
		return err
	}
	if len(roleIDs) == 0 {
		return nil
	}

	edges := make([]*UserRole, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		edges = append(edges, &UserRole{UserID: userID, RoleID: roleID})
	}
	_, err = dbkit.BatchInsert(ctx, s.db, edges, dbkit.BatchSize)
	return dbkit.WithErr1(err, "ReplaceUserRolesInsert").Err()
}

// ============================================================================
// ROLE / PERMISSION EDGES
// ============================================================================

// RolePermissionGrant is one entry of a role's permission set: a permission
// id with an optional explicit deny.
type RolePermissionGrant struct {
	PermissionID string
	Denied       bool
}

// GrantIDs wraps bare permission ids as plain grants, for use with
// SetRolePermissionsByIDs.
func GrantIDs(permissionIDs ...string) []RolePermissionGrant {
	grants := make([]RolePermissionGrant, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		grants = append(grants, RolePermissionGrant{PermissionID: id})
	}
	return grants
}

// GrantRolePermission attaches a permission to a role as a grant.
func (s *Service) GrantRolePermission(ctx context.Context, roleID, permissionID string) error {
	return s.addRolePermission(ctx, roleID, permissionID, false)
}

// DenyRolePermission attaches a permission to a role as an explicit deny.
// A deny beats any grant of the same permission name across the user's
// roles.
func (s *Service) DenyRolePermission(ctx context.Context, roleID, permissionID string) error {
	return s.addRolePermission(ctx, roleID, permissionID, true)
}

func (s *Service) addRolePermission(ctx context.Context, roleID, permissionID string, denied bool) error {
	edge := &RolePermission{RoleID: roleID, PermissionID: permissionID, Denied: denied}
	result, err := s.db.NewInsert().Model(edge).Exec(ctx)
	return dbkit.WithErr(result, err, "AddRolePermission").Err()
}

// RemoveRolePermission deletes a role/permission edge. Returns the number of
// rows deleted.
func (s *Service) RemoveRolePermission(ctx context.Context, roleID, permissionID string) (int64, error) {
	result, err := s.db.NewDelete().Model((*RolePermission)(nil)).
		Where("role_id = ?", roleID).
		Where("permission_id = ?", permissionID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveRolePermission").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// SetRolePermissionsByIDs replaces the role's entire permission set: every
// existing edge is deleted, then the given grants (and denies) inserted.
// Every referenced role and permission must exist; any miss fails the whole
// operation before the first mutation.
func (s *Service) SetRolePermissionsByIDs(ctx context.Context, roleID string, grants []RolePermissionGrant) error {
	role, err := s.GetRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return NewError(ErrNotFound, "role does not exist").WithRole(roleID)
	}

	for _, grant := range grants {
		exists, err := dbkit.Exists[Permission](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("permission_id = ?", grant.PermissionID)
		})
		if err != nil {
			return dbkit.WithErr1(err, "SetRolePermissionsExists").Err()
		}
		if !exists {
			return NewError(ErrNotFound, "permission does not exist: "+grant.PermissionID).WithRole(roleID)
		}
	}

	result, err := s.db.NewDelete().Model((*RolePermission)(nil)).
		Where("role_id = ?", roleID).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "ReplaceRolePermissionsDelete").Err(); err != nil {
		return err
	}
	if len(grants) == 0 {
		return nil
	}

	edges := make([]*RolePermission, 0, len(grants))
	for _, grant := range grants {
		edges = append(edges, &RolePermission{
			RoleID:       roleID,
			PermissionID: grant.PermissionID,
			Denied:       grant.Denied,
		})
	}
	_, err = dbkit.BatchInsert(ctx, s.db, edges, dbkit.BatchSize)
	return dbkit.WithErr1(err, "ReplaceRolePermissionsInsert").Err()
}
