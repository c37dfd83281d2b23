package authkit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PERMISSION CATALOG
// ============================================================================

// NewPermission carries the fields for CreatePermission. Exactly one of
// TenantID and Global must be supplied: a permission is owned either by one
// regular tenant or by the global tenant, never both and never neither.
type NewPermission struct {
	TenantID    string
	Permission  string
	Description string
	Global      bool
}

// PermissionPatch is a partial update for a permission. Empty fields are
// left unchanged; a new name is re-validated against the stored scope.
type PermissionPatch struct {
	Permission  string
	Description string
}

// CreatePermission creates a permission definition. Global permission names
// must start with the reserved "_" prefix, tenant permission names must not.
//
// Example:
//
//	perm, err := service.CreatePermission(ctx, authkit.NewPermission{
//	    TenantID:   tenantID,
//	    Permission: "articles:write",
//	})
func (s *Service) CreatePermission(ctx context.Context, np NewPermission) (*Permission, error) {
	if np.TenantID != "" && np.Global {
		return nil, NewError(ErrInvalidParameter, "cannot specify both tenantID and global")
	}
	if np.TenantID == "" && !np.Global {
		return nil, NewError(ErrInvalidParameter, "must specify tenantID, or set global")
	}

	global := np.TenantID == ""
	tenantID := np.TenantID
	if global {
		tenantID = s.config.GlobalTenantID
	}
	if np.Permission == "" {
		return nil, NewError(ErrInvalidParameter, "permission name is required")
	}
	if err := validatePermissionName(np.Permission, global); err != nil {
		return nil, err
	}

	permission := &Permission{
		PermissionID: uuid.NewString(),
		TenantID:     tenantID,
		Permission:   np.Permission,
		Description:  np.Description,
		Global:       global,
		CanBeDeleted: true,
	}
	result, err := s.db.NewInsert().Model(permission).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreatePermission").Err(); err != nil {
		return nil, err
	}
	return permission, nil
}

// GetPermissionByID returns a permission by id, or nil when it does not
// exist.
func (s *Service) GetPermissionByID(ctx context.Context, permissionID string) (*Permission, error) {
	var permission Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&permission).Where("permission_id = ?", permissionID).Limit(1).Scan(ctx), "GetPermissionByID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}

// GetPermissionByName resolves a permission name. With a tenantID the
// tenant's own permission wins over a global one of the same name (ORDER BY
// global ASC and take the first row); without a tenantID only global
// permissions match. An unknown name returns nil, not an error.
func (s *Service) GetPermissionByName(ctx context.Context, tenantID, name string) (*Permission, error) {
	var permission Permission
	q := s.db.NewSelect().Model(&permission).Where("permission = ?", name)
	if tenantID != "" {
		q = q.Where("tenant_id IN (?, ?)", tenantID, s.config.GlobalTenantID).
			Order("global ASC")
	} else {
		q = q.Where("global = ?", true)
	}

	err := dbkit.WithErr1(q.Limit(1).Scan(ctx), "GetPermissionByName").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}

// ListPermissions returns the union of the tenant's own permissions and all
// global permissions, tenant-scoped ones first. An empty tenantID lists the
// root tenant.
func (s *Service) ListPermissions(ctx context.Context, tenantID string) ([]Permission, error) {
	if tenantID == "" {
		tenantID = s.config.RootTenantID
	}
	var permissions []Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&permissions).
		Where("tenant_id IN (?, ?)", tenantID, s.config.GlobalTenantID).
		Order("global ASC").
		Order("permission ASC").
		Scan(ctx), "ListPermissions").Err()
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// UpdatePermission applies a partial patch, re-validating a renamed
// permission against its stored scope, and bumps modified_at. Returns the
// number of rows updated (0 when the permission does not exist).
func (s *Service) UpdatePermission(ctx context.Context, permissionID string, patch PermissionPatch) (int64, error) {
	existing, err := s.GetPermissionByID(ctx, permissionID)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, nil
	}
	if err := validatePermissionName(patch.Permission, existing.Global); err != nil {
		return 0, err
	}

	q := s.db.NewUpdate().Model((*Permission)(nil)).
		Set("modified_at = ?", time.Now()).
		Where("permission_id = ?", permissionID)
	if patch.Permission != "" {
		q = q.Set("permission = ?", patch.Permission)
	}
	if patch.Description != "" {
		q = q.Set("description = ?", patch.Description)
	}

	result, err := q.Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdatePermission").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// RemovePermission hard-deletes a permission; role edges cascade. Protected
// permissions report 0 rows deleted.
func (s *Service) RemovePermission(ctx context.Context, permissionID string) (int64, error) {
	result, err := s.db.NewDelete().Model((*Permission)(nil)).
		Where("permission_id = ?", permissionID).
		Where("can_be_deleted = ?", true).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemovePermission").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// RolePermissionView is one row of a role's permission set: the permission
// joined with the edge's denied flag.
type RolePermissionView struct {
	PermissionID string `bun:"permission_id"`
	Permission   string `bun:"permission"`
	Description  string `bun:"description"`
	Global       bool   `bun:"global"`
	Denied       bool   `bun:"denied"`
}

// ListRolePermissionsByID returns the permissions attached to a role,
// grants and denies alike.
func (s *Service) ListRolePermissionsByID(ctx context.Context, roleID string) ([]RolePermissionView, error) {
	var views []RolePermissionView
	err := dbkit.WithErr1(s.db.NewRaw(
		`SELECT p.permission_id, p.permission, p.description, p.global, rp.denied
		 FROM permissions AS p
		 JOIN roles_permissions AS rp ON rp.permission_id = p.permission_id
		 WHERE rp.role_id = ?
		 ORDER BY p.permission ASC`, roleID).Scan(ctx, &views), "ListRolePermissionsByID").Err()
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ListRolePermissionsByName resolves the role by tenant and name, then lists
// its permissions. An unknown role yields an empty list.
func (s *Service) ListRolePermissionsByName(ctx context.Context, tenantID, roleName string) ([]RolePermissionView, error) {
	role, err := s.GetRoleByName(ctx, tenantID, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, nil
	}
	return s.ListRolePermissionsByID(ctx, role.RoleID)
}
