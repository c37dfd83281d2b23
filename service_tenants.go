package authkit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// TENANT CATALOG
// ============================================================================

// TenantPatch is a partial update for a tenant. Empty fields are left
// unchanged.
type TenantPatch struct {
	TenantName string
	Domain     string
}

// CreateTenant creates a tenant. Name and domain are lowercase-normalized;
// uniqueness violations propagate from the store (dbkit.IsDuplicate).
//
// Example:
//
//	tenant, err := service.CreateTenant(ctx, "acme", "acme.example.com")
func (s *Service) CreateTenant(ctx context.Context, tenantName, domain string) (*Tenant, error) {
	tenantName = normalizeName(tenantName)
	domain = normalizeName(domain)
	if tenantName == "" {
		return nil, NewError(ErrInvalidParameter, "tenant name is required")
	}
	if domain == "" {
		return nil, NewError(ErrInvalidParameter, "domain is required")
	}

	tenant := &Tenant{
		TenantID:     uuid.NewString(),
		TenantName:   tenantName,
		Domain:       domain,
		CanBeDeleted: true,
	}
	result, err := s.db.NewInsert().Model(tenant).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateTenant").Err(); err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetTenantByID returns a tenant by its id, or nil when it does not exist.
func (s *Service) GetTenantByID(ctx context.Context, tenantID string) (*Tenant, error) {
	var tenant Tenant
	err := dbkit.WithErr1(s.db.NewSelect().Model(&tenant).Where("tenant_id = ?", tenantID).Limit(1).Scan(ctx), "GetTenantByID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// GetTenantByNameOrDomain returns a tenant matched by name or by domain.
// Exactly one of the two filters may be supplied; nil when nothing matches.
func (s *Service) GetTenantByNameOrDomain(ctx context.Context, tenantName, domain string) (*Tenant, error) {
	tenantName = normalizeName(tenantName)
	domain = normalizeName(domain)
	if tenantName != "" && domain != "" {
		return nil, NewError(ErrInvalidParameter, "cannot specify both tenantName and domain")
	}
	if tenantName == "" && domain == "" {
		return nil, NewError(ErrInvalidParameter, "one of tenantName or domain must be specified")
	}

	var tenant Tenant
	q := s.db.NewSelect().Model(&tenant)
	if tenantName != "" {
		q = q.Where("tenant_name = ?", tenantName)
	} else {
		q = q.Where("domain = ?", domain)
	}

	err := dbkit.WithErr1(q.Limit(1).Scan(ctx), "GetTenantByNameOrDomain").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// ListTenants returns tenants ordered by name, paginated.
func (s *Service) ListTenants(ctx context.Context, filter PageFilter) ([]Tenant, error) {
	var tenants []Tenant
	err := dbkit.WithErr1(s.db.NewSelect().Model(&tenants).
		Order("tenant_name ASC").
		Limit(filter.limitOr(s.config.PageLimit)).
		Offset(filter.Offset).
		Scan(ctx), "ListTenants").Err()
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// UpdateTenant applies a partial patch and bumps modified_at. Returns the
// number of rows updated (0 when the tenant does not exist).
func (s *Service) UpdateTenant(ctx context.Context, tenantID string, patch TenantPatch) (int64, error) {
	q := s.db.NewUpdate().Model((*Tenant)(nil)).
		Set("modified_at = ?", time.Now()).
		Where("tenant_id = ?", tenantID)
	if patch.TenantName != "" {
		q = q.Set("tenant_name = ?", normalizeName(patch.TenantName))
	}
	if patch.Domain != "" {
		q = q.Set("domain = ?", normalizeName(patch.Domain))
	}

	result, err := q.Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateTenant").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// RemoveTenant hard-deletes a tenant; all owned users, roles and permissions
// cascade. Protected tenants (root, global) report 0 rows deleted.
func (s *Service) RemoveTenant(ctx context.Context, tenantID string) (int64, error) {
	result, err := s.db.NewDelete().Model((*Tenant)(nil)).
		Where("tenant_id = ?", tenantID).
		Where("can_be_deleted = ?", true).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveTenant").Err(); err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
