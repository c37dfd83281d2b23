package authkit

import (
	"context"
	"slices"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PERMISSION REQUIREMENTS
// ============================================================================

// Requirement is a boolean expression over permission names, used to gate an
// action. It has four shapes:
//
//   - a single permission name: true iff the name is in the grant set.
//   - a bare list: true iff all children hold (AND), or at least one under
//     CheckAnyPermissions (OR).
//   - an All node: children recurse in AND mode.
//   - an Any node: children recurse in OR mode.
//
// A node carrying both All and Any is invalid; the constructors below cannot
// build one, and evaluation rejects hand-built literals with
// ErrInvalidParameter. Evaluation short-circuits in both modes.
//
// Example:
//
//	req := authkit.AnyOf(
//	    authkit.AllOf(authkit.Perm("a"), authkit.Perm("b")),
//	    authkit.Perm("_admin"),
//	)
//	ok, err := authkit.CheckPermissions(req, grants)
type Requirement struct {
	Name string        `json:"name,omitempty"`
	List []Requirement `json:"list,omitempty"`
	All  []Requirement `json:"all,omitempty"`
	Any  []Requirement `json:"any,omitempty"`
}

// Perm builds a single-name requirement.
func Perm(name string) Requirement {
	return Requirement{Name: name}
}

// Names builds a bare list of single-name requirements.
func Names(names ...string) Requirement {
	reqs := make([]Requirement, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, Requirement{Name: name})
	}
	return Requirement{List: reqs}
}

// AllOf builds a requirement that holds iff every child holds.
func AllOf(reqs ...Requirement) Requirement {
	return Requirement{All: reqs}
}

// AnyOf builds a requirement that holds iff at least one child holds.
func AnyOf(reqs ...Requirement) Requirement {
	return Requirement{Any: reqs}
}

// CheckPermissions evaluates a requirement against a concrete grant set.
// Bare lists evaluate in AND mode. The function is pure: no I/O, no store
// access.
func CheckPermissions(requirement Requirement, grants []string) (bool, error) {
	return requirement.check(grants, false)
}

// CheckAnyPermissions evaluates a requirement with bare lists in OR mode:
// a top-level list holds when at least one child holds.
func CheckAnyPermissions(requirement Requirement, grants []string) (bool, error) {
	return requirement.check(grants, true)
}

func (r Requirement) check(grants []string, anyMode bool) (bool, error) {
	if r.Name != "" {
		if r.List != nil || r.All != nil || r.Any != nil {
			return false, NewError(ErrInvalidParameter, "requirement cannot combine a name with children")
		}
		return slices.Contains(grants, r.Name), nil
	}
	if r.List != nil {
		return checkList(r.List, grants, anyMode)
	}
	if r.All != nil && r.Any != nil {
		return false, NewError(ErrInvalidParameter, "requirement cannot have all and any in the same condition")
	}
	if r.All != nil {
		return checkList(r.All, grants, false)
	}
	if r.Any != nil {
		return checkList(r.Any, grants, true)
	}
	// An empty requirement gates nothing and never passes.
	return false, nil
}

// checkList evaluates children left to right, short-circuiting: AND mode
// stops at the first failure, OR mode at the first success. Inner bare lists
// revert to AND mode, matching the recursive structure of the expression.
func checkList(reqs []Requirement, grants []string, anyMode bool) (bool, error) {
	for _, req := range reqs {
		ok, err := req.check(grants, false)
		if err != nil {
			return false, err
		}
		if anyMode && ok {
			return true, nil
		}
		if !anyMode && !ok {
			return false, nil
		}
	}
	return !anyMode, nil
}

// ============================================================================
// GRANT SET RESOLUTION
// ============================================================================

// UserPermissionRow is one raw row of a user's resolved permission set: the
// permission joined with the granting edge's denied flag. The same name can
// appear several times when several roles reference it.
type UserPermissionRow struct {
	PermissionID string `bun:"permission_id"`
	Permission   string `bun:"permission"`
	Description  string `bun:"description"`
	Global       bool   `bun:"global"`
	Denied       bool   `bun:"denied"`
}

// UserPermissions is a user's resolved permission set, partitioned into
// allowed and denied names. Grants is the effective set: Allow minus Deny,
// a deny always winning over a grant of the same name.
type UserPermissions struct {
	Allow       []string
	Deny        []string
	Grants      []string
	Permissions []UserPermissionRow
}

// ListUserPermissions resolves the user's grant set from the role graph:
// permissions reached through the user's roles, partitioned by the edges'
// denied flags.
func (s *Service) ListUserPermissions(ctx context.Context, userID string) (*UserPermissions, error) {
	var rows []UserPermissionRow
	err := dbkit.WithErr1(s.db.NewRaw(
		`SELECT p.permission_id, p.permission, p.description, p.global, rp.denied
		 FROM permissions AS p
		 JOIN roles_permissions AS rp ON rp.permission_id = p.permission_id
		 JOIN roles AS r ON r.role_id = rp.role_id
		 JOIN users_roles AS ur ON ur.role_id = r.role_id
		 WHERE ur.user_id = ?`, userID).Scan(ctx, &rows), "ListUserPermissions").Err()
	if err != nil {
		return nil, err
	}

	up := &UserPermissions{Permissions: rows}
	for _, row := range rows {
		if row.Denied {
			up.Deny = append(up.Deny, row.Permission)
		} else {
			up.Allow = append(up.Allow, row.Permission)
		}
	}
	for _, name := range up.Allow {
		if !slices.Contains(up.Deny, name) {
			up.Grants = append(up.Grants, name)
		}
	}
	return up, nil
}

// CheckUserPermissionsByName resolves a user by tenant and name, computes
// the grant set and evaluates the requirement against it. An unknown user
// holds no permission and fails the check without an error.
func (s *Service) CheckUserPermissionsByName(ctx context.Context, requirement Requirement, tenantID, userName string) (bool, error) {
	user, err := s.GetUserByName(ctx, tenantID, userName)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	up, err := s.ListUserPermissions(ctx, user.UserID)
	if err != nil {
		return false, err
	}
	return CheckPermissions(requirement, up.Grants)
}
