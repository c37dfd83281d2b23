package authkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckPermissionsSingleName tests single-name requirements
func TestCheckPermissionsSingleName(t *testing.T) {
	grants := []string{"users.read", "users.write"}

	ok, err := CheckPermissions(Perm("users.read"), grants)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(Perm("users.delete"), grants)
	assert.NoError(t, err)
	assert.False(t, ok)

	// Empty grant set never passes
	ok, err = CheckPermissions(Perm("users.read"), nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// TestCheckPermissionsBareList tests bare lists in AND mode
func TestCheckPermissionsBareList(t *testing.T) {
	ok, err := CheckPermissions(Perm("a"), []string{"a", "b"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(Names("a", "b"), []string{"a", "b", "c"})
	assert.NoError(t, err)
	assert.True(t, ok)

	// All children must hold
	ok, err = CheckPermissions(Names("a", "b", "c"), []string{"a", "b"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// Empty list is vacuously true in AND mode
	ok, err = CheckPermissions(Names(), []string{"a"})
	assert.NoError(t, err)
	assert.True(t, ok)
}

// TestCheckAnyPermissions tests bare lists in OR mode
func TestCheckAnyPermissions(t *testing.T) {
	ok, err := CheckAnyPermissions(Names("a", "z"), []string{"z"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckAnyPermissions(Names("x", "y"), []string{"a", "b"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// Empty list never passes in OR mode
	ok, err = CheckAnyPermissions(Names(), []string{"a"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// A single name behaves the same in either mode
	ok, err = CheckAnyPermissions(Perm("a"), []string{"a"})
	assert.NoError(t, err)
	assert.True(t, ok)
}

// TestCheckPermissionsAllAny tests explicit All and Any nodes
func TestCheckPermissionsAllAny(t *testing.T) {
	grants := []string{"a", "b"}

	ok, err := CheckPermissions(AllOf(Perm("a"), Perm("b")), grants)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(AllOf(Perm("a"), Perm("c")), grants)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = CheckPermissions(AnyOf(Perm("c"), Perm("b")), grants)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(AnyOf(Perm("a"), Perm("b")), []string{"c"})
	assert.NoError(t, err)
	assert.False(t, ok)
}

// TestCheckPermissionsNested tests nested requirement trees
func TestCheckPermissionsNested(t *testing.T) {
	// any( all(a,b), any(c,d) ) against [a,b]
	req := AnyOf(
		AllOf(Perm("a"), Perm("b")),
		AnyOf(Perm("c"), Perm("d")),
	)

	ok, err := CheckPermissions(req, []string{"a", "b"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(req, []string{"d"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(req, []string{"a", "c"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(req, []string{"a"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// A bare list nested inside an Any still evaluates its members in AND mode
	req = AnyOf(Names("a", "b"), Perm("z"))
	ok, err = CheckPermissions(req, []string{"a"})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = CheckPermissions(req, []string{"a", "b"})
	assert.NoError(t, err)
	assert.True(t, ok)
}

// TestCheckPermissionsInvalid tests malformed requirement literals
func TestCheckPermissionsInvalid(t *testing.T) {
	// All and Any on the same node
	_, err := CheckPermissions(Requirement{
		All: []Requirement{{Name: "a"}},
		Any: []Requirement{{Name: "b"}},
	}, []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))

	// Name combined with children
	_, err = CheckPermissions(Requirement{
		Name: "a",
		List: []Requirement{{Name: "b"}},
	}, []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))

	// Invalid nodes are rejected even when nested
	_, err = CheckPermissions(AllOf(Perm("a"), Requirement{
		All: []Requirement{{Name: "b"}},
		Any: []Requirement{{Name: "c"}},
	}), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))

	// An empty requirement gates nothing
	ok, err := CheckPermissions(Requirement{}, []string{"a"})
	assert.NoError(t, err)
	assert.False(t, ok)
}

// TestCheckPermissionsShortCircuit tests that evaluation stops at the first
// decisive child, so an invalid node after it is never visited
func TestCheckPermissionsShortCircuit(t *testing.T) {
	invalid := Requirement{
		All: []Requirement{{Name: "x"}},
		Any: []Requirement{{Name: "y"}},
	}

	// AND mode: first child fails, the invalid node is never reached
	ok, err := CheckPermissions(AllOf(Perm("missing"), invalid), []string{"a"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// OR mode: first child passes, the invalid node is never reached
	ok, err = CheckPermissions(AnyOf(Perm("a"), invalid), []string{"a"})
	assert.NoError(t, err)
	assert.True(t, ok)
}

// TestRequirementJSON tests that requirement trees round-trip through JSON,
// for hosts that store requirements in configuration
func TestRequirementJSON(t *testing.T) {
	req := AnyOf(AllOf(Perm("a"), Perm("b")), Perm("_admin"))

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded Requirement
	require.NoError(t, json.Unmarshal(data, &decoded))

	ok, err := CheckPermissions(decoded, []string{"_admin"})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPermissions(decoded, []string{"a"})
	assert.NoError(t, err)
	assert.False(t, ok)
}
