package policy

import (
	"testing"

	"journal/internal/rbac/model"

	"github.com/stretchr/testify/assert"
)

func joined(roleIDs ...string) []*model.UserRole {
	catalog := make(map[string]*model.Role)
	for _, r := range DefaultRoles() {
		catalog[r.ID] = r
	}
	out := make([]*model.UserRole, 0, len(roleIDs))
	for i, id := range roleIDs {
		out = append(out, &model.UserRole{AssignmentID: string(rune('a' + i)), RoleID: id, Role: catalog[id]})
	}
	return out
}

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles()
	assert.Len(t, roles, 5)

	levels := map[string]int{}
	for _, r := range roles {
		levels[r.ID] = r.Level
		for _, p := range r.Permissions {
			assert.True(t, p.Valid(), "%s grants unknown permission %s", r.ID, p)
		}
	}
	assert.Equal(t, map[string]int{
		model.RoleOwner:          0,
		model.RoleAdmin:          1,
		model.RoleVerifiedUser:   2,
		model.RoleUnverifiedUser: 3,
		model.RoleGuest:          4,
	}, levels)

	// callers get copies
	roles[0].Permissions[0] = model.PermLike
	assert.Equal(t, model.PermAll, RolePermissions[model.RoleOwner][0])
}

func TestPriority(t *testing.T) {
	assert.Less(t, Priority(model.RoleOwner), Priority(model.RoleAdmin))
	assert.Less(t, Priority(model.RoleAdmin), Priority(model.RoleVerifiedUser))
	assert.Less(t, Priority(model.RoleVerifiedUser), Priority(model.RoleUnverifiedUser))
	assert.Less(t, Priority(model.RoleUnverifiedUser), Priority(model.RoleGuest))
	assert.Equal(t, UnknownPriority, Priority("editor"))
}

func TestCheckRolesHavePermission(t *testing.T) {
	t.Run("owner wildcard grants invented permissions", func(t *testing.T) {
		assert.True(t, CheckRolesHavePermission(joined(model.RoleOwner), model.Permission("made:up")))
	})

	t.Run("union across roles", func(t *testing.T) {
		roles := joined(model.RoleUnverifiedUser, model.RoleVerifiedUser)
		assert.True(t, CheckRolesHavePermission(roles, model.PermComment))
		assert.False(t, CheckRolesHavePermission(roles, model.PermViewAllPosts))
	})

	t.Run("dangling role grants nothing", func(t *testing.T) {
		roles := []*model.UserRole{{AssignmentID: "x", RoleID: "deleted"}}
		assert.False(t, CheckRolesHavePermission(roles, model.PermReadPublished))
	})

	t.Run("admin lacks like", func(t *testing.T) {
		assert.False(t, CheckRolesHavePermission(joined(model.RoleAdmin), model.PermLike))
	})
}

func TestGuestHasPermission(t *testing.T) {
	assert.True(t, GuestHasPermission(model.PermReadPublished))
	for _, p := range model.KnownPermissions {
		if p != model.PermReadPublished {
			assert.False(t, GuestHasPermission(p), string(p))
		}
	}
	assert.False(t, GuestHasPermission(model.PermAll))
}

func TestMinLevel(t *testing.T) {
	level, ok := MinLevel(joined(model.RoleVerifiedUser, model.RoleAdmin))
	assert.True(t, ok)
	assert.Equal(t, model.LevelAdmin, level)

	_, ok = MinLevel(nil)
	assert.False(t, ok)

	_, ok = MinLevel([]*model.UserRole{{RoleID: "deleted"}})
	assert.False(t, ok)
}

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(joined(model.RoleOwner)))
	assert.True(t, IsOwner([]*model.UserRole{{RoleID: "founder", Role: &model.Role{ID: "founder", Level: 0}}}))
	assert.True(t, IsOwner([]*model.UserRole{{RoleID: model.RoleOwner}}))
	assert.False(t, IsOwner(joined(model.RoleAdmin)))
}

func TestUnionPermissions(t *testing.T) {
	assert.Equal(t, []model.Permission{model.PermAll}, UnionPermissions(joined(model.RoleAdmin, model.RoleOwner)))
	assert.Equal(t,
		[]model.Permission{model.PermComment, model.PermLike, model.PermReadPublished},
		UnionPermissions(joined(model.RoleUnverifiedUser, model.RoleVerifiedUser)),
	)
	assert.Empty(t, UnionPermissions(nil))
}

func TestGetRolesWithPermission(t *testing.T) {
	assert.Equal(t, []string{model.RoleOwner, model.RoleAdmin}, GetRolesWithPermission(model.PermViewAllPosts))
	assert.Equal(t,
		[]string{model.RoleOwner, model.RoleVerifiedUser, model.RoleUnverifiedUser},
		GetRolesWithPermission(model.PermLike),
	)
}
