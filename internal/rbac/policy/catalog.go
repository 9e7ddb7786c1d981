package policy

import (
	"journal/internal/rbac/model"
)

// RolePermissions is the default permission grant of every catalog role.
var RolePermissions = map[string][]model.Permission{
	model.RoleOwner: {
		model.PermAll,
	},
	model.RoleAdmin: {
		model.PermReadAll,
		model.PermWriteAll,
		model.PermPublishAll,
		model.PermDeleteAll,
		model.PermManageUsers,
		model.PermViewAllPosts,
	},
	model.RoleVerifiedUser: {
		model.PermReadPublished,
		model.PermLike,
		model.PermComment,
	},
	model.RoleUnverifiedUser: {
		model.PermReadPublished,
		model.PermLike,
	},
	model.RoleGuest: {
		model.PermReadPublished,
	},
}

// GuestPermissions apply to callers without an identity.
var GuestPermissions = RolePermissions[model.RoleGuest]

// RolePriority orders roles from most to least privileged.
var RolePriority = []string{
	model.RoleOwner,
	model.RoleAdmin,
	model.RoleVerifiedUser,
	model.RoleUnverifiedUser,
	model.RoleGuest,
}

// UnknownPriority ranks role ids that are not in RolePriority.
const UnknownPriority = 999

// Priority returns the rank of roleID in RolePriority; lower wins.
func Priority(roleID string) int {
	for i, r := range RolePriority {
		if r == roleID {
			return i
		}
	}
	return UnknownPriority
}

// DefaultRoles returns a fresh copy of the seeded catalog.
func DefaultRoles() []*model.Role {
	return []*model.Role{
		{
			ID:          model.RoleOwner,
			Name:        "Owner",
			Level:       model.LevelOwner,
			Description: "Site owner with unrestricted access",
			Permissions: clonePerms(RolePermissions[model.RoleOwner]),
		},
		{
			ID:          model.RoleAdmin,
			Name:        "Administrator",
			Level:       model.LevelAdmin,
			Description: "Manages all content and users",
			Permissions: clonePerms(RolePermissions[model.RoleAdmin]),
		},
		{
			ID:          model.RoleVerifiedUser,
			Name:        "Verified User",
			Level:       model.LevelVerifiedUser,
			Description: "Signed-in user with a verified email",
			Permissions: clonePerms(RolePermissions[model.RoleVerifiedUser]),
		},
		{
			ID:          model.RoleUnverifiedUser,
			Name:        "Unverified User",
			Level:       model.LevelUnverifiedUser,
			Description: "Signed-in user whose email is not verified yet",
			Permissions: clonePerms(RolePermissions[model.RoleUnverifiedUser]),
		},
		{
			ID:          model.RoleGuest,
			Name:        "Guest",
			Level:       model.LevelGuest,
			Description: "Anonymous visitor",
			Permissions: clonePerms(RolePermissions[model.RoleGuest]),
		},
	}
}

func clonePerms(perms []model.Permission) []model.Permission {
	return append([]model.Permission(nil), perms...)
}
