package policy

import (
	"sort"

	"journal/internal/rbac/model"
)

// Grants reports whether role carries permission, directly or through the wildcard.
func Grants(role *model.Role, permission model.Permission) bool {
	if role == nil {
		return false
	}
	for _, p := range role.Permissions {
		if p == model.PermAll || p == permission {
			return true
		}
	}
	return false
}

// CheckRolesHavePermission reports whether any joined role grants permission.
func CheckRolesHavePermission(roles []*model.UserRole, permission model.Permission) bool {
	for _, ur := range roles {
		if Grants(ur.Role, permission) {
			return true
		}
	}
	return false
}

// GuestHasPermission is the answer for callers without an identity.
func GuestHasPermission(permission model.Permission) bool {
	for _, p := range GuestPermissions {
		if p == permission {
			return true
		}
	}
	return false
}

// MinLevel returns the most privileged level among joined roles.
// ok is false when no role joined.
func MinLevel(roles []*model.UserRole) (level int, ok bool) {
	level = model.LevelGuest
	for _, ur := range roles {
		if ur.Role == nil {
			continue
		}
		if !ok || ur.Role.Level < level {
			level = ur.Role.Level
			ok = true
		}
	}
	return level, ok
}

// IsOwner reports whether any assignment is the owner role, by id or by level.
func IsOwner(roles []*model.UserRole) bool {
	for _, ur := range roles {
		if ur.RoleID == model.RoleOwner {
			return true
		}
		if ur.Role != nil && ur.Role.Level == model.LevelOwner {
			return true
		}
	}
	return false
}

// UnionPermissions merges the permissions of all joined roles, sorted.
// A wildcard grant collapses the result to just the wildcard.
func UnionPermissions(roles []*model.UserRole) []model.Permission {
	set := make(map[model.Permission]bool)
	for _, ur := range roles {
		if ur.Role == nil {
			continue
		}
		for _, p := range ur.Role.Permissions {
			if p == model.PermAll {
				return []model.Permission{model.PermAll}
			}
			set[p] = true
		}
	}
	perms := make([]model.Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// GetRolesWithPermission returns catalog roles that grant permission
func GetRolesWithPermission(permission model.Permission) []string {
	var roles []string
	for role, perms := range RolePermissions {
		for _, p := range perms {
			if p == permission || p == model.PermAll {
				roles = append(roles, role)
				break
			}
		}
	}
	sort.Slice(roles, func(i, j int) bool { return Priority(roles[i]) < Priority(roles[j]) })
	return roles
}
