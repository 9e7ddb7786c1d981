package model

// Roles
const (
	RoleOwner          = "owner"
	RoleAdmin          = "admin"
	RoleVerifiedUser   = "verified_user"
	RoleUnverifiedUser = "unverified_user"
	RoleGuest          = "guest"
)

// Role levels. Lower is more privileged.
const (
	LevelOwner          = 0
	LevelAdmin          = 1
	LevelVerifiedUser   = 2
	LevelUnverifiedUser = 3
	LevelGuest          = 4
)

// AssignableRoles are the roles that may be written to userRoles.
// Guest is virtual and never persisted.
var AssignableRoles = map[string]bool{
	RoleOwner:          true,
	RoleAdmin:          true,
	RoleVerifiedUser:   true,
	RoleUnverifiedUser: true,
}

// LevelRoleNames maps a level back to the role id used for display.
var LevelRoleNames = map[int]string{
	LevelOwner:          RoleOwner,
	LevelAdmin:          RoleAdmin,
	LevelVerifiedUser:   RoleVerifiedUser,
	LevelUnverifiedUser: RoleUnverifiedUser,
	LevelGuest:          RoleGuest,
}

// Actors recorded in assignedBy when no user made the change.
const (
	AssignedBySystem             = "system"
	AssignedBySystemVerification = "system-verification"
	AssignedBySystemReset        = "system-reset"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Audit actions
const (
	ActionRoleAssign    = "role:assign"
	ActionRoleRemoveAll = "role:remove-all"
	ActionRoleCleanup   = "role:cleanup"
	ActionRolesSeed     = "roles:seed"
	ActionBlogCreate    = "blog:create"
	ActionBlogUpdate    = "blog:update"
	ActionBlogDelete    = "blog:delete"
	ActionBlogPublish   = "blog:publish"
	ActionBlogUnpublish = "blog:unpublish"
	ActionBlogLike      = "blog:like"
	ActionBlogUnlike    = "blog:unlike"
	ActionMapCreate     = "map:create"
	ActionMapUpdate     = "map:update"
	ActionMapDelete     = "map:delete"
)

// Audit entity types
const (
	EntityUser     = "user"
	EntityRole     = "role"
	EntityPost     = "post"
	EntityMapPoint = "map_point"
)
