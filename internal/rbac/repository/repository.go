package repository

import (
	"context"
	"time"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
)

// ErrNotFound is returned by single-document reads when nothing is stored under the id.
var ErrNotFound = adapter.ErrNotFound

// Collections holds the logical collection names.
type Collections struct {
	Roles     string
	UserRoles string
	AuditLogs string
	Posts     string
	Likes     string
	MapPoints string
}

func DefaultCollections() Collections {
	return Collections{
		Roles:     "roles",
		UserRoles: "userRoles",
		AuditLogs: "auditLogs",
		Posts:     "posts",
		Likes:     "likes",
		MapPoints: "mapPoints",
	}
}

type RoleRepository interface {
	// Merge-upsert a catalog role, preserving fields not present on role
	UpsertRole(ctx context.Context, role *model.Role) error
	// Get a catalog role by id
	GetRole(ctx context.Context, id string) (*model.Role, error)
}

type UserRoleRepository interface {
	// Append an assignment and return its store-generated id
	CreateAssignment(ctx context.Context, a *model.UserRoleAssignment) (string, error)
	// All assignments of one user, oldest first
	FindAssignments(ctx context.Context, userID string) ([]*model.UserRoleAssignment, error)
	// Assignments holding roleID across all users
	FindAssignmentsByRole(ctx context.Context, roleID string) ([]*model.UserRoleAssignment, error)
	// Every assignment in the store, oldest first
	ListAssignments(ctx context.Context) ([]*model.UserRoleAssignment, error)
	// Delete one assignment (no-op if already gone)
	DeleteAssignment(ctx context.Context, id string) error
}

// AuditRepository is append-only from the core's perspective.
type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *model.AuditLogEntry) error
	// FindAuditLogs pages through entries newest first
	FindAuditLogs(ctx context.Context, req model.GetAuditLogsReq) ([]*model.AuditLogEntry, int64, error)
}

type PostRepository interface {
	GetPost(ctx context.Context, id string) (*model.Post, error)
	FindPosts(ctx context.Context, filter model.PostFilter) ([]*model.Post, error)
	CreatePost(ctx context.Context, post *model.Post) (string, error)
	// Patch top-level fields of an existing post
	UpdatePost(ctx context.Context, id string, fields map[string]any) error
	DeletePost(ctx context.Context, id string) error
	// Atomically add delta to a numeric counter (views, likes)
	IncrementPostCounter(ctx context.Context, id, field string, delta int64) error
}

type LikeRepository interface {
	GetLike(ctx context.Context, postID, userID string) (*model.Like, error)
	// Create or overwrite the like stored under LikeID(postID, userID)
	PutLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, postID, userID string) error
	CountLikes(ctx context.Context, postID string) (int64, error)
}

type MapPointRepository interface {
	GetMapPoint(ctx context.Context, id string) (*model.MapPoint, error)
	ListMapPoints(ctx context.Context) ([]*model.MapPoint, error)
	CreateMapPoint(ctx context.Context, point *model.MapPoint) (string, error)
	// Patch top-level fields of an existing point
	UpdateMapPoint(ctx context.Context, id string, fields map[string]any) error
	DeleteMapPoint(ctx context.Context, id string) error
}

// Repository is everything the service layer needs from storage.
type Repository interface {
	RoleRepository
	UserRoleRepository
	AuditRepository
	PostRepository
	LikeRepository
	MapPointRepository
	// Now is the store's timestamp source
	Now() time.Time
}
