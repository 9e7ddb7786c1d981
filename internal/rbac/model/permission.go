package model

// Permission is a capability token checked by the resolver.
type Permission string

const (
	PermReadPublished Permission = "blog:read-published"
	PermReadAll       Permission = "blog:read-all"
	PermWriteOwn      Permission = "blog:write-own"
	PermWriteAll      Permission = "blog:write-all"
	PermPublishOwn    Permission = "blog:publish-own"
	PermPublishAll    Permission = "blog:publish-all"
	PermDeleteOwn     Permission = "blog:delete-own"
	PermDeleteAll     Permission = "blog:delete-all"
	PermLike          Permission = "blog:like"
	PermComment       Permission = "blog:comment"
	PermViewAllPosts  Permission = "view:all-posts"
	PermManageUsers   Permission = "user:manage"

	// PermAll grants every permission, including ones not listed here.
	PermAll Permission = "*"
)

// KnownPermissions is the closed vocabulary, excluding the wildcard.
var KnownPermissions = []Permission{
	PermReadPublished,
	PermReadAll,
	PermWriteOwn,
	PermWriteAll,
	PermPublishOwn,
	PermPublishAll,
	PermDeleteOwn,
	PermDeleteAll,
	PermLike,
	PermComment,
	PermViewAllPosts,
	PermManageUsers,
}

var knownPermissionSet = func() map[Permission]bool {
	m := make(map[Permission]bool, len(KnownPermissions)+1)
	for _, p := range KnownPermissions {
		m[p] = true
	}
	m[PermAll] = true
	return m
}()

// Valid reports whether p is part of the vocabulary or the wildcard.
func (p Permission) Valid() bool {
	return knownPermissionSet[p]
}

func (p Permission) String() string {
	return string(p)
}

// ParsePermission converts a raw token into a Permission.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	return p, p.Valid()
}
