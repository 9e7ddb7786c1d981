package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionVocabulary(t *testing.T) {
	for _, p := range KnownPermissions {
		assert.True(t, p.Valid(), string(p))
	}
	assert.True(t, PermAll.Valid())

	_, ok := ParsePermission("blog:write-everything")
	assert.False(t, ok)

	p, ok := ParsePermission("view:all-posts")
	assert.True(t, ok)
	assert.Equal(t, PermViewAllPosts, p)
}

func TestPostPublished(t *testing.T) {
	assert.True(t, (&Post{Status: PostStatusPublished}).Published())
	assert.True(t, (&Post{Status: PostStatusDraft, IsPublished: true}).Published())
	assert.False(t, (&Post{Status: PostStatusDraft}).Published())
	assert.False(t, (&Post{Status: PostStatusArchived}).Published())
}

func TestCheckPermissionReq(t *testing.T) {
	t.Run("known permission is accepted", func(t *testing.T) {
		req := CheckPermissionReq{Permission: "  blog:like "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "blog:like", req.Permission)
	})

	t.Run("missing permission is rejected", func(t *testing.T) {
		req := CheckPermissionReq{}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "bad_request", err.(*ErrorDetail).Code)
	})

	t.Run("typo permission is rejected", func(t *testing.T) {
		req := CheckPermissionReq{Permission: "blog:publsh-all"}
		assert.Error(t, req.Validate())
	})
}

func TestChangeUserRoleReq(t *testing.T) {
	t.Run("role is normalized", func(t *testing.T) {
		req := ChangeUserRoleReq{UserID: " u1 ", RoleID: " Admin "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "u1", req.UserID)
		assert.Equal(t, RoleAdmin, req.RoleID)
	})

	t.Run("guest cannot be assigned", func(t *testing.T) {
		req := ChangeUserRoleReq{UserID: "u1", RoleID: RoleGuest}
		assert.Error(t, req.Validate())
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		req := ChangeUserRoleReq{UserID: "u1", RoleID: "superuser"}
		assert.Error(t, req.Validate())
	})
}

func TestCreatePostReq(t *testing.T) {
	t.Run("valid request is normalized", func(t *testing.T) {
		req := CreatePostReq{
			Title: "  Hello  ",
			Slug:  "Hello-World",
			Tags:  []string{"Travel", "travel", " "},
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Hello", req.Title)
		assert.Equal(t, "hello-world", req.Slug)
		assert.Equal(t, []string{"travel"}, req.Tags)
	})

	t.Run("bad slug is rejected", func(t *testing.T) {
		req := CreatePostReq{Title: "x", Slug: "not a slug"}
		assert.Error(t, req.Validate())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		req := CreatePostReq{Title: "x", Status: "deleted"}
		assert.Error(t, req.Validate())
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		req := CreatePostReq{Content: "body"}
		assert.Error(t, req.Validate())
	})
}

func TestUpdatePostReq(t *testing.T) {
	blank := "   "
	req := UpdatePostReq{ID: "p1", Title: &blank}
	assert.Error(t, req.Validate())

	slug := " New-Slug "
	req = UpdatePostReq{ID: "p1", Slug: &slug}
	require.NoError(t, req.Validate())
	assert.Equal(t, "new-slug", *req.Slug)
}

func TestGetAuditLogsReq(t *testing.T) {
	t.Run("pagination defaults", func(t *testing.T) {
		req := GetAuditLogsReq{}
		require.NoError(t, req.Validate())
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, 100, req.Size)
	})

	t.Run("size is capped", func(t *testing.T) {
		req := GetAuditLogsReq{Size: 5000}
		require.NoError(t, req.Validate())
		assert.Equal(t, 1000, req.Size)
	})

	t.Run("inverted time range is rejected", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)
		req := GetAuditLogsReq{StartTime: &start, EndTime: &end}
		assert.Error(t, req.Validate())
	})
}

func TestMapPointReqs(t *testing.T) {
	t.Run("create defaults to planned", func(t *testing.T) {
		req := CreateMapPointReq{Title: " Kyoto ", Coords: []float64{35.0116, 135.7681}}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Kyoto", req.Title)
		assert.Equal(t, MapPointStatusPlanned, req.Status)
	})

	t.Run("create rejects bad input", func(t *testing.T) {
		tests := []struct {
			name string
			req  CreateMapPointReq
		}{
			{"missing title", CreateMapPointReq{Coords: []float64{0, 0}}},
			{"missing coords", CreateMapPointReq{Title: "x"}},
			{"three coords", CreateMapPointReq{Title: "x", Coords: []float64{1, 2, 3}}},
			{"latitude out of range", CreateMapPointReq{Title: "x", Coords: []float64{91, 0}}},
			{"longitude out of range", CreateMapPointReq{Title: "x", Coords: []float64{0, -181}}},
			{"unknown status", CreateMapPointReq{Title: "x", Coords: []float64{0, 0}, Status: "visited"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, tt.req.Validate())
			})
		}
	})

	t.Run("update checks only present fields", func(t *testing.T) {
		status := " Completed "
		req := UpdateMapPointReq{ID: "p1", Status: &status}
		require.NoError(t, req.Validate())
		assert.Equal(t, MapPointStatusCompleted, *req.Status)

		empty := " "
		req = UpdateMapPointReq{ID: "p1", Title: &empty}
		assert.Error(t, req.Validate())

		coords := []float64{0, 200}
		req = UpdateMapPointReq{ID: "p1", Coords: &coords}
		assert.Error(t, req.Validate())
	})
}
