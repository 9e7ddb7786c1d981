package service

import (
	"context"
	"testing"

	"journal/internal/rbac/model"
	"journal/internal/rbac/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostFixture seeds the catalog with an owner, an admin and two verified
// users, and grants verified users the "own" post permissions so authorship
// matters.
func newPostFixture(t *testing.T) *Service {
	t.Helper()
	s := newTestService(t)
	seedCatalog(t, s)
	assign(t, s, "owner_1", model.RoleOwner)
	assign(t, s, "admin_1", model.RoleAdmin)
	assign(t, s, "alice", model.RoleVerifiedUser)
	assign(t, s, "bob", model.RoleVerifiedUser)

	role, err := s.Repo.GetRole(context.Background(), model.RoleVerifiedUser)
	require.NoError(t, err)
	role.Permissions = append(role.Permissions, model.PermWriteOwn, model.PermPublishOwn, model.PermDeleteOwn)
	require.NoError(t, s.Repo.UpsertRole(context.Background(), role))
	s.invalidateAll()
	return s
}

func storePost(t *testing.T, s *Service, post *model.Post) *model.Post {
	t.Helper()
	if post.Status == "" {
		post.Status = model.PostStatusDraft
	}
	_, err := s.Repo.CreatePost(context.Background(), post)
	require.NoError(t, err)
	return post
}

func TestCanUserViewPost(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)

	published := &model.Post{ID: "p1", AuthorID: "A", Status: model.PostStatusPublished}
	legacy := &model.Post{ID: "p2", AuthorID: "A", Status: model.PostStatusDraft, IsPublished: true}
	draft := &model.Post{ID: "p3", AuthorID: "A", Status: model.PostStatusDraft}

	t.Run("published posts are public", func(t *testing.T) {
		assert.True(t, s.CanUserViewPost(ctx, published, ""))
		assert.True(t, s.CanUserViewPost(ctx, legacy, ""))
	})

	t.Run("drafts are visible to author and view-all holders only", func(t *testing.T) {
		assert.True(t, s.CanUserViewPost(ctx, draft, "A"))
		assert.False(t, s.CanUserViewPost(ctx, draft, "bob"))
		assert.True(t, s.CanUserViewPost(ctx, draft, "admin_1"))
		assert.False(t, s.CanUserViewPost(ctx, draft, ""))
	})

	assert.False(t, s.CanUserViewPost(ctx, nil, "admin_1"))
}

func TestPostActionChecks(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)
	post := &model.Post{ID: "p1", AuthorID: "alice", Status: model.PostStatusDraft}

	tests := []struct {
		name   string
		userID string
		want   bool
	}{
		{"author with own permissions", "alice", true},
		{"other verified user", "bob", false},
		{"admin", "admin_1", true},
		{"owner", "owner_1", true},
		{"anonymous", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CanUserEditPost(ctx, post, tt.userID))
			assert.Equal(t, tt.want, s.CanUserPublishPost(ctx, post, tt.userID))
			assert.Equal(t, tt.want, s.CanUserDeletePost(ctx, post, tt.userID))
		})
	}

	t.Run("authorship alone is not enough", func(t *testing.T) {
		assign(t, s, "carol", model.RoleUnverifiedUser)
		own := &model.Post{ID: "p2", AuthorID: "carol"}
		assert.False(t, s.CanUserEditPost(ctx, own, "carol"))
	})
}

func TestPublishPost(t *testing.T) {
	ctx := context.Background()

	t.Run("author publishes own post", func(t *testing.T) {
		s := newPostFixture(t)
		post := storePost(t, s, &model.Post{Title: "Hello", Content: "World", AuthorID: "alice", Slug: "hello"})

		got, err := s.PublishPost(ctx, post.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, model.PostStatusPublished, got.Status)
		assert.True(t, got.IsPublished)
		require.NotNil(t, got.PublishedAt)

		stored, err := s.Repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PostStatusPublished, stored.Status)
		assert.True(t, stored.IsPublished)
		assert.NotNil(t, stored.PublishedAt)
		assert.Contains(t, auditActions(t, s), model.ActionBlogPublish)
	})

	t.Run("empty content is rejected and nothing changes", func(t *testing.T) {
		s := newPostFixture(t)
		post := storePost(t, s, &model.Post{Title: "Hello", Content: "  ", AuthorID: "alice", Slug: "hello"})

		_, err := s.PublishPost(ctx, post.ID, "alice")
		assert.ErrorIs(t, err, ErrValidation)

		stored, err := s.Repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PostStatusDraft, stored.Status)
		assert.False(t, stored.IsPublished)
		assert.Nil(t, stored.PublishedAt)
	})

	t.Run("publishing again keeps the first publish", func(t *testing.T) {
		s := newPostFixture(t)
		post := storePost(t, s, &model.Post{Title: "Hello", Content: "World", AuthorID: "alice", Slug: "hello"})

		first, err := s.PublishPost(ctx, post.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, first.PublishedAt)

		again, err := s.PublishPost(ctx, post.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, again.PublishedAt)
		assert.True(t, first.PublishedAt.Equal(*again.PublishedAt))

		published := 0
		for _, a := range auditActions(t, s) {
			if a == model.ActionBlogPublish {
				published++
			}
		}
		assert.Equal(t, 1, published)

		_, err = s.PublishPost(ctx, post.ID, "bob")
		assert.ErrorIs(t, err, ErrUnauthorized, "a published post still needs publish rights")
	})

	t.Run("error kinds", func(t *testing.T) {
		s := newPostFixture(t)
		post := storePost(t, s, &model.Post{Title: "Hello", Content: "World", AuthorID: "alice", Slug: "hello"})

		_, err := s.PublishPost(ctx, post.ID, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
		_, err = s.PublishPost(ctx, post.ID, "bob")
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = s.PublishPost(ctx, "missing", "alice")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUnpublishPost(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)
	post := storePost(t, s, &model.Post{Title: "Hello", Content: "World", AuthorID: "alice", Slug: "hello", Status: model.PostStatusPublished, IsPublished: true})

	_, err := s.UnpublishPost(ctx, post.ID, "bob")
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := s.UnpublishPost(ctx, post.ID, "admin_1")
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusDraft, got.Status)
	assert.False(t, got.IsPublished)

	stored, err := s.Repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, stored.Published())
	assert.Contains(t, auditActions(t, s), model.ActionBlogUnpublish)
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug, excerpt and read time", func(t *testing.T) {
		s := newPostFixture(t)
		post, err := s.CreatePost(ctx, "alice", model.CreatePostReq{
			Title:   "Café in Lisboa",
			Content: "## Morning\n\nThe **best** coffee is at [this place](https://example.com).",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "cafe-in-lisboa", post.Slug)
		assert.Equal(t, model.PostStatusDraft, post.Status)
		assert.False(t, post.IsPublished)
		assert.Equal(t, 1, post.ReadTime)
		assert.Equal(t, "Morning\n\nThe best coffee is at this place.", post.Excerpt)
		assert.Equal(t, "alice", post.AuthorID)
		assert.Contains(t, auditActions(t, s), model.ActionBlogCreate)
	})

	t.Run("same title gets a suffixed slug", func(t *testing.T) {
		s := newPostFixture(t)
		first, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Road Notes"})
		require.NoError(t, err)
		second, err := s.CreatePost(ctx, "bob", model.CreatePostReq{Title: "Road notes!"})
		require.NoError(t, err)

		assert.Equal(t, "road-notes", first.Slug)
		assert.Equal(t, "road-notes-2", second.Slug)

		stored, err := s.Repo.GetPost(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "road-notes", stored.Slug)
	})

	t.Run("explicit slug collision is a conflict", func(t *testing.T) {
		s := newPostFixture(t)
		_, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "One", Slug: "shared"})
		require.NoError(t, err)

		_, err = s.CreatePost(ctx, "bob", model.CreatePostReq{Title: "Two", Slug: "shared"})
		assert.ErrorIs(t, err, ErrConflict)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("publishing on create needs publish rights and content", func(t *testing.T) {
		s := newPostFixture(t)

		_, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Empty", Status: model.PostStatusPublished})
		assert.ErrorIs(t, err, ErrValidation)

		post, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Full", Content: "Body", Status: model.PostStatusPublished})
		require.NoError(t, err)
		assert.True(t, post.IsPublished)
		assert.NotNil(t, post.PublishedAt)
	})

	t.Run("requires write permission", func(t *testing.T) {
		s := newPostFixture(t)
		assign(t, s, "reader", model.RoleUnverifiedUser)

		_, err := s.CreatePost(ctx, "reader", model.CreatePostReq{Title: "Nope"})
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = s.CreatePost(ctx, "", model.CreatePostReq{Title: "Nope"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	str := func(v string) *string { return &v }

	t.Run("patches fields and keeps status flags in sync", func(t *testing.T) {
		s := newPostFixture(t)
		post, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Draft", Content: "first words"})
		require.NoError(t, err)

		got, err := s.UpdatePost(ctx, "alice", model.UpdatePostReq{
			ID:      post.ID,
			Content: str("second words here"),
			Status:  str(model.PostStatusPublished),
		})
		require.NoError(t, err)
		assert.Equal(t, "second words here", got.Content)
		assert.Equal(t, "second words here", got.Excerpt)
		assert.Equal(t, model.PostStatusPublished, got.Status)
		assert.True(t, got.IsPublished)
		assert.NotNil(t, got.PublishedAt)
		assert.True(t, got.UpdatedAt.After(post.UpdatedAt))
	})

	t.Run("custom excerpt survives content edits", func(t *testing.T) {
		s := newPostFixture(t)
		post, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "T", Content: "body", Excerpt: "hand written"})
		require.NoError(t, err)

		got, err := s.UpdatePost(ctx, "alice", model.UpdatePostReq{ID: post.ID, Content: str("new body")})
		require.NoError(t, err)
		assert.Equal(t, "hand written", got.Excerpt)
	})

	t.Run("slug change is checked for uniqueness", func(t *testing.T) {
		s := newPostFixture(t)
		_, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Taken"})
		require.NoError(t, err)
		post, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Mine"})
		require.NoError(t, err)

		_, err = s.UpdatePost(ctx, "alice", model.UpdatePostReq{ID: post.ID, Slug: str("taken")})
		assert.ErrorIs(t, err, ErrConflict)

		got, err := s.UpdatePost(ctx, "alice", model.UpdatePostReq{ID: post.ID, Slug: str("mine")})
		require.NoError(t, err)
		assert.Equal(t, "mine", got.Slug)
	})

	t.Run("only editors may update", func(t *testing.T) {
		s := newPostFixture(t)
		post, err := s.CreatePost(ctx, "alice", model.CreatePostReq{Title: "Mine"})
		require.NoError(t, err)

		_, err = s.UpdatePost(ctx, "bob", model.UpdatePostReq{ID: post.ID, Title: str("Stolen")})
		assert.ErrorIs(t, err, ErrUnauthorized)

		got, err := s.UpdatePost(ctx, "admin_1", model.UpdatePostReq{ID: post.ID, Title: str("Edited")})
		require.NoError(t, err)
		assert.Equal(t, "Edited", got.Title)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)
	post := storePost(t, s, &model.Post{Title: "Bye", AuthorID: "alice", Slug: "bye"})

	assert.ErrorIs(t, s.DeletePost(ctx, "bob", post.ID), ErrUnauthorized)
	assert.ErrorIs(t, s.DeletePost(ctx, "", post.ID), ErrUnauthenticated)
	require.NoError(t, s.DeletePost(ctx, "alice", post.ID))

	_, err := s.Repo.GetPost(ctx, post.ID)
	assert.Error(t, err)
	assert.ErrorIs(t, s.DeletePost(ctx, "alice", post.ID), ErrNotFound)
	assert.Contains(t, auditActions(t, s), model.ActionBlogDelete)
}

func TestGetPost(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)
	published := storePost(t, s, &model.Post{Title: "Open", AuthorID: "alice", Slug: "open", Status: model.PostStatusPublished, IsPublished: true})
	draft := storePost(t, s, &model.Post{Title: "Closed", AuthorID: "alice", Slug: "closed"})

	t.Run("published post counts views", func(t *testing.T) {
		got, err := s.GetPost(ctx, "", published.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Views)

		got, err = s.GetPostBySlug(ctx, "bob", "open")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Views)
	})

	t.Run("drafts distinguish sign-in from permission", func(t *testing.T) {
		_, err := s.GetPost(ctx, "", draft.ID)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		_, err = s.GetPost(ctx, "bob", draft.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)

		got, err := s.GetPost(ctx, "alice", draft.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Views)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.GetPost(ctx, "alice", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetPostBySlug(ctx, "alice", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)
	storePost(t, s, &model.Post{Title: "P1", AuthorID: "alice", Slug: "p1", Status: model.PostStatusPublished, IsPublished: true, Tags: []string{"travel", "asia"}})
	storePost(t, s, &model.Post{Title: "D1", AuthorID: "alice", Slug: "d1", Tags: []string{"travel"}})
	storePost(t, s, &model.Post{Title: "D2", AuthorID: "bob", Slug: "d2"})

	list := func(actor string, req model.ListPostsReq) *model.ListPostsResp {
		t.Helper()
		if req.Page == 0 {
			req.Page, req.Size = 1, 20
		}
		resp, err := s.ListPosts(ctx, actor, req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, 1, list("", model.ListPostsReq{}).TotalCount)
	assert.Equal(t, 2, list("alice", model.ListPostsReq{}).TotalCount)
	assert.Equal(t, 3, list("admin_1", model.ListPostsReq{}).TotalCount)
	assert.Equal(t, 1, list("admin_1", model.ListPostsReq{AuthorID: "bob"}).TotalCount)
	assert.Equal(t, 2, list("admin_1", model.ListPostsReq{Tag: "travel"}).TotalCount)
	assert.Equal(t, 1, list("", model.ListPostsReq{Tag: "travel"}).TotalCount, "tag filter keeps drafts hidden")
	assert.Zero(t, list("admin_1", model.ListPostsReq{Tag: "food"}).TotalCount)

	page := list("admin_1", model.ListPostsReq{Page: 2, Size: 2})
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Data, 1)
	// newest first
	assert.Equal(t, "P1", page.Data[0].Title)

	assert.Empty(t, list("admin_1", model.ListPostsReq{Page: 5, Size: 2}).Data)
}

func TestSeedSamplePosts(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)

	_, err := s.SeedSamplePosts(testutil.As("admin_1", true))
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.SeedSamplePosts(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ids, err := s.SeedSamplePosts(testutil.As("owner_1", true))
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	ids, err = s.SeedSamplePosts(testutil.As("owner_1", true))
	require.NoError(t, err)
	assert.Empty(t, ids)

	post, err := s.GetPostBySlug(ctx, "", "art-of-slow-travel")
	require.NoError(t, err)
	assert.Equal(t, "owner_1", post.AuthorID)
	assert.True(t, post.Published())

	_, err = s.GetPostBySlug(ctx, "", "building-in-public-startup-journey")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLikes(t *testing.T) {
	ctx := context.Background()
	s := newPostFixture(t)
	assign(t, s, "fan", model.RoleUnverifiedUser)
	post := storePost(t, s, &model.Post{Title: "Open", AuthorID: "alice", Slug: "open", Status: model.PostStatusPublished, IsPublished: true})
	draft := storePost(t, s, &model.Post{Title: "Closed", AuthorID: "alice", Slug: "closed"})

	t.Run("like is idempotent", func(t *testing.T) {
		st, err := s.LikePost(ctx, "fan", post.ID)
		require.NoError(t, err)
		assert.True(t, st.Liked)
		assert.Equal(t, 1, st.Count)

		st, err = s.LikePost(ctx, "fan", post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Count)

		stored, err := s.Repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Likes)
	})

	t.Run("toggle unlikes", func(t *testing.T) {
		st, err := s.ToggleLike(ctx, "fan", post.ID)
		require.NoError(t, err)
		assert.False(t, st.Liked)
		assert.Equal(t, 0, st.Count)

		st, err = s.ToggleLike(ctx, "fan", post.ID)
		require.NoError(t, err)
		assert.True(t, st.Liked)
	})

	t.Run("status for anonymous callers", func(t *testing.T) {
		st, err := s.LikeStatus(ctx, "", post.ID)
		require.NoError(t, err)
		assert.False(t, st.Liked)
		assert.Equal(t, 1, st.Count)

		_, err = s.LikeStatus(ctx, "", draft.ID)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("needs blog:like and a visible post", func(t *testing.T) {
		// admins manage content but do not carry blog:like
		_, err := s.LikePost(ctx, "admin_1", post.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = s.LikePost(ctx, "fan", draft.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = s.LikePost(ctx, "", post.ID)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	assert.Contains(t, auditActions(t, s), model.ActionBlogLike)
	assert.Contains(t, auditActions(t, s), model.ActionBlogUnlike)
}
