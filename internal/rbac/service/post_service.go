package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"journal/internal/rbac/model"
	"journal/internal/rbac/repository"
)

const maxSlugAttempts = 100

// CanUserViewPost: published posts are public, drafts are visible to their
// author and to holders of view:all-posts.
func (s *Service) CanUserViewPost(ctx context.Context, post *model.Post, userID string) bool {
	if post == nil {
		return false
	}
	if post.Published() {
		return true
	}
	if userID == "" {
		return false
	}
	if post.AuthorID == userID {
		return true
	}
	return s.HasPermission(ctx, userID, model.PermViewAllPosts)
}

func (s *Service) CanUserEditPost(ctx context.Context, post *model.Post, userID string) bool {
	return s.canActOnPost(ctx, post, userID, model.PermWriteAll, model.PermWriteOwn)
}

func (s *Service) CanUserPublishPost(ctx context.Context, post *model.Post, userID string) bool {
	return s.canActOnPost(ctx, post, userID, model.PermPublishAll, model.PermPublishOwn)
}

func (s *Service) CanUserDeletePost(ctx context.Context, post *model.Post, userID string) bool {
	return s.canActOnPost(ctx, post, userID, model.PermDeleteAll, model.PermDeleteOwn)
}

func (s *Service) canActOnPost(ctx context.Context, post *model.Post, userID string, all, own model.Permission) bool {
	if post == nil || userID == "" {
		return false
	}
	if s.HasPermission(ctx, userID, all) {
		return true
	}
	return post.AuthorID == userID && s.HasPermission(ctx, userID, own)
}

func (s *Service) loadPost(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.Repo.GetPost(ctx, postID)
	if err != nil {
		return nil, storeError("get post "+postID, err)
	}
	return post, nil
}

// denied picks the error for a failed check: sign in first, or not allowed.
func denied(userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	return ErrUnauthorized
}

func checkPublishable(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return validationError("title is required to publish")
	}
	if strings.TrimSpace(content) == "" {
		return validationError("content is required to publish")
	}
	return nil
}

// PublishPost makes a post public. The status, legacy flag and publishedAt
// are written in one update. Publishing a published post changes nothing.
func (s *Service) PublishPost(ctx context.Context, postID, actorID string) (*model.Post, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserPublishPost(ctx, post, actorID) {
		return nil, ErrUnauthorized
	}
	if post.Published() {
		return post, nil
	}
	if err := checkPublishable(post.Title, post.Content); err != nil {
		return nil, err
	}

	now := s.Repo.Now()
	if err := s.Repo.UpdatePost(ctx, post.ID, map[string]any{
		"status":      model.PostStatusPublished,
		"isPublished": true,
		"publishedAt": now,
	}); err != nil {
		return nil, storeError("publish post", err)
	}
	post.Status = model.PostStatusPublished
	post.IsPublished = true
	post.PublishedAt = &now

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionBlogPublish,
		EntityType: model.EntityPost,
		EntityID:   post.ID,
		Meta:       map[string]any{"slug": post.Slug},
	})
	return post, nil
}

// UnpublishPost returns a post to draft.
func (s *Service) UnpublishPost(ctx context.Context, postID, actorID string) (*model.Post, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserPublishPost(ctx, post, actorID) {
		return nil, ErrUnauthorized
	}

	if err := s.Repo.UpdatePost(ctx, post.ID, map[string]any{
		"status":      model.PostStatusDraft,
		"isPublished": false,
	}); err != nil {
		return nil, storeError("unpublish post", err)
	}
	post.Status = model.PostStatusDraft
	post.IsPublished = false

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionBlogUnpublish,
		EntityType: model.EntityPost,
		EntityID:   post.ID,
		Meta:       map[string]any{"slug": post.Slug},
	})
	return post, nil
}

// ValidateUniqueSlug fails with ErrConflict if a post other than excludeID
// already uses slug.
func (s *Service) ValidateUniqueSlug(ctx context.Context, slug, excludeID string) error {
	posts, err := s.Repo.FindPosts(ctx, model.PostFilter{Slug: slug})
	if err != nil {
		return storeError("find posts by slug", err)
	}
	for _, p := range posts {
		if p.ID != excludeID {
			return conflictError(fmt.Sprintf("slug %q is already in use", slug))
		}
	}
	return nil
}

// availableSlug returns base, or base-2, base-3... whichever is free first.
func (s *Service) availableSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "post"
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}
		err := s.ValidateUniqueSlug(ctx, candidate, "")
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrConflict) {
			return "", err
		}
	}
	return "", conflictError(fmt.Sprintf("no free slug for %q", base))
}

// CreatePost stores a new post authored by actorID. An explicit slug must be
// free; a slug derived from the title is suffixed until it is.
func (s *Service) CreatePost(ctx context.Context, actorID string, req model.CreatePostReq) (*model.Post, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	if !s.HasPermission(ctx, actorID, model.PermWriteOwn) && !s.HasPermission(ctx, actorID, model.PermWriteAll) {
		return nil, ErrUnauthorized
	}

	post := &model.Post{
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		AuthorID:   actorID,
		Status:     req.Status,
		Category:   req.Category,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		ReadTime:   ReadTime(req.Content),
	}
	if post.Status == "" {
		post.Status = model.PostStatusDraft
	}
	if post.Excerpt == "" {
		post.Excerpt = Excerpt(post.Content, DefaultExcerptLen)
	}

	if post.Status == model.PostStatusPublished {
		if !s.CanUserPublishPost(ctx, post, actorID) {
			return nil, ErrUnauthorized
		}
		if err := checkPublishable(post.Title, post.Content); err != nil {
			return nil, err
		}
		now := s.Repo.Now()
		post.IsPublished = true
		post.PublishedAt = &now
	}

	if req.Slug != "" {
		if err := s.ValidateUniqueSlug(ctx, req.Slug, ""); err != nil {
			return nil, err
		}
		post.Slug = req.Slug
	} else {
		slug, err := s.availableSlug(ctx, GenerateSlug(req.Title))
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	if _, err := s.Repo.CreatePost(ctx, post); err != nil {
		return nil, storeError("create post", err)
	}

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionBlogCreate,
		EntityType: model.EntityPost,
		EntityID:   post.ID,
		Meta:       map[string]any{"slug": post.Slug, "status": post.Status},
	})
	return post, nil
}

// UpdatePost applies the non-nil fields of req. Changing the slug re-checks
// uniqueness; moving into or out of published needs publish rights.
func (s *Service) UpdatePost(ctx context.Context, actorID string, req model.UpdatePostReq) (*model.Post, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	post, err := s.loadPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserEditPost(ctx, post, actorID) {
		return nil, ErrUnauthorized
	}

	fields := make(map[string]any)
	if req.Title != nil && *req.Title != post.Title {
		post.Title = *req.Title
		fields["title"] = post.Title
	}
	if req.Subtitle != nil {
		post.Subtitle = *req.Subtitle
		fields["subtitle"] = post.Subtitle
	}
	if req.Category != nil {
		post.Category = *req.Category
		fields["category"] = post.Category
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
		fields["tags"] = post.Tags
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
		fields["coverImage"] = post.CoverImage
	}
	if req.Content != nil && *req.Content != post.Content {
		// only regenerate an excerpt that was generated in the first place
		if req.Excerpt == nil && post.Excerpt == Excerpt(post.Content, DefaultExcerptLen) {
			post.Excerpt = Excerpt(*req.Content, DefaultExcerptLen)
			fields["excerpt"] = post.Excerpt
		}
		post.Content = *req.Content
		post.ReadTime = ReadTime(post.Content)
		fields["content"] = post.Content
		fields["readTime"] = post.ReadTime
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
		fields["excerpt"] = post.Excerpt
	}

	if req.Slug != nil && *req.Slug != post.Slug {
		if err := s.ValidateUniqueSlug(ctx, *req.Slug, post.ID); err != nil {
			return nil, err
		}
		post.Slug = *req.Slug
		fields["slug"] = post.Slug
	}

	if req.Status != nil && *req.Status != post.Status {
		wasPublished := post.Published()
		nowPublished := *req.Status == model.PostStatusPublished
		if wasPublished != nowPublished && !s.CanUserPublishPost(ctx, post, actorID) {
			return nil, ErrUnauthorized
		}
		if nowPublished {
			if err := checkPublishable(post.Title, post.Content); err != nil {
				return nil, err
			}
			if !wasPublished {
				now := s.Repo.Now()
				post.PublishedAt = &now
				fields["publishedAt"] = now
			}
		}
		post.Status = *req.Status
		post.IsPublished = nowPublished
		fields["status"] = post.Status
		fields["isPublished"] = post.IsPublished
	}

	if len(fields) == 0 {
		return post, nil
	}
	if err := s.Repo.UpdatePost(ctx, post.ID, fields); err != nil {
		return nil, storeError("update post", err)
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		if k != "updatedAt" {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionBlogUpdate,
		EntityType: model.EntityPost,
		EntityID:   post.ID,
		Meta:       map[string]any{"fields": changed},
	})

	updated, err := s.Repo.GetPost(ctx, post.ID)
	if err != nil {
		// the write went through; serve what we have
		s.Logger.Warn("reloading updated post failed", "post_id", post.ID, "error", err)
		return post, nil
	}
	return updated, nil
}

func (s *Service) DeletePost(ctx context.Context, actorID, postID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !s.CanUserDeletePost(ctx, post, actorID) {
		return ErrUnauthorized
	}
	if err := s.Repo.DeletePost(ctx, post.ID); err != nil {
		return storeError("delete post", err)
	}

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionBlogDelete,
		EntityType: model.EntityPost,
		EntityID:   post.ID,
		Meta:       map[string]any{"slug": post.Slug, "title": post.Title},
	})
	return nil
}

// GetPost returns a post the caller may see and counts the view.
func (s *Service) GetPost(ctx context.Context, actorID, postID string) (*model.Post, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserViewPost(ctx, post, actorID) {
		return nil, denied(actorID)
	}
	s.recordView(ctx, post)
	return post, nil
}

func (s *Service) GetPostBySlug(ctx context.Context, actorID, slug string) (*model.Post, error) {
	posts, err := s.Repo.FindPosts(ctx, model.PostFilter{Slug: slug})
	if err != nil {
		return nil, storeError("find posts by slug", err)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("post with slug %q: %w", slug, ErrNotFound)
	}
	for _, post := range posts {
		if s.CanUserViewPost(ctx, post, actorID) {
			s.recordView(ctx, post)
			return post, nil
		}
	}
	return nil, denied(actorID)
}

// recordView bumps the view counter of published posts. Failures are logged only.
func (s *Service) recordView(ctx context.Context, post *model.Post) {
	if !post.Published() {
		return
	}
	if err := s.Repo.IncrementPostCounter(ctx, post.ID, "views", 1); err != nil {
		s.Logger.Warn("view count increment failed", "post_id", post.ID, "error", err)
		return
	}
	post.Views++
}

// ListPosts returns the posts matching req that the caller may see, newest first.
func (s *Service) ListPosts(ctx context.Context, actorID string, req model.ListPostsReq) (*model.ListPostsResp, error) {
	posts, err := s.Repo.FindPosts(ctx, model.PostFilter{
		Status:   req.Status,
		AuthorID: req.AuthorID,
		Category: req.Category,
		Tag:      req.Tag,
	})
	if err != nil {
		return nil, storeError("find posts", err)
	}

	// resolve once instead of per draft
	viewAll := actorID != "" && s.HasPermission(ctx, actorID, model.PermViewAllPosts)
	visible := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Published() || viewAll || (actorID != "" && p.AuthorID == actorID) {
			visible = append(visible, p)
		}
	}

	start := (req.Page - 1) * req.Size
	if start > len(visible) {
		start = len(visible)
	}
	end := min(start+req.Size, len(visible))

	return &model.ListPostsResp{
		Data:       visible[start:end],
		Page:       req.Page,
		Size:       req.Size,
		TotalCount: len(visible),
	}, nil
}
