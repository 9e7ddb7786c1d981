package service

import (
	"context"
	"errors"

	"journal/internal/rbac/model"
	"journal/internal/rbac/repository"
)

// likeablePost loads a post the actor may both see and like.
func (s *Service) likeablePost(ctx context.Context, actorID, postID string) (*model.Post, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserViewPost(ctx, post, actorID) || !s.HasPermission(ctx, actorID, model.PermLike) {
		return nil, ErrUnauthorized
	}
	return post, nil
}

// LikePost is idempotent: liking twice keeps a single like.
func (s *Service) LikePost(ctx context.Context, actorID, postID string) (*model.LikeStatus, error) {
	post, err := s.likeablePost(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.hasLiked(ctx, post.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !liked {
		if err := s.Repo.PutLike(ctx, &model.Like{PostID: post.ID, UserID: actorID}); err != nil {
			return nil, storeError("put like", err)
		}
		s.adjustLikeCounter(ctx, post.ID, 1)
		s.Audit.Record(ctx, repository.AuditEntry{
			ActorID:    actorID,
			Action:     model.ActionBlogLike,
			EntityType: model.EntityPost,
			EntityID:   post.ID,
		})
	}
	return s.likeStatus(ctx, post.ID, actorID)
}

func (s *Service) UnlikePost(ctx context.Context, actorID, postID string) (*model.LikeStatus, error) {
	post, err := s.likeablePost(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.hasLiked(ctx, post.ID, actorID)
	if err != nil {
		return nil, err
	}
	if liked {
		if err := s.Repo.DeleteLike(ctx, post.ID, actorID); err != nil {
			return nil, storeError("delete like", err)
		}
		s.adjustLikeCounter(ctx, post.ID, -1)
		s.Audit.Record(ctx, repository.AuditEntry{
			ActorID:    actorID,
			Action:     model.ActionBlogUnlike,
			EntityType: model.EntityPost,
			EntityID:   post.ID,
		})
	}
	return s.likeStatus(ctx, post.ID, actorID)
}

// ToggleLike likes the post if the actor has not, and unlikes it otherwise.
func (s *Service) ToggleLike(ctx context.Context, actorID, postID string) (*model.LikeStatus, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	liked, err := s.hasLiked(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if liked {
		return s.UnlikePost(ctx, actorID, postID)
	}
	return s.LikePost(ctx, actorID, postID)
}

// LikeStatus reports the like count of a visible post and, for signed-in
// callers, whether they liked it.
func (s *Service) LikeStatus(ctx context.Context, actorID, postID string) (*model.LikeStatus, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserViewPost(ctx, post, actorID) {
		return nil, denied(actorID)
	}
	return s.likeStatus(ctx, post.ID, actorID)
}

func (s *Service) likeStatus(ctx context.Context, postID, actorID string) (*model.LikeStatus, error) {
	count, err := s.Repo.CountLikes(ctx, postID)
	if err != nil {
		return nil, storeError("count likes", err)
	}
	status := &model.LikeStatus{PostID: postID, Count: int(count)}
	if actorID != "" {
		if status.Liked, err = s.hasLiked(ctx, postID, actorID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

func (s *Service) hasLiked(ctx context.Context, postID, userID string) (bool, error) {
	_, err := s.Repo.GetLike(ctx, postID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("get like", err)
	}
	return true, nil
}

// adjustLikeCounter keeps the denormalized counter on the post roughly in
// step. The likes collection stays authoritative.
func (s *Service) adjustLikeCounter(ctx context.Context, postID string, delta int64) {
	if err := s.Repo.IncrementPostCounter(ctx, postID, "likes", delta); err != nil {
		s.Logger.Warn("like counter update failed", "post_id", postID, "error", err)
	}
}
