package repository

import (
	"context"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
)

func (r *DocumentRepository) GetPost(ctx context.Context, id string) (*model.Post, error) {
	snap, err := r.Store.Get(ctx, r.Collections.Posts, id)
	if err != nil {
		return nil, err
	}
	var post model.Post
	if err := snap.Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPosts returns matching posts, newest first.
func (r *DocumentRepository) FindPosts(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	var where []adapter.Where
	if filter.Status != "" {
		where = append(where, adapter.Eq("status", filter.Status))
	}
	if filter.AuthorID != "" {
		where = append(where, adapter.Eq("authorId", filter.AuthorID))
	}
	if filter.Category != "" {
		where = append(where, adapter.Eq("category", filter.Category))
	}
	if filter.Tag != "" {
		where = append(where, adapter.Contains("tags", filter.Tag))
	}
	if filter.Slug != "" {
		where = append(where, adapter.Eq("slug", filter.Slug))
	}

	snaps, err := r.Store.Find(ctx, r.Collections.Posts, adapter.Query{
		Where:   where,
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Post](snaps)
}

func (r *DocumentRepository) CreatePost(ctx context.Context, post *model.Post) (string, error) {
	now := r.Store.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	id, err := r.Store.Add(ctx, r.Collections.Posts, post)
	if err != nil {
		return "", err
	}
	post.ID = id
	return id, nil
}

func (r *DocumentRepository) UpdatePost(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = r.Store.Now()
	return r.Store.Update(ctx, r.Collections.Posts, id, fields)
}

func (r *DocumentRepository) DeletePost(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, r.Collections.Posts, id)
}

func (r *DocumentRepository) IncrementPostCounter(ctx context.Context, id, field string, delta int64) error {
	return r.Store.Increment(ctx, r.Collections.Posts, id, field, delta)
}

func (r *DocumentRepository) GetLike(ctx context.Context, postID, userID string) (*model.Like, error) {
	snap, err := r.Store.Get(ctx, r.Collections.Likes, model.LikeID(postID, userID))
	if err != nil {
		return nil, err
	}
	var like model.Like
	if err := snap.Decode(&like); err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *DocumentRepository) PutLike(ctx context.Context, like *model.Like) error {
	like.ID = model.LikeID(like.PostID, like.UserID)
	if like.CreatedAt.IsZero() {
		like.CreatedAt = r.Store.Now()
	}
	return r.Store.Set(ctx, r.Collections.Likes, like.ID, like, adapter.SetOptions{})
}

func (r *DocumentRepository) DeleteLike(ctx context.Context, postID, userID string) error {
	return r.Store.Delete(ctx, r.Collections.Likes, model.LikeID(postID, userID))
}

func (r *DocumentRepository) CountLikes(ctx context.Context, postID string) (int64, error) {
	return r.Store.Count(ctx, r.Collections.Likes, []adapter.Where{adapter.Eq("postId", postID)})
}
