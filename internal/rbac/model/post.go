package model

import "time"

type Post struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Subtitle    string     `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Content     string     `bson:"content" json:"content"`
	Excerpt     string     `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Slug        string     `bson:"slug" json:"slug"`
	AuthorID    string     `bson:"authorId" json:"author_id"`
	Status      string     `bson:"status" json:"status"`
	IsPublished bool       `bson:"isPublished" json:"is_published"` // legacy, kept in sync with Status
	Category    string     `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	CoverImage  string     `bson:"coverImage,omitempty" json:"cover_image,omitempty"`
	ReadTime    int        `bson:"readTime" json:"read_time"`
	Views       int64      `bson:"views" json:"views"`
	Likes       int64      `bson:"likes" json:"likes"`
	CreatedAt   time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updated_at"`
	PublishedAt *time.Time `bson:"publishedAt,omitempty" json:"published_at,omitempty"`
}

// Published reports whether anonymous callers may read the post.
func (p *Post) Published() bool {
	return p.Status == PostStatusPublished || p.IsPublished
}

type Like struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	PostID    string    `bson:"postId" json:"post_id"`
	UserID    string    `bson:"userId" json:"user_id"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// LikeID is the deterministic document id that makes likes idempotent.
func LikeID(postID, userID string) string {
	return postID + "_" + userID
}

type LikeStatus struct {
	PostID string `json:"post_id"`
	Liked  bool   `json:"liked"`
	Count  int    `json:"count"`
}

type ListPostsResp struct {
	Data       []*Post `json:"data"`
	Page       int     `json:"page"`
	Size       int     `json:"size"`
	TotalCount int     `json:"total_count"`
}

type PostFilter struct {
	Status   string
	AuthorID string
	Category string
	Tag      string // matches posts whose tags include it
	Slug     string
}
