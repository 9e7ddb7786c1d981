package model

import "strings"

type CreatePostReq struct {
	Title      string   `json:"title" validate:"required,min=1,max=200"`
	Subtitle   string   `json:"subtitle" validate:"omitempty,max=300"`
	Content    string   `json:"content" validate:"omitempty,max=200000"`
	Excerpt    string   `json:"excerpt" validate:"omitempty,max=500"`
	Slug       string   `json:"slug" validate:"omitempty,max=200,slug"`
	Category   string   `json:"category" validate:"omitempty,max=50"`
	Tags       []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	CoverImage string   `json:"cover_image" validate:"omitempty,url"`
	Status     string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

func (r *CreatePostReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Subtitle = strings.TrimSpace(r.Subtitle)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	r.Category = strings.TrimSpace(r.Category)
	r.CoverImage = strings.TrimSpace(r.CoverImage)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Tags = normalizeTags(r.Tags)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// UpdatePostReq patches a post. Nil fields are left untouched.
type UpdatePostReq struct {
	ID         string    `param:"id" validate:"required,max=128"`
	Title      *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Subtitle   *string   `json:"subtitle" validate:"omitempty,max=300"`
	Content    *string   `json:"content" validate:"omitempty,max=200000"`
	Excerpt    *string   `json:"excerpt" validate:"omitempty,max=500"`
	Slug       *string   `json:"slug" validate:"omitempty,max=200,slug"`
	Category   *string   `json:"category" validate:"omitempty,max=50"`
	Tags       *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	CoverImage *string   `json:"cover_image" validate:"omitempty,url"`
	Status     *string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

func (r *UpdatePostReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	trimPtr(r.Title)
	trimPtr(r.Subtitle)
	trimPtr(r.Excerpt)
	trimPtr(r.Category)
	trimPtr(r.CoverImage)
	if r.Slug != nil {
		*r.Slug = strings.ToLower(strings.TrimSpace(*r.Slug))
	}
	if r.Status != nil {
		*r.Status = strings.ToLower(strings.TrimSpace(*r.Status))
	}
	if r.Tags != nil {
		tags := normalizeTags(*r.Tags)
		r.Tags = &tags
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if r.Title != nil && *r.Title == "" {
		return &ErrorDetail{Code: "bad_request", Message: "title cannot be empty"}
	}
	return nil
}

// PostIDReq carries the :id path parameter.
type PostIDReq struct {
	ID string `param:"id" validate:"required,min=1,max=128"`
}

func (r *PostIDReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type PostSlugReq struct {
	Slug string `param:"slug" validate:"required,max=200,slug"`
}

func (r *PostSlugReq) Validate() error {
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type ListPostsReq struct {
	Status   string `query:"status" validate:"omitempty,oneof=draft published archived"`
	AuthorID string `query:"author_id" validate:"omitempty,max=128"`
	Category string `query:"category" validate:"omitempty,max=50"`
	Tag      string `query:"tag" validate:"omitempty,max=50"`

	// Pagination
	Page int `query:"page" validate:"omitempty,min=1"`
	Size int `query:"size" validate:"omitempty,min=1,max=100"`
}

func (r *ListPostsReq) Validate() error {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.AuthorID = strings.TrimSpace(r.AuthorID)
	r.Category = strings.TrimSpace(r.Category)
	r.Tag = strings.ToLower(strings.TrimSpace(r.Tag))

	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = 20
	}
	if r.Size > 100 {
		r.Size = 100
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
