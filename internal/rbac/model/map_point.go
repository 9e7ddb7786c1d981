package model

import (
	"strings"
	"time"
)

// Map point statuses
const (
	MapPointStatusPlanned   = "planned"
	MapPointStatusCompleted = "completed"
)

// MapPoint is a place on the travel passport map, optionally tied to the post
// that tells its story.
type MapPoint struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	Title     string     `bson:"title" json:"title"`
	Coords    [2]float64 `bson:"coords" json:"coords"` // latitude, longitude
	Status    string     `bson:"status" json:"status"`
	PostID    string     `bson:"postId,omitempty" json:"post_id,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updated_at"`
}

type CreateMapPointReq struct {
	Title  string    `json:"title" validate:"required,min=1,max=200"`
	Coords []float64 `json:"coords" validate:"required,len=2"`
	Status string    `json:"status" validate:"omitempty,oneof=planned completed"`
	PostID string    `json:"post_id" validate:"omitempty,max=128"`
}

func (r *CreateMapPointReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.PostID = strings.TrimSpace(r.PostID)
	if r.Status == "" {
		r.Status = MapPointStatusPlanned
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return checkCoords(r.Coords)
}

// UpdateMapPointReq patches a map point. Nil fields are left untouched; an
// empty post_id unlinks the post.
type UpdateMapPointReq struct {
	ID     string     `param:"id" validate:"required,max=128"`
	Title  *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Coords *[]float64 `json:"coords" validate:"omitempty,len=2"`
	Status *string    `json:"status" validate:"omitempty,oneof=planned completed"`
	PostID *string    `json:"post_id" validate:"omitempty,max=128"`
}

func (r *UpdateMapPointReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	trimPtr(r.Title)
	trimPtr(r.PostID)
	if r.Status != nil {
		*r.Status = strings.ToLower(strings.TrimSpace(*r.Status))
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.Title != nil && *r.Title == "" {
		return &ErrorDetail{Code: "bad_request", Message: "title cannot be empty"}
	}
	if r.Coords != nil {
		return checkCoords(*r.Coords)
	}
	return nil
}

// MapPointIDReq carries the :id path parameter.
type MapPointIDReq struct {
	ID string `param:"id" validate:"required,min=1,max=128"`
}

func (r *MapPointIDReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

func checkCoords(coords []float64) error {
	if len(coords) != 2 {
		return &ErrorDetail{Code: "bad_request", Message: "coords must be [latitude, longitude]"}
	}
	if coords[0] < -90 || coords[0] > 90 {
		return &ErrorDetail{Code: "bad_request", Message: "latitude must be between -90 and 90"}
	}
	if coords[1] < -180 || coords[1] > 180 {
		return &ErrorDetail{Code: "bad_request", Message: "longitude must be between -180 and 180"}
	}
	return nil
}
