package repository

import (
	"context"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
)

func (r *DocumentRepository) GetMapPoint(ctx context.Context, id string) (*model.MapPoint, error) {
	snap, err := r.Store.Get(ctx, r.Collections.MapPoints, id)
	if err != nil {
		return nil, err
	}
	var point model.MapPoint
	if err := snap.Decode(&point); err != nil {
		return nil, err
	}
	return &point, nil
}

// ListMapPoints returns every point, oldest first.
func (r *DocumentRepository) ListMapPoints(ctx context.Context) ([]*model.MapPoint, error) {
	snaps, err := r.Store.Find(ctx, r.Collections.MapPoints, adapter.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.MapPoint](snaps)
}

func (r *DocumentRepository) CreateMapPoint(ctx context.Context, point *model.MapPoint) (string, error) {
	now := r.Store.Now()
	point.CreatedAt = now
	point.UpdatedAt = now

	id, err := r.Store.Add(ctx, r.Collections.MapPoints, point)
	if err != nil {
		return "", err
	}
	point.ID = id
	return id, nil
}

func (r *DocumentRepository) UpdateMapPoint(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = r.Store.Now()
	return r.Store.Update(ctx, r.Collections.MapPoints, id, fields)
}

func (r *DocumentRepository) DeleteMapPoint(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, r.Collections.MapPoints, id)
}
