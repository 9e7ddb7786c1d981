package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"journal/internal/rbac/model"
	"journal/internal/rbac/repository"
)

// ListMapPoints is public: the passport map shows every point.
func (s *Service) ListMapPoints(ctx context.Context) ([]*model.MapPoint, error) {
	points, err := s.Repo.ListMapPoints(ctx)
	if err != nil {
		return nil, storeError("list map points", err)
	}
	return points, nil
}

func (s *Service) GetMapPoint(ctx context.Context, pointID string) (*model.MapPoint, error) {
	point, err := s.Repo.GetMapPoint(ctx, pointID)
	if err != nil {
		return nil, storeError("get map point "+pointID, err)
	}
	return point, nil
}

// requireMapEditor allows admins and owners to change the map.
func (s *Service) requireMapEditor(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if !s.CanAccessAdmin(ctx, actorID) {
		return ErrUnauthorized
	}
	return nil
}

// checkLinkedPost rejects a link to a post that does not exist.
func (s *Service) checkLinkedPost(ctx context.Context, postID string) error {
	if postID == "" {
		return nil
	}
	_, err := s.Repo.GetPost(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return validationError(fmt.Sprintf("post %q does not exist", postID))
	}
	if err != nil {
		return storeError("get linked post", err)
	}
	return nil
}

func (s *Service) CreateMapPoint(ctx context.Context, actorID string, req model.CreateMapPointReq) (*model.MapPoint, error) {
	if err := s.requireMapEditor(ctx, actorID); err != nil {
		return nil, err
	}
	if err := s.checkLinkedPost(ctx, req.PostID); err != nil {
		return nil, err
	}

	point := &model.MapPoint{
		Title:  req.Title,
		Coords: [2]float64{req.Coords[0], req.Coords[1]},
		Status: req.Status,
		PostID: req.PostID,
	}
	if point.Status == "" {
		point.Status = model.MapPointStatusPlanned
	}
	if _, err := s.Repo.CreateMapPoint(ctx, point); err != nil {
		return nil, storeError("create map point", err)
	}

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionMapCreate,
		EntityType: model.EntityMapPoint,
		EntityID:   point.ID,
		Meta:       map[string]any{"title": point.Title, "status": point.Status},
	})
	return point, nil
}

// UpdateMapPoint applies the non-nil fields of req.
func (s *Service) UpdateMapPoint(ctx context.Context, actorID string, req model.UpdateMapPointReq) (*model.MapPoint, error) {
	if err := s.requireMapEditor(ctx, actorID); err != nil {
		return nil, err
	}
	point, err := s.GetMapPoint(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if req.Title != nil && *req.Title != point.Title {
		point.Title = *req.Title
		fields["title"] = point.Title
	}
	if req.Coords != nil {
		coords := [2]float64{(*req.Coords)[0], (*req.Coords)[1]}
		if coords != point.Coords {
			point.Coords = coords
			fields["coords"] = point.Coords
		}
	}
	if req.Status != nil && *req.Status != point.Status {
		point.Status = *req.Status
		fields["status"] = point.Status
	}
	if req.PostID != nil && *req.PostID != point.PostID {
		if err := s.checkLinkedPost(ctx, *req.PostID); err != nil {
			return nil, err
		}
		point.PostID = *req.PostID
		fields["postId"] = point.PostID
	}

	if len(fields) == 0 {
		return point, nil
	}
	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	sort.Strings(changed)

	if err := s.Repo.UpdateMapPoint(ctx, point.ID, fields); err != nil {
		return nil, storeError("update map point", err)
	}

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionMapUpdate,
		EntityType: model.EntityMapPoint,
		EntityID:   point.ID,
		Meta:       map[string]any{"fields": changed},
	})

	updated, err := s.Repo.GetMapPoint(ctx, point.ID)
	if err != nil {
		s.Logger.Warn("reloading updated map point failed", "point_id", point.ID, "error", err)
		return point, nil
	}
	return updated, nil
}

func (s *Service) DeleteMapPoint(ctx context.Context, actorID, pointID string) error {
	if err := s.requireMapEditor(ctx, actorID); err != nil {
		return err
	}
	point, err := s.GetMapPoint(ctx, pointID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteMapPoint(ctx, point.ID); err != nil {
		return storeError("delete map point", err)
	}

	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actorID,
		Action:     model.ActionMapDelete,
		EntityType: model.EntityMapPoint,
		EntityID:   point.ID,
		Meta:       map[string]any{"title": point.Title},
	})
	return nil
}
