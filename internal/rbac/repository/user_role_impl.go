package repository

import (
	"context"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
)

func (r *DocumentRepository) CreateAssignment(ctx context.Context, a *model.UserRoleAssignment) (string, error) {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = r.Store.Now()
	}
	id, err := r.Store.Add(ctx, r.Collections.UserRoles, a)
	if err != nil {
		return "", err
	}
	a.ID = id
	return id, nil
}

func (r *DocumentRepository) FindAssignments(ctx context.Context, userID string) ([]*model.UserRoleAssignment, error) {
	snaps, err := r.Store.Find(ctx, r.Collections.UserRoles, adapter.Query{
		Where:   []adapter.Where{adapter.Eq("userId", userID)},
		OrderBy: "assignedAt",
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.UserRoleAssignment](snaps)
}

func (r *DocumentRepository) FindAssignmentsByRole(ctx context.Context, roleID string) ([]*model.UserRoleAssignment, error) {
	snaps, err := r.Store.Find(ctx, r.Collections.UserRoles, adapter.Query{
		Where:   []adapter.Where{adapter.Eq("roleId", roleID)},
		OrderBy: "assignedAt",
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.UserRoleAssignment](snaps)
}

func (r *DocumentRepository) ListAssignments(ctx context.Context) ([]*model.UserRoleAssignment, error) {
	snaps, err := r.Store.Find(ctx, r.Collections.UserRoles, adapter.Query{OrderBy: "assignedAt"})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.UserRoleAssignment](snaps)
}

func (r *DocumentRepository) DeleteAssignment(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, r.Collections.UserRoles, id)
}
