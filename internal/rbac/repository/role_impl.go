package repository

import (
	"context"
	"errors"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
)

func (r *DocumentRepository) UpsertRole(ctx context.Context, role *model.Role) error {
	now := r.Store.Now()
	fields := map[string]any{
		"name":        role.Name,
		"level":       role.Level,
		"description": role.Description,
		"permissions": role.Permissions,
		"updatedAt":   now,
	}

	// createdAt is only stamped the first time the role is seeded
	if _, err := r.Store.Get(ctx, r.Collections.Roles, role.ID); err != nil {
		if !errors.Is(err, adapter.ErrNotFound) {
			return err
		}
		fields["createdAt"] = now
	}

	return r.Store.Set(ctx, r.Collections.Roles, role.ID, fields, adapter.SetOptions{Merge: true})
}

func (r *DocumentRepository) GetRole(ctx context.Context, id string) (*model.Role, error) {
	snap, err := r.Store.Get(ctx, r.Collections.Roles, id)
	if err != nil {
		return nil, err
	}
	var role model.Role
	if err := snap.Decode(&role); err != nil {
		return nil, err
	}
	return &role, nil
}
