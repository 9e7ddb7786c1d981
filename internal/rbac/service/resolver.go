package service

import (
	"context"
	"errors"

	"journal/internal/rbac/model"
	"journal/internal/rbac/policy"
	"journal/internal/rbac/repository"

	"golang.org/x/sync/errgroup"
)

// GetUserRoles returns the user's assignments joined with their catalog
// roles. Assignments pointing at a role that no longer exists are dropped.
// An empty userID yields no roles. Read errors are returned.
func (s *Service) GetUserRoles(ctx context.Context, userID string) ([]*model.UserRole, error) {
	if userID == "" {
		return []*model.UserRole{}, nil
	}

	if s.cache == nil {
		return s.loadUserRoles(ctx, userID)
	}

	roles, ok := s.cache.get(userID)
	s.Metrics.RecordCacheLookup(ok)
	if ok {
		return append([]*model.UserRole(nil), roles...), nil
	}

	tok := s.cache.begin(userID)
	roles, err := s.loadUserRoles(ctx, userID)
	s.cache.finish(tok, roles)
	if err != nil {
		return nil, err
	}
	return append([]*model.UserRole(nil), roles...), nil
}

func (s *Service) loadUserRoles(ctx context.Context, userID string) ([]*model.UserRole, error) {
	assignments, err := s.Repo.FindAssignments(ctx, userID)
	if err != nil {
		return nil, storeError("find assignments", err)
	}
	return s.joinRoles(ctx, assignments, false)
}

// joinRoles fetches every distinct catalog role referenced by assignments
// concurrently and attaches it. Dangling assignments are skipped unless
// keepDangling is set, in which case they carry a nil Role.
func (s *Service) joinRoles(ctx context.Context, assignments []*model.UserRoleAssignment, keepDangling bool) ([]*model.UserRole, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, a := range assignments {
		if !seen[a.RoleID] {
			seen[a.RoleID] = true
			ids = append(ids, a.RoleID)
		}
	}

	catalog := make([]*model.Role, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			role, err := s.Repo.GetRole(gctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			catalog[i] = role
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError("get role", err)
	}

	byID := make(map[string]*model.Role, len(ids))
	for i, id := range ids {
		if catalog[i] != nil {
			byID[id] = catalog[i]
		}
	}

	out := make([]*model.UserRole, 0, len(assignments))
	for _, a := range assignments {
		role := byID[a.RoleID]
		if role == nil && !keepDangling {
			continue
		}
		out = append(out, &model.UserRole{
			AssignmentID: a.ID,
			UserID:       a.UserID,
			RoleID:       a.RoleID,
			Role:         role,
		})
	}
	return out, nil
}

// GetUserLevel returns the most privileged level held by the user.
// Anonymous callers and read failures get LevelGuest; a signed-in user
// without a valid assignment gets LevelUnverifiedUser. No assignment is
// created here; that is AssignDefaultRole's job.
func (s *Service) GetUserLevel(ctx context.Context, userID string) int {
	if userID == "" {
		return model.LevelGuest
	}
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		s.Logger.Warn("resolving user level failed, treating as guest", "user_id", userID, "error", err)
		return model.LevelGuest
	}
	level, ok := policy.MinLevel(roles)
	if !ok {
		return model.LevelUnverifiedUser
	}
	return level
}

// HasPermission never fails: lookup errors deny.
func (s *Service) HasPermission(ctx context.Context, userID string, permission model.Permission) bool {
	allowed := s.hasPermission(ctx, userID, permission)
	s.Metrics.RecordPermissionCheck(permission, allowed)
	return allowed
}

func (s *Service) hasPermission(ctx context.Context, userID string, permission model.Permission) bool {
	if userID == "" {
		return policy.GuestHasPermission(permission)
	}
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		s.Logger.Warn("permission lookup failed, denying", "user_id", userID, "permission", permission, "error", err)
		return false
	}
	return policy.CheckRolesHavePermission(roles, permission)
}

func (s *Service) CanAccessAdmin(ctx context.Context, userID string) bool {
	return s.GetUserLevel(ctx, userID) <= model.LevelAdmin
}

func (s *Service) CanManageAllContent(ctx context.Context, userID string) bool {
	return s.GetUserLevel(ctx, userID) <= model.LevelAdmin
}

func (s *Service) IsOwner(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		s.Logger.Warn("owner lookup failed, denying", "user_id", userID, "error", err)
		return false
	}
	return policy.IsOwner(roles)
}

// Summary resolves everything the UI needs to render permission-dependent
// controls in one call. Unlike the individual checks it reports read errors.
func (s *Service) Summary(ctx context.Context, userID string) (*model.PermissionSummary, error) {
	if userID == "" {
		return &model.PermissionSummary{
			Roles:       []*model.UserRole{},
			Level:       model.LevelGuest,
			RoleName:    model.RoleGuest,
			Permissions: append([]model.Permission(nil), policy.GuestPermissions...),
		}, nil
	}

	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	level, ok := policy.MinLevel(roles)
	if !ok {
		level = model.LevelUnverifiedUser
	}

	return &model.PermissionSummary{
		UserID:              userID,
		Roles:               roles,
		Level:               level,
		RoleName:            model.LevelRoleNames[level],
		Permissions:         policy.UnionPermissions(roles),
		CanAccessAdmin:      level <= model.LevelAdmin,
		CanManageAllContent: level <= model.LevelAdmin,
		IsOwner:             policy.IsOwner(roles),
	}, nil
}

// CheckPermission answers a permission query for the caller, or for another
// user when the caller has admin access.
func (s *Service) CheckPermission(ctx context.Context, req model.CheckPermissionReq) (*model.CheckPermissionResponse, error) {
	caller := s.Identity.CurrentUserID(ctx)
	target := req.UserID
	if target == "" {
		target = caller
	}
	if target != caller {
		if caller == "" {
			return nil, ErrUnauthenticated
		}
		if !s.CanAccessAdmin(ctx, caller) {
			return nil, ErrUnauthorized
		}
	}

	permission := model.Permission(req.Permission)
	return &model.CheckPermissionResponse{
		Allowed:       s.HasPermission(ctx, target, permission),
		RequiredRoles: policy.GetRolesWithPermission(permission),
	}, nil
}
