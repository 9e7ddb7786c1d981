package service

import (
	"context"
	"fmt"
	"sort"

	"journal/internal/rbac/model"
	"journal/internal/rbac/policy"
	"journal/internal/rbac/repository"
)

// SeedRoles merge-upserts the catalog. Running it again refreshes names,
// levels and permissions but keeps createdAt and any extra fields.
func (s *Service) SeedRoles(ctx context.Context) ([]string, error) {
	actor := s.Identity.CurrentUserID(ctx)
	if actor == "" {
		return nil, ErrUnauthenticated
	}

	var ids []string
	for _, role := range policy.DefaultRoles() {
		if err := s.Repo.UpsertRole(ctx, role); err != nil {
			return ids, storeError("upsert role "+role.ID, err)
		}
		ids = append(ids, role.ID)
	}
	// joined roles in the cache may now be stale
	s.invalidateAll()

	s.Logger.Info("role catalog seeded", "actor_id", actor, "roles", ids)
	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actor,
		Action:     model.ActionRolesSeed,
		EntityType: model.EntityRole,
		EntityID:   "catalog",
		Meta:       map[string]any{"roles": ids},
	})
	return ids, nil
}

func checkAssignable(userID, roleID string) error {
	if userID == "" {
		return validationError("user id is required")
	}
	if !model.AssignableRoles[roleID] {
		return validationError(fmt.Sprintf("role %q cannot be assigned", roleID))
	}
	return nil
}

// AssignRole appends an assignment without touching existing ones.
func (s *Service) AssignRole(ctx context.Context, userID, roleID, assignedBy string) (string, error) {
	if err := checkAssignable(userID, roleID); err != nil {
		return "", err
	}
	return s.createAssignment(ctx, userID, roleID, assignedBy)
}

func (s *Service) createAssignment(ctx context.Context, userID, roleID, assignedBy string) (string, error) {
	id, err := s.Repo.CreateAssignment(ctx, &model.UserRoleAssignment{
		UserID:     userID,
		RoleID:     roleID,
		AssignedBy: assignedBy,
	})
	s.InvalidateUser(userID)
	if err != nil {
		return "", storeError("create assignment", err)
	}

	s.Metrics.RecordRoleAssignment(roleID)
	s.Logger.Info("role assigned", "user_id", userID, "role_id", roleID, "assigned_by", assignedBy)
	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    assignedBy,
		Action:     model.ActionRoleAssign,
		EntityType: model.EntityUser,
		EntityID:   userID,
		Meta:       map[string]any{"roleId": roleID, "assignmentId": id},
	})
	return id, nil
}

// AssignRoleExclusive replaces all of the user's assignments with roleID.
// Calls for the same user are serialized in this process; concurrent writers
// in other processes can still leave duplicates for CleanupDuplicateRoles.
func (s *Service) AssignRoleExclusive(ctx context.Context, userID, roleID, assignedBy string) (string, error) {
	if err := checkAssignable(userID, roleID); err != nil {
		return "", err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.RemoveAllUserRoles(ctx, userID); err != nil {
		return "", err
	}
	return s.createAssignment(ctx, userID, roleID, assignedBy)
}

// RemoveAllUserRoles deletes every assignment of the user and reports how
// many were removed.
func (s *Service) RemoveAllUserRoles(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, validationError("user id is required")
	}
	assignments, err := s.Repo.FindAssignments(ctx, userID)
	if err != nil {
		return 0, storeError("find assignments", err)
	}
	defer s.InvalidateUser(userID)

	removed := 0
	for _, a := range assignments {
		if err := s.Repo.DeleteAssignment(ctx, a.ID); err != nil {
			return removed, storeError("delete assignment", err)
		}
		removed++
	}
	return removed, nil
}

// CleanupDuplicateRoles leaves every user with a single assignment: the most
// privileged role they hold, and of that role the most recent record.
func (s *Service) CleanupDuplicateRoles(ctx context.Context) (int, error) {
	all, err := s.Repo.ListAssignments(ctx)
	if err != nil {
		return 0, storeError("list assignments", err)
	}

	byUser := make(map[string][]*model.UserRoleAssignment)
	for _, a := range all {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	users := make([]string, 0, len(byUser))
	for userID, list := range byUser {
		if len(list) > 1 {
			users = append(users, userID)
		}
	}
	sort.Strings(users)

	deleted := 0
	for _, userID := range users {
		list := byUser[userID]
		keep := survivor(list)
		for _, a := range list {
			if a.ID == keep.ID {
				continue
			}
			if err := s.Repo.DeleteAssignment(ctx, a.ID); err != nil {
				s.InvalidateUser(userID)
				return deleted, storeError("delete assignment", err)
			}
			deleted++
		}
		s.InvalidateUser(userID)
		s.Logger.Info("duplicate roles removed", "user_id", userID, "kept_role", keep.RoleID, "removed", len(list)-1)
	}

	actor := s.Identity.CurrentUserID(ctx)
	if actor == "" {
		actor = model.AssignedBySystem
	}
	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    actor,
		Action:     model.ActionRoleCleanup,
		EntityType: model.EntityRole,
		EntityID:   "userRoles",
		Meta:       map[string]any{"deleted": deleted, "users": len(users)},
	})
	return deleted, nil
}

// survivor picks the assignment cleanup keeps. list must not be empty.
func survivor(list []*model.UserRoleAssignment) *model.UserRoleAssignment {
	best := list[0]
	for _, a := range list[1:] {
		pa, pb := policy.Priority(a.RoleID), policy.Priority(best.RoleID)
		if pa < pb || (pa == pb && newer(a, best)) {
			best = a
		}
	}
	return best
}

// newer orders by assignedAt, then by id since ids are time ordered.
func newer(a, b *model.UserRoleAssignment) bool {
	if !a.AssignedAt.Equal(b.AssignedAt) {
		return a.AssignedAt.After(b.AssignedAt)
	}
	return a.ID > b.ID
}

// defaultRoleFor returns the role a user starts with based on the identity
// provider's verification flag. Only the current identity's flag is known, so
// anyone else defaults to unverified.
func (s *Service) defaultRoleFor(ctx context.Context, userID string) string {
	if s.Identity.CurrentUserID(ctx) == userID && s.Identity.CurrentUserEmailVerified(ctx) {
		return model.RoleVerifiedUser
	}
	return model.RoleUnverifiedUser
}

// AssignDefaultRole gives a user with no assignments their starting role.
// It returns the new assignment id, or "" when the user already had a role.
func (s *Service) AssignDefaultRole(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrUnauthenticated
	}
	assignments, err := s.Repo.FindAssignments(ctx, userID)
	if err != nil {
		return "", storeError("find assignments", err)
	}
	if len(assignments) > 0 {
		return "", nil
	}
	return s.createAssignment(ctx, userID, s.defaultRoleFor(ctx, userID), model.AssignedBySystem)
}

// UpdateRoleByVerificationStatus keeps the current user's role in line with
// their email verification: unverified users who verified are promoted and
// verified users who lost verification are demoted. Roles above verified are
// left alone.
func (s *Service) UpdateRoleByVerificationStatus(ctx context.Context, userID string) error {
	current := s.Identity.CurrentUserID(ctx)
	if current == "" {
		return ErrUnauthenticated
	}
	if current != userID {
		return ErrUnauthorized
	}

	roles, err := s.loadUserRoles(ctx, userID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		_, err := s.AssignDefaultRole(ctx, userID)
		return err
	}

	verified := s.Identity.CurrentUserEmailVerified(ctx)
	switch role := primaryRole(roles); {
	case role == model.RoleUnverifiedUser && verified:
		_, err = s.AssignRoleExclusive(ctx, userID, model.RoleVerifiedUser, model.AssignedBySystemVerification)
	case role == model.RoleVerifiedUser && !verified:
		_, err = s.AssignRoleExclusive(ctx, userID, model.RoleUnverifiedUser, model.AssignedBySystemVerification)
	}
	return err
}

// primaryRole is the most privileged role id among roles.
func primaryRole(roles []*model.UserRole) string {
	best := ""
	for _, ur := range roles {
		if best == "" || policy.Priority(ur.RoleID) < policy.Priority(best) {
			best = ur.RoleID
		}
	}
	return best
}

// MakeCurrentUserOwner runs the one-time owner bootstrap for an allow-listed
// caller: seed the catalog, assign owner exclusively, confirm level 0.
func (s *Service) MakeCurrentUserOwner(ctx context.Context) (string, error) {
	userID := s.Identity.CurrentUserID(ctx)
	if userID == "" {
		return "", ErrUnauthenticated
	}
	if !s.isOwnerEmail(s.Identity.CurrentUserEmail(ctx)) {
		return "", ErrUnauthorized
	}

	if s.maxOwners > 0 {
		owners, err := s.Repo.FindAssignmentsByRole(ctx, model.RoleOwner)
		if err != nil {
			return "", storeError("find owners", err)
		}
		others := make(map[string]bool)
		for _, a := range owners {
			if a.UserID != userID {
				others[a.UserID] = true
			}
		}
		if len(others) >= s.maxOwners {
			return "", conflictError(fmt.Sprintf("owner limit of %d reached", s.maxOwners))
		}
	}

	if _, err := s.SeedRoles(ctx); err != nil {
		return "", err
	}
	id, err := s.AssignRoleExclusive(ctx, userID, model.RoleOwner, userID)
	if err != nil {
		return "", err
	}

	if level := s.GetUserLevel(ctx, userID); level != model.LevelOwner {
		return id, fmt.Errorf("owner bootstrap: level is %d after assignment", level)
	}
	s.Logger.Info("owner bootstrap complete", "user_id", userID)
	return id, nil
}

// ResetToDefaultRole drops whatever the caller holds and gives them their
// verification-derived default role.
func (s *Service) ResetToDefaultRole(ctx context.Context) (string, error) {
	userID := s.Identity.CurrentUserID(ctx)
	if userID == "" {
		return "", ErrUnauthenticated
	}
	return s.AssignRoleExclusive(ctx, userID, s.defaultRoleFor(ctx, userID), model.AssignedBySystemReset)
}

// requireAdmin returns the caller id if they may use the admin dashboard.
func (s *Service) requireAdmin(ctx context.Context) (string, error) {
	caller := s.Identity.CurrentUserID(ctx)
	if caller == "" {
		return "", ErrUnauthenticated
	}
	if !s.CanAccessAdmin(ctx, caller) {
		return "", ErrUnauthorized
	}
	return caller, nil
}

// ChangeUserRole is the admin dashboard path. Granting owner, or changing an
// existing owner, requires the caller to be an owner.
func (s *Service) ChangeUserRole(ctx context.Context, userID, roleID string) (string, error) {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return "", err
	}
	if err := checkAssignable(userID, roleID); err != nil {
		return "", err
	}
	if (roleID == model.RoleOwner || s.IsOwner(ctx, userID)) && !s.IsOwner(ctx, caller) {
		return "", ErrUnauthorized
	}
	return s.AssignRoleExclusive(ctx, userID, roleID, caller)
}

// RevokeUserRoles removes all assignments of userID on behalf of an admin.
func (s *Service) RevokeUserRoles(ctx context.Context, userID string) (int, error) {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return 0, err
	}
	if s.IsOwner(ctx, userID) && !s.IsOwner(ctx, caller) {
		return 0, ErrUnauthorized
	}

	removed, err := s.RemoveAllUserRoles(ctx, userID)
	if err != nil {
		return removed, err
	}
	s.Audit.Record(ctx, repository.AuditEntry{
		ActorID:    caller,
		Action:     model.ActionRoleRemoveAll,
		EntityType: model.EntityUser,
		EntityID:   userID,
		Meta:       map[string]any{"removed": removed},
	})
	return removed, nil
}

// ListAssignments returns every assignment for the admin dashboard,
// including ones whose role is missing from the catalog.
func (s *Service) ListAssignments(ctx context.Context) ([]*model.UserRole, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	all, err := s.Repo.ListAssignments(ctx)
	if err != nil {
		return nil, storeError("list assignments", err)
	}
	return s.joinRoles(ctx, all, true)
}

// ViewUserRoles lets users see their own roles and admins see anyone's.
func (s *Service) ViewUserRoles(ctx context.Context, userID string) ([]*model.UserRole, error) {
	caller := s.Identity.CurrentUserID(ctx)
	if caller == "" {
		return nil, ErrUnauthenticated
	}
	if caller != userID && !s.CanAccessAdmin(ctx, caller) {
		return nil, ErrUnauthorized
	}
	return s.GetUserRoles(ctx, userID)
}

// CanRunSetup reports whether the caller may use the setup endpoints: an
// allow-listed email, or an existing owner.
func (s *Service) CanRunSetup(ctx context.Context) bool {
	caller := s.Identity.CurrentUserID(ctx)
	if caller == "" {
		return false
	}
	return s.isOwnerEmail(s.Identity.CurrentUserEmail(ctx)) || s.IsOwner(ctx, caller)
}

// GetAuditLogs pages through the audit trail. Access is checked by the owner middleware.
func (s *Service) GetAuditLogs(ctx context.Context, req model.GetAuditLogsReq) (*model.GetAuditLogsResp, error) {
	data, total, err := s.Repo.FindAuditLogs(ctx, req)
	if err != nil {
		return nil, storeError("find audit logs", err)
	}
	return &model.GetAuditLogsResp{
		Data:       data,
		Page:       req.Page,
		Size:       req.Size,
		TotalCount: total,
	}, nil
}
