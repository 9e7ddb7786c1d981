package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"journal/internal/rbac/identity"
	"journal/internal/rbac/repository"
)

const transitionTimeout = 10 * time.Second

type Options struct {
	Logger  *slog.Logger
	Metrics *Metrics

	// OwnerEmails may run the owner bootstrap. Compared case-insensitively.
	OwnerEmails []string
	// MaxOwners caps distinct owners created by the bootstrap; 0 means no cap.
	MaxOwners int

	// CacheTTL of resolved user roles; 0 disables the cache.
	CacheTTL  time.Duration
	CacheSize int

	// InlineAudit writes audit entries before returning. Used by tests.
	InlineAudit bool
}

// Service holds the permission resolver, role assignment and post
// authorization logic. Construct it once and share it.
type Service struct {
	Repo     repository.Repository
	Identity identity.Provider
	Logger   *slog.Logger
	Metrics  *Metrics
	Audit    *AuditLogger

	ownerEmails map[string]bool
	maxOwners   int

	cache       *roleCache
	locks       *userLocks
	unsubscribe func()
}

func NewService(repo repository.Repository, idp identity.Provider, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		Repo:        repo,
		Identity:    idp,
		Logger:      logger,
		Metrics:     opts.Metrics,
		Audit:       NewAuditLogger(repo, repo.Now, logger, opts.Metrics, opts.InlineAudit),
		ownerEmails: make(map[string]bool, len(opts.OwnerEmails)),
		maxOwners:   opts.MaxOwners,
		locks:       newUserLocks(),
	}
	for _, email := range opts.OwnerEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			s.ownerEmails[email] = true
		}
	}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 1024
		}
		s.cache = newRoleCache(size, opts.CacheTTL)
	}

	s.unsubscribe = idp.Subscribe(s.onTransition)
	return s
}

// Close stops listening for identity transitions and flushes pending audit writes.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Audit.Wait()
}

func (s *Service) onTransition(t identity.Transition) error {
	userID := t.Identity.UserID
	s.InvalidateUser(userID)
	if t.Kind != identity.SignedIn {
		return nil
	}

	ctx, cancel := context.WithTimeout(identity.WithIdentity(context.Background(), t.Identity), transitionTimeout)
	defer cancel()
	if err := s.UpdateRoleByVerificationStatus(ctx, userID); err != nil {
		s.Logger.Error("failed to sync role with verification status", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// InvalidateUser drops cached roles for userID.
func (s *Service) InvalidateUser(userID string) {
	if s.cache != nil && userID != "" {
		s.cache.invalidate(userID)
	}
}

func (s *Service) invalidateAll() {
	if s.cache != nil {
		s.cache.purge()
	}
}

func (s *Service) isOwnerEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return email != "" && s.ownerEmails[email]
}

// userLocks serializes exclusive assignments per user within this process.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

func (l *userLocks) lock(userID string) (unlock func()) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.Lock()
	return func() {
		ul.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
