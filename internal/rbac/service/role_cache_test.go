package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
	"journal/internal/rbac/repository"
	"journal/internal/rbac/testutil"

	"github.com/stretchr/testify/assert"
)

// stallingStore reads the next Find on collection, then holds the result
// until release is closed.
type stallingStore struct {
	adapter.DocumentStore
	collection string
	armed      atomic.Bool
	entered    chan struct{}
	release    chan struct{}
}

func newStallingStore(collection string) *stallingStore {
	return &stallingStore{
		DocumentStore: adapter.NewMemoryStore(adapter.WithClock(testutil.SteppingClock(testEpoch, time.Millisecond))),
		collection:    collection,
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (s *stallingStore) Find(ctx context.Context, collection string, q adapter.Query) ([]*adapter.Snapshot, error) {
	if collection != s.collection || !s.armed.CompareAndSwap(true, false) {
		return s.DocumentStore.Find(ctx, collection, q)
	}
	snaps, err := s.DocumentStore.Find(ctx, collection, q)
	close(s.entered)
	<-s.release
	return snaps, err
}

func TestRoleCacheLoads(t *testing.T) {
	roles := []*model.UserRole{{UserID: "u1", RoleID: model.RoleAdmin}}

	t.Run("an undisturbed load is cached", func(t *testing.T) {
		c := newRoleCache(10, time.Minute)
		c.finish(c.begin("u1"), roles)

		got, ok := c.get("u1")
		assert.True(t, ok)
		assert.Equal(t, roles, got)
		assert.Empty(t, c.inflight)
	})

	t.Run("a load overlapping an invalidation is dropped", func(t *testing.T) {
		c := newRoleCache(10, time.Minute)
		tok := c.begin("u1")
		c.invalidate("u1")
		c.finish(tok, roles)

		_, ok := c.get("u1")
		assert.False(t, ok)
		assert.Empty(t, c.inflight)
	})

	t.Run("a load overlapping a purge is dropped", func(t *testing.T) {
		c := newRoleCache(10, time.Minute)
		tok := c.begin("u1")
		c.purge()
		c.finish(tok, roles)

		_, ok := c.get("u1")
		assert.False(t, ok)
	})

	t.Run("invalidating another user does not affect the load", func(t *testing.T) {
		c := newRoleCache(10, time.Minute)
		tok := c.begin("u1")
		c.invalidate("u2")
		c.finish(tok, roles)

		_, ok := c.get("u1")
		assert.True(t, ok)
	})

	t.Run("a load started after the invalidation is cached", func(t *testing.T) {
		c := newRoleCache(10, time.Minute)
		early := c.begin("u1")
		c.invalidate("u1")
		late := c.begin("u1")

		c.finish(late, roles)
		_, ok := c.get("u1")
		assert.True(t, ok)

		c.finish(early, []*model.UserRole{})
		got, _ := c.get("u1")
		assert.Equal(t, roles, got, "the stale load must not overwrite the fresh one")
		assert.Empty(t, c.inflight)
	})

	t.Run("a failed load only releases its token", func(t *testing.T) {
		c := newRoleCache(10, time.Minute)
		c.finish(c.begin("u1"), nil)

		_, ok := c.get("u1")
		assert.False(t, ok)
		assert.Empty(t, c.inflight)
	})
}

func TestDemotionDuringRoleLoad(t *testing.T) {
	ctx := context.Background()
	store := newStallingStore(repository.DefaultCollections().UserRoles)
	s := newServiceWithStore(t, store)
	seedCatalog(t, s)
	assign(t, s, "u1", model.RoleAdmin)
	s.InvalidateUser("u1")

	store.armed.Store(true)
	levels := make(chan int, 1)
	go func() { levels <- s.GetUserLevel(ctx, "u1") }()

	<-store.entered
	assign(t, s, "u1", model.RoleUnverifiedUser)
	close(store.release)

	assert.Equal(t, model.LevelAdmin, <-levels, "the overlapping read saw the roles it loaded")
	assert.Equal(t, model.LevelUnverifiedUser, s.GetUserLevel(ctx, "u1"))
	assert.False(t, s.CanAccessAdmin(ctx, "u1"))
}
