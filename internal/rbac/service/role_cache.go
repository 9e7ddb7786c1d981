package service

import (
	"sync"
	"time"

	"journal/internal/rbac/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// roleCache caches resolved user roles. A load that overlaps an invalidation
// of the same user is not stored, so a slow reader cannot put back roles that
// a concurrent write already replaced.
type roleCache struct {
	mu       sync.Mutex
	lru      *expirable.LRU[string, []*model.UserRole]
	inflight map[string]*roleLoad
}

type roleLoad struct {
	readers int
	gen     uint64
}

// roleLoadToken is handed to a reader by begin and returned to finish.
type roleLoadToken struct {
	userID string
	gen    uint64
}

func newRoleCache(size int, ttl time.Duration) *roleCache {
	return &roleCache{
		lru:      expirable.NewLRU[string, []*model.UserRole](size, nil, ttl),
		inflight: make(map[string]*roleLoad),
	}
}

func (c *roleCache) get(userID string) ([]*model.UserRole, bool) {
	return c.lru.Get(userID)
}

// begin registers a load of userID's roles from the store.
func (c *roleCache) begin(userID string) roleLoadToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.inflight[userID]
	if !ok {
		l = &roleLoad{}
		c.inflight[userID] = l
	}
	l.readers++
	return roleLoadToken{userID: userID, gen: l.gen}
}

// finish ends a load. roles are cached only when no invalidation of the user
// happened since begin; a nil roles just releases the token.
func (c *roleCache) finish(tok roleLoadToken, roles []*model.UserRole) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.inflight[tok.userID]
	if l == nil {
		return
	}
	if roles != nil && l.gen == tok.gen {
		c.lru.Add(tok.userID, roles)
	}
	l.readers--
	if l.readers == 0 {
		delete(c.inflight, tok.userID)
	}
}

func (c *roleCache) invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(userID)
	if l, ok := c.inflight[userID]; ok {
		l.gen++
	}
}

func (c *roleCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	for _, l := range c.inflight {
		l.gen++
	}
}
