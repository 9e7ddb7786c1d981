package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Identity is what the identity provider knows about the caller.
type Identity struct {
	UserID        string
	Email         string
	EmailVerified bool
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

type TransitionKind int

const (
	SignedIn TransitionKind = iota + 1
	SignedOut
)

func (k TransitionKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Transition is emitted when a user signs in, signs out, or their
// email-verified flag changes (reported as SignedIn).
type Transition struct {
	Kind     TransitionKind
	Identity Identity
}

// TransitionHandler reacts to a transition. A SignedIn that any handler
// fails is not remembered, so the next request emits it again.
type TransitionHandler func(Transition) error

// Provider exposes the current caller and sign-in/sign-out notifications.
type Provider interface {
	CurrentUserID(ctx context.Context) string
	CurrentUserEmail(ctx context.Context) string
	CurrentUserEmailVerified(ctx context.Context) bool
	Subscribe(fn TransitionHandler) (unsubscribe func())
}

type ctxKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity carried by ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.Authenticated()
}

// ContextProvider reads the identity from the request context. The HTTP layer
// calls Observe for every authenticated request so that first sightings and
// verification changes are broadcast to subscribers.
type ContextProvider struct {
	mu     sync.Mutex
	subs   map[int]TransitionHandler
	nextID int

	// last seen email-verified flag per user; expiry means the next request
	// counts as a fresh sign-in
	sessions *expirable.LRU[string, bool]
}

func NewContextProvider(sessionTTL time.Duration, maxSessions int) *ContextProvider {
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	return &ContextProvider{
		subs:     make(map[int]TransitionHandler),
		sessions: expirable.NewLRU[string, bool](maxSessions, nil, sessionTTL),
	}
}

func (p *ContextProvider) CurrentUserID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.UserID
}

func (p *ContextProvider) CurrentUserEmail(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.Email
}

func (p *ContextProvider) CurrentUserEmailVerified(ctx context.Context) bool {
	id, _ := FromContext(ctx)
	return id.EmailVerified
}

func (p *ContextProvider) Subscribe(fn TransitionHandler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Observe emits SignedIn when the user is new to this process or their
// verification flag changed. The session is recorded only once every handler
// succeeded; the handlers' errors are returned.
func (p *ContextProvider) Observe(id Identity) error {
	if !id.Authenticated() {
		return nil
	}
	verified, seen := p.sessions.Get(id.UserID)
	if seen && verified == id.EmailVerified {
		return nil
	}
	if err := p.emit(Transition{Kind: SignedIn, Identity: id}); err != nil {
		return err
	}
	p.sessions.Add(id.UserID, id.EmailVerified)
	return nil
}

// SignOut forgets the session and emits SignedOut.
func (p *ContextProvider) SignOut(id Identity) {
	if !id.Authenticated() {
		return
	}
	p.sessions.Remove(id.UserID)
	_ = p.emit(Transition{Kind: SignedOut, Identity: id})
}

func (p *ContextProvider) emit(t Transition) error {
	p.mu.Lock()
	subs := make([]TransitionHandler, 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	var errs []error
	for _, fn := range subs {
		if err := fn(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
