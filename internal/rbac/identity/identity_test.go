package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextProvider(t *testing.T) {
	p := NewContextProvider(time.Hour, 10)

	t.Run("empty context has no identity", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, "", p.CurrentUserID(ctx))
		assert.Equal(t, "", p.CurrentUserEmail(ctx))
		assert.False(t, p.CurrentUserEmailVerified(ctx))
	})

	t.Run("identity is read from context", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Email: "a@b.c", EmailVerified: true})
		assert.Equal(t, "u1", p.CurrentUserID(ctx))
		assert.Equal(t, "a@b.c", p.CurrentUserEmail(ctx))
		assert.True(t, p.CurrentUserEmailVerified(ctx))
	})

	t.Run("anonymous identity is not authenticated", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{})
		_, ok := FromContext(ctx)
		assert.False(t, ok)
	})
}

func TestContextProviderTransitions(t *testing.T) {
	p := NewContextProvider(time.Hour, 10)

	var got []Transition
	unsubscribe := p.Subscribe(func(tr Transition) error {
		got = append(got, tr)
		return nil
	})

	u := Identity{UserID: "u1", EmailVerified: false}
	require.NoError(t, p.Observe(u))
	require.NoError(t, p.Observe(u))
	require.Len(t, got, 1)
	assert.Equal(t, SignedIn, got[0].Kind)

	u.EmailVerified = true
	p.Observe(u)
	require.Len(t, got, 2)
	assert.True(t, got[1].Identity.EmailVerified)

	p.SignOut(u)
	require.Len(t, got, 3)
	assert.Equal(t, SignedOut, got[2].Kind)

	assert.NoError(t, p.Observe(Identity{}))
	assert.Len(t, got, 3)

	unsubscribe()
	p.Observe(Identity{UserID: "u2"})
	assert.Len(t, got, 3)
}

func TestFailedSignInIsRetried(t *testing.T) {
	p := NewContextProvider(time.Hour, 10)

	calls := 0
	failing := true
	p.Subscribe(func(tr Transition) error {
		calls++
		if failing {
			return errors.New("store unavailable")
		}
		return nil
	})

	u := Identity{UserID: "u1", EmailVerified: true}
	assert.Error(t, p.Observe(u))
	assert.Error(t, p.Observe(u), "the failed sign-in is emitted again")
	assert.Equal(t, 2, calls)

	failing = false
	require.NoError(t, p.Observe(u))
	require.NoError(t, p.Observe(u))
	assert.Equal(t, 3, calls, "a handled sign-in is remembered")
}

func TestTokenVerifier(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	t.Run("round trip", func(t *testing.T) {
		token, err := v.Issue(Identity{UserID: "u1", Email: "Owner@Example.com", EmailVerified: true}, time.Minute)
		require.NoError(t, err)

		id, err := v.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", id.UserID)
		assert.Equal(t, "owner@example.com", id.Email)
		assert.True(t, id.EmailVerified)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := NewTokenVerifier("other").Issue(Identity{UserID: "u1"}, time.Minute)
		require.NoError(t, err)

		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := v.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = v.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("issue validates input", func(t *testing.T) {
		_, err := v.Issue(Identity{}, time.Minute)
		assert.Error(t, err)
		_, err = v.Issue(Identity{UserID: "u1"}, 0)
		assert.Error(t, err)
	})
}
