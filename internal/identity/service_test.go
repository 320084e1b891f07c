package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewInMemoryRepository(nil), "test-secret", time.Hour)
}

func TestCreateAccountAndSignIn(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "  Ravi@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", created.Email)
	assert.NotEmpty(t, created.UID)
	assert.NotEqual(t, "secret1", created.PasswordHash)

	signedIn, err := svc.SignIn(ctx, "ravi@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.UID, signedIn.UID)

	_, err = svc.SignIn(ctx, "ravi@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAccount_Rejects(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "a@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.CreateAccount(ctx, "   ", "123456")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.CreateAccount(ctx, "a@example.com", "123456")
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, "A@example.com", "654321")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestOnIdentityChanged(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	var events []Event
	unsubscribe := svc.OnIdentityChanged(func(ev Event) { events = append(events, ev) })

	created, err := svc.CreateAccount(ctx, "b@example.com", "123456")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "b@example.com", "123456")
	require.NoError(t, err)
	svc.SignOut(Claims{UID: created.UID, TokenID: "t-1", ExpiresAt: time.Now().Add(time.Hour)})

	require.Len(t, events, 3)
	assert.Equal(t, EventSignedUp, events[0].Kind)
	assert.Equal(t, EventSignedIn, events[1].Kind)
	assert.Equal(t, EventSignedOut, events[2].Kind)
	assert.Nil(t, events[2].Identity)
	assert.Equal(t, created.UID, events[2].UID)

	unsubscribe()
	_, err = svc.SignIn(ctx, "b@example.com", "123456")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestSignOut_RevokesToken(t *testing.T) {
	svc := newTestService()
	assert.False(t, svc.Revoked("jti-1"))

	svc.SignOut(Claims{UID: "u1", TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)})
	assert.True(t, svc.Revoked("jti-1"))

	// expired revocations are pruned on the next sign-out
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	svc.SignOut(Claims{UID: "u2", TokenID: "jti-2", ExpiresAt: time.Now().Add(3 * time.Hour)})
	assert.False(t, svc.Revoked("jti-1"))
	assert.True(t, svc.Revoked("jti-2"))
}
