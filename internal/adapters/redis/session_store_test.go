package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/testutil"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	store := NewSessionStoreWithPrefix(client, "test-session:")
	ctx := context.Background()

	session := domainauth.Session{
		Token:     "tok-abc123",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(domainauth.SessionTTL),
	}

	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "tok-abc123")
	require.NoError(t, err)
	assert.Equal(t, session.Token, retrieved.Token)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)

	require.NoError(t, store.Delete(ctx, "tok-abc123"))
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	store := NewSessionStoreWithPrefix(client, "test-session:")
	_, err := store.Get(context.Background(), "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_RejectsEmptyAndExpired(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	store := NewSessionStoreWithPrefix(client, "test-session:")
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domainauth.Session{}))

	expired := domainauth.Session{Token: "tok-old", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}
	assert.Error(t, store.Save(ctx, expired))

	// Deleting a token that was never stored is a no-op.
	assert.NoError(t, store.Delete(ctx, "never-stored"))
	assert.NoError(t, store.Delete(ctx, ""))
}
