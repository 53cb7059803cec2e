package data_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/predictlab/forecast-ui-api/internal/data"
	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/testutil"
)

func TestRoleStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewRoleStore(db)
	ctx := context.Background()

	userID := "user-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	})

	doc := domainauth.RoleDocument{
		UserID: userID,
		Email:  "alice@example.com",
		Role:   domainauth.RoleUser,
	}
	require.NoError(t, store.CreateDocument(ctx, doc))

	got, err := store.GetDocument(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, domainauth.RoleUser, got.Role)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRoleStore_CreateIsInsertOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewRoleStore(db)
	ctx := context.Background()

	userID := "user-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	})

	first := domainauth.RoleDocument{UserID: userID, Email: "bob@example.com", Role: domainauth.RoleAdmin}
	require.NoError(t, store.CreateDocument(ctx, first))

	// A second create must not overwrite the existing document. The role in
	// particular has to stay what the first write assigned.
	second := domainauth.RoleDocument{UserID: userID, Email: "other@example.com", Role: domainauth.RoleUser}
	require.NoError(t, store.CreateDocument(ctx, second))

	got, err := store.GetDocument(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, got.Role)
	assert.Equal(t, "bob@example.com", got.Email)
}

func TestRoleStore_GetMissingIsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewRoleStore(db)

	_, err := store.GetDocument(context.Background(), "user-"+uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRoleStore_UpdateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	tp := NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewRoleStoreWithTimeProvider(db, tp)
	ctx := context.Background()

	userID := "user-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	})

	doc := domainauth.RoleDocument{UserID: userID, Email: "old@example.com", Role: domainauth.RoleUser}
	require.NoError(t, store.CreateDocument(ctx, doc))

	require.NoError(t, store.UpdateEmail(ctx, userID, "new@example.com"))

	got, err := store.GetDocument(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, domainauth.RoleUser, got.Role)
	assert.WithinDuration(t, tp.Now(), got.CreatedAt, time.Second)
}

func TestRoleStore_UpdateEmailMissingDoc(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewRoleStore(db)

	err := store.UpdateEmail(context.Background(), "user-"+uuid.NewString(), "x@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRoleStore_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewRoleStore(db)
	ctx := context.Background()

	_, err := store.GetDocument(ctx, "")
	assert.True(t, apperrors.IsValidation(err))

	err = store.CreateDocument(ctx, domainauth.RoleDocument{UserID: "u", Role: "superuser"})
	assert.True(t, apperrors.IsValidation(err))

	err = store.UpdateEmail(ctx, "u", "")
	assert.True(t, apperrors.IsValidation(err))
}
