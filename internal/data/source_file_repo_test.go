package data_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/predictlab/forecast-ui-api/internal/data"
	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/testutil"
)

func createTestSourceFile(t *testing.T, repo *SourceFileRepo) *model.SourceFile {
	t.Helper()

	name := "report-" + uuid.NewString() + ".xlsx"
	sf, err := repo.Create(context.Background(), &model.CreateSourceFileRequest{
		Name:        name,
		StoragePath: "uploads/" + name,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		SizeBytes:   2048,
		UploadedBy:  "admin-1",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = repo.Delete(context.Background(), sf.ID)
	})
	return sf
}

func TestSourceFileRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSourceFileRepo(db)

	sf := createTestSourceFile(t, repo)
	assert.NotEmpty(t, sf.ID)
	assert.Equal(t, int64(2048), sf.SizeBytes)

	got, err := repo.GetByID(context.Background(), sf.ID)
	require.NoError(t, err)
	assert.Equal(t, sf.Name, got.Name)
	assert.Equal(t, sf.StoragePath, got.StoragePath)
	assert.Equal(t, "admin-1", got.UploadedBy)
}

func TestSourceFileRepo_GetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSourceFileRepo(db)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSourceFileRepo_DuplicateNameConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSourceFileRepo(db)

	sf := createTestSourceFile(t, repo)

	_, err := repo.Create(context.Background(), &model.CreateSourceFileRequest{
		Name:        sf.Name,
		StoragePath: "uploads/other",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestSourceFileRepo_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSourceFileRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, repo)

	newName := "renamed-" + uuid.NewString() + ".xlsx"
	updated, err := repo.Update(ctx, sf.ID, model.UpdateSourceFileRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, sf.StoragePath, updated.StoragePath)

	// Empty update requests are rejected before touching the database.
	_, err = repo.Update(ctx, sf.ID, model.UpdateSourceFileRequest{})
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Update(ctx, uuid.NewString(), model.UpdateSourceFileRequest{Name: &newName})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSourceFileRepo_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSourceFileRepo(db)

	first := createTestSourceFile(t, repo)
	second := createTestSourceFile(t, repo)

	files, err := repo.List(context.Background(), 100, 0)
	require.NoError(t, err)

	ids := make(map[string]bool, len(files))
	for _, f := range files {
		ids[f.ID] = true
	}
	assert.True(t, ids[first.ID])
	assert.True(t, ids[second.ID])
}

func TestSourceFileRepo_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSourceFileRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, repo)

	deleted, err := repo.Delete(ctx, sf.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, sf.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
