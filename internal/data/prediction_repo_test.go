package data_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/predictlab/forecast-ui-api/internal/data"
	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/testutil"
)

func predictionFixture(sourceFileID, symbol string, date time.Time) *model.CreatePredictionRequest {
	return &model.CreatePredictionRequest{
		SourceFileID:   sourceFileID,
		Symbol:         symbol,
		PredictionDate: date,
		OpenPrice:      100.0,
		HighPrice:      110.0,
		LowPrice:       95.0,
		ClosePrice:     105.0,
	}
}

func TestPredictionRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	pred, err := repo.Create(ctx, predictionFixture(sf.ID, "ACME", date))
	require.NoError(t, err)
	assert.NotEmpty(t, pred.ID)
	assert.Equal(t, sf.ID, pred.SourceFileID)
	assert.Equal(t, "ACME", pred.Symbol)
	assert.InDelta(t, 105.0, pred.ClosePrice, 0.0001)

	got, err := repo.GetByID(ctx, pred.ID)
	require.NoError(t, err)
	assert.Equal(t, pred.ID, got.ID)
	assert.Equal(t, date, got.PredictionDate.UTC())
}

func TestPredictionRepo_CreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	assert.True(t, apperrors.IsValidation(err))

	req := predictionFixture(uuid.NewString(), "", time.Now())
	_, err = repo.Create(ctx, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPredictionRepo_CreateBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	reqs := []*model.CreatePredictionRequest{
		predictionFixture(sf.ID, "ACME", base),
		predictionFixture(sf.ID, "ACME", base.AddDate(0, 0, 1)),
		predictionFixture(sf.ID, "GLOBEX", base),
	}

	inserted, err := repo.CreateBatch(ctx, reqs)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	listed, err := repo.List(ctx, model.PredictionListOptions{SourceFileID: sf.ID})
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestPredictionRepo_CreateBatchRollsBackOnBadRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	reqs := []*model.CreatePredictionRequest{
		predictionFixture(sf.ID, "ACME", base),
		// Dangling source file reference fails the FK check mid-batch.
		predictionFixture(uuid.NewString(), "ACME", base),
	}

	_, err := repo.CreateBatch(ctx, reqs)
	require.Error(t, err)

	listed, listErr := repo.List(ctx, model.PredictionListOptions{SourceFileID: sf.ID})
	require.NoError(t, listErr)
	assert.Empty(t, listed)
}

func TestPredictionRepo_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, predictionFixture(sf.ID, "ACME", base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, predictionFixture(sf.ID, "GLOBEX", base))
	require.NoError(t, err)

	bySymbol, err := repo.List(ctx, model.PredictionListOptions{SourceFileID: sf.ID, Symbol: "ACME"})
	require.NoError(t, err)
	assert.Len(t, bySymbol, 3)
	// Newest prediction date first.
	assert.Equal(t, base.AddDate(0, 0, 2), bySymbol[0].PredictionDate.UTC())

	from := base.AddDate(0, 0, 1)
	windowed, err := repo.List(ctx, model.PredictionListOptions{
		SourceFileID: sf.ID,
		Symbol:       "ACME",
		From:         &from,
	})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)

	paged, err := repo.List(ctx, model.PredictionListOptions{SourceFileID: sf.ID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 2)
}

func TestPredictionRepo_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	pred, err := repo.Create(ctx, predictionFixture(sf.ID, "ACME", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	notes := "revised after earnings"
	closePrice := 120.5
	updated, err := repo.Update(ctx, pred.ID, model.UpdatePredictionRequest{
		Notes:      &notes,
		ClosePrice: &closePrice,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.InDelta(t, 120.5, updated.ClosePrice, 0.0001)
	assert.Equal(t, "ACME", updated.Symbol)

	_, err = repo.Update(ctx, uuid.NewString(), model.UpdatePredictionRequest{Notes: &notes})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPredictionRepo_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	pred, err := repo.Create(ctx, predictionFixture(sf.ID, "ACME", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, pred.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, pred.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPredictionRepo_DeleteCascadesFromSourceFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	files := NewSourceFileRepo(db)
	repo := NewPredictionRepo(db)
	ctx := context.Background()

	sf := createTestSourceFile(t, files)

	pred, err := repo.Create(ctx, predictionFixture(sf.ID, "ACME", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	deleted, err := files.Delete(ctx, sf.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = repo.GetByID(ctx, pred.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
