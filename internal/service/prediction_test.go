package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/mocks"
)

const testSourceFileID = "e9b1f9a0-0000-4000-8000-000000000001"

func TestPredictionService_Ingest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockPredictionRepository(ctrl)
	files := mocks.NewMockSourceFileRepository(ctrl)
	svc := NewPredictionService(PredictionServiceOptions{Repo: repo, SourceFiles: files})

	reqs := []*model.CreatePredictionRequest{
		{Symbol: "ACME", PredictionDate: time.Now(), HighPrice: 10, LowPrice: 5},
		{Symbol: "GLOBEX", PredictionDate: time.Now(), HighPrice: 20, LowPrice: 15},
	}

	files.EXPECT().GetByID(ctx, testSourceFileID).Return(&model.SourceFile{ID: testSourceFileID}, nil)
	repo.EXPECT().CreateBatch(ctx, reqs).DoAndReturn(
		func(_ context.Context, got []*model.CreatePredictionRequest) (int, error) {
			for _, r := range got {
				assert.Equal(t, testSourceFileID, r.SourceFileID)
			}
			return len(got), nil
		})

	inserted, err := svc.Ingest(ctx, testSourceFileID, reqs)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
}

func TestPredictionService_Ingest_UnknownSourceFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockPredictionRepository(ctrl)
	files := mocks.NewMockSourceFileRepository(ctrl)
	svc := NewPredictionService(PredictionServiceOptions{Repo: repo, SourceFiles: files})

	files.EXPECT().GetByID(ctx, testSourceFileID).Return(nil, apperrors.NotFound("missing"))
	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Ingest(ctx, testSourceFileID, []*model.CreatePredictionRequest{{Symbol: "ACME"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPredictionService_Ingest_EmptySourceFileID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockPredictionRepository(ctrl)
	svc := NewPredictionService(PredictionServiceOptions{Repo: repo})

	_, err := svc.Ingest(context.Background(), "", nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPredictionService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockPredictionRepository(ctrl)
	svc := NewPredictionService(PredictionServiceOptions{Repo: repo})

	repo.EXPECT().Delete(ctx, "pred-1").Return(true, nil)
	require.NoError(t, svc.Delete(ctx, "pred-1"))

	repo.EXPECT().Delete(ctx, "pred-2").Return(false, nil)
	err := svc.Delete(ctx, "pred-2")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPredictionService_ListAndGetPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockPredictionRepository(ctrl)
	svc := NewPredictionService(PredictionServiceOptions{Repo: repo})

	opts := model.PredictionListOptions{Symbol: "ACME"}
	expected := []*model.Prediction{{ID: "p-1", Symbol: "ACME"}}
	repo.EXPECT().List(ctx, opts).Return(expected, nil)

	got, err := svc.List(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	repo.EXPECT().GetByID(ctx, "p-1").Return(expected[0], nil)
	one, err := svc.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", one.ID)
}
