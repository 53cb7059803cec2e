package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/mocks"
)

func TestSourceFileService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockSourceFileRepository(ctrl)
	svc := NewSourceFileService(SourceFileServiceOptions{Repo: repo})

	req := &model.CreateSourceFileRequest{Name: "q3.xlsx", StoragePath: "uploads/q3.xlsx"}
	created := &model.SourceFile{ID: "sf-1", Name: "q3.xlsx", StoragePath: "uploads/q3.xlsx"}
	repo.EXPECT().Create(ctx, req).Return(created, nil)

	got, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestSourceFileService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockSourceFileRepository(ctrl)
	svc := NewSourceFileService(SourceFileServiceOptions{Repo: repo})

	repo.EXPECT().Delete(ctx, "sf-1").Return(true, nil)
	require.NoError(t, svc.Delete(ctx, "sf-1"))

	repo.EXPECT().Delete(ctx, "sf-2").Return(false, nil)
	err := svc.Delete(ctx, "sf-2")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSourceFileService_ListPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockSourceFileRepository(ctrl)
	svc := NewSourceFileService(SourceFileServiceOptions{Repo: repo})

	expected := []*model.SourceFile{{ID: "sf-1"}}
	repo.EXPECT().List(ctx, 50, 0).Return(expected, nil)

	got, err := svc.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}
