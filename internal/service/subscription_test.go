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

func TestSubscriptionService_Get_DefaultsToFreePlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockSubscriptionRepository(ctrl)
	svc := NewSubscriptionService(SubscriptionServiceOptions{Repo: repo})

	repo.EXPECT().GetByUserID(ctx, "user-1").Return(nil, apperrors.NotFound("missing"))

	sub, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, sub.Plan)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.Equal(t, "user-1", sub.UserID)
}

func TestSubscriptionService_Get_ReturnsStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockSubscriptionRepository(ctrl)
	svc := NewSubscriptionService(SubscriptionServiceOptions{Repo: repo})

	stored := &model.Subscription{UserID: "user-1", Plan: model.PlanPro, Status: model.SubscriptionActive}
	repo.EXPECT().GetByUserID(ctx, "user-1").Return(stored, nil)

	sub, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, stored, sub)
}

func TestSubscriptionService_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockSubscriptionRepository(ctrl)
	svc := NewSubscriptionService(SubscriptionServiceOptions{Repo: repo})

	req := &model.UpsertSubscriptionRequest{Plan: model.PlanPro, Status: model.SubscriptionActive}
	repo.EXPECT().Upsert(ctx, "user-1", req).Return(&model.Subscription{
		UserID: "user-1", Plan: model.PlanPro, Status: model.SubscriptionActive,
	}, nil)

	sub, err := svc.Set(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, sub.Plan)
}
