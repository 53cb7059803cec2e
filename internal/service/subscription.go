package service

import (
	"context"
	"fmt"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// SubscriptionServiceOptions groups dependencies for SubscriptionService.
type SubscriptionServiceOptions struct {
	Repo ports.SubscriptionRepository
}

// SubscriptionService manages per-user subscription records. Callers own
// their subscription; cancellation is a status change, never a delete.
type SubscriptionService struct {
	repo ports.SubscriptionRepository
}

// NewSubscriptionService constructs a new SubscriptionService.
func NewSubscriptionService(opts SubscriptionServiceOptions) *SubscriptionService {
	if opts.Repo == nil {
		panic("subscription service requires a repository")
	}
	return &SubscriptionService{repo: opts.Repo}
}

// Get returns the user's subscription, defaulting to an active free plan
// when none has been stored yet.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &model.Subscription{
				UserID: userID,
				Plan:   model.PlanFree,
				Status: model.SubscriptionActive,
			}, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// Set creates or updates the user's subscription.
func (s *SubscriptionService) Set(ctx context.Context, userID string, req *model.UpsertSubscriptionRequest) (*model.Subscription, error) {
	sub, err := s.repo.Upsert(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("set subscription: %w", err)
	}
	return sub, nil
}
