package ports

import (
	"context"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
)

// PredictionRepository defines persistence operations for prediction records.
type PredictionRepository interface {
	Create(ctx context.Context, req *model.CreatePredictionRequest) (*model.Prediction, error)
	CreateBatch(ctx context.Context, reqs []*model.CreatePredictionRequest) (int, error)
	GetByID(ctx context.Context, id string) (*model.Prediction, error)
	List(ctx context.Context, opts model.PredictionListOptions) ([]*model.Prediction, error)
	Update(ctx context.Context, id string, req model.UpdatePredictionRequest) (*model.Prediction, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SourceFileRepository defines persistence operations for source file records.
type SourceFileRepository interface {
	Create(ctx context.Context, req *model.CreateSourceFileRequest) (*model.SourceFile, error)
	GetByID(ctx context.Context, id string) (*model.SourceFile, error)
	List(ctx context.Context, limit, offset int) ([]*model.SourceFile, error)
	Update(ctx context.Context, id string, req model.UpdateSourceFileRequest) (*model.SourceFile, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SubscriptionRepository defines persistence operations for subscription records.
// There is deliberately no Delete.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	Upsert(ctx context.Context, userID string, req *model.UpsertSubscriptionRequest) (*model.Subscription, error)
}
