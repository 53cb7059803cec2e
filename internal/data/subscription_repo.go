package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/predictlab/forecast-ui-api/internal/data/pgxutil"
	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
)

// SubscriptionRepo provides database operations for subscription records.
// There is no delete; subscriptions are canceled by status change.
type SubscriptionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSubscriptionRepo creates a new SubscriptionRepo instance with the given database connection.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo {
	return &SubscriptionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewSubscriptionRepoWithTimeProvider creates a SubscriptionRepo with a custom TimeProvider (useful for testing).
func NewSubscriptionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SubscriptionRepo {
	return &SubscriptionRepo{DB: db, timeProvider: tp}
}

// GetByUserID retrieves a user's subscription record.
func (r *SubscriptionRepo) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, apperrors.Validation("user id is required")
	}

	var sub model.Subscription
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT user_id, plan, status, created_at, updated_at
			FROM subscriptions
			WHERE user_id = $1
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		sub, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Subscription])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("subscription not found for user %s", userID)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", apperrors.MapDBError(err))
	}
	return &sub, nil
}

// Upsert creates or replaces a user's subscription record.
func (r *SubscriptionRepo) Upsert(ctx context.Context, userID string, req *model.UpsertSubscriptionRequest) (*model.Subscription, error) {
	if userID == "" {
		return nil, apperrors.Validation("user id is required")
	}
	if req == nil {
		return nil, apperrors.Validation("upsert subscription request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now()

	var sub model.Subscription
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO subscriptions (user_id, plan, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET plan = EXCLUDED.plan, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
			RETURNING user_id, plan, status, created_at, updated_at
		`, userID, req.Plan, req.Status, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		sub, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Subscription])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", apperrors.MapDBError(err))
	}
	return &sub, nil
}
