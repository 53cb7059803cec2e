package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/predictlab/forecast-ui-api/internal/data/pgxutil"
	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
)

// PredictionRepo provides database operations for prediction records.
type PredictionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPredictionRepo creates a new PredictionRepo instance with the given database connection.
func NewPredictionRepo(db *sql.DB) *PredictionRepo {
	return &PredictionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPredictionRepoWithTimeProvider creates a PredictionRepo with a custom TimeProvider (useful for testing).
func NewPredictionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PredictionRepo {
	return &PredictionRepo{DB: db, timeProvider: tp}
}

const predictionColumns = `id, source_file_id, symbol, prediction_date,
	open_price, high_price, low_price, close_price, notes, created_at`

// Create inserts a new prediction record.
func (r *PredictionRepo) Create(ctx context.Context, req *model.CreatePredictionRequest) (*model.Prediction, error) {
	if req == nil {
		return nil, apperrors.Validation("create prediction request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	createdAt := r.timeProvider.Now()

	var out model.Prediction
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO predictions
				(source_file_id, symbol, prediction_date, open_price, high_price, low_price, close_price, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+predictionColumns,
			req.SourceFileID, req.Symbol, req.PredictionDate,
			req.OpenPrice, req.HighPrice, req.LowPrice, req.ClosePrice, req.Notes, createdAt)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prediction])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// CreateBatch inserts a set of prediction records in a single transaction.
// All records come from the same ingested file; a failure rolls back the batch.
func (r *PredictionRepo) CreateBatch(ctx context.Context, reqs []*model.CreatePredictionRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}
	for i, req := range reqs {
		if req == nil {
			return 0, apperrors.Validation(fmt.Sprintf("record %d is nil", i))
		}
		if err := req.Validate(); err != nil {
			return 0, apperrors.Validation(fmt.Sprintf("record %d: %v", i, err))
		}
	}

	createdAt := r.timeProvider.Now()

	var inserted int
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		for _, req := range reqs {
			ct, err := tx.Exec(ctx, `
				INSERT INTO predictions
					(source_file_id, symbol, prediction_date, open_price, high_price, low_price, close_price, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				req.SourceFileID, req.Symbol, req.PredictionDate,
				req.OpenPrice, req.HighPrice, req.LowPrice, req.ClosePrice, req.Notes, createdAt)
			if err != nil {
				return err
			}
			inserted += int(ct.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create prediction batch: %w", apperrors.MapDBError(err))
	}
	return inserted, nil
}

// GetByID retrieves a prediction record by its ID.
func (r *PredictionRepo) GetByID(ctx context.Context, id string) (*model.Prediction, error) {
	var out model.Prediction
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+predictionColumns+`
			FROM predictions
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prediction])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("prediction %s not found", id)
		}
		return nil, fmt.Errorf("failed to get prediction: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// List retrieves prediction records matching the given filters, newest
// prediction date first.
func (r *PredictionRepo) List(ctx context.Context, opts model.PredictionListOptions) ([]*model.Prediction, error) {
	query, args := buildPredictionListQuery(opts)

	var preds []model.Prediction
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		preds, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Prediction])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", apperrors.MapDBError(err))
	}

	result := make([]*model.Prediction, len(preds))
	for i := range preds {
		result[i] = &preds[i]
	}
	return result, nil
}

// buildPredictionListQuery assembles the filtered list query. Filters are
// ANDed; absent filters are omitted entirely.
func buildPredictionListQuery(opts model.PredictionListOptions) (string, []any) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var conds []string
	var args []any
	argIdx := 1

	addCond := func(cond string, val any) {
		conds = append(conds, fmt.Sprintf(cond, argIdx))
		args = append(args, val)
		argIdx++
	}

	if opts.Symbol != "" {
		addCond("symbol = $%d", opts.Symbol)
	}
	if opts.SourceFileID != "" {
		addCond("source_file_id = $%d", opts.SourceFileID)
	}
	if opts.From != nil {
		addCond("prediction_date >= $%d", *opts.From)
	}
	if opts.To != nil {
		addCond("prediction_date <= $%d", *opts.To)
	}

	query := "SELECT " + predictionColumns + " FROM predictions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY prediction_date DESC, id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	return query, args
}

// Update applies a partial update to a prediction record.
func (r *PredictionRepo) Update(ctx context.Context, id string, req model.UpdatePredictionRequest) (*model.Prediction, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	argIdx := 1

	addSet := func(col string, val any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if req.Symbol != nil {
		addSet("symbol", *req.Symbol)
	}
	if req.PredictionDate != nil {
		addSet("prediction_date", *req.PredictionDate)
	}
	if req.OpenPrice != nil {
		addSet("open_price", *req.OpenPrice)
	}
	if req.HighPrice != nil {
		addSet("high_price", *req.HighPrice)
	}
	if req.LowPrice != nil {
		addSet("low_price", *req.LowPrice)
	}
	if req.ClosePrice != nil {
		addSet("close_price", *req.ClosePrice)
	}
	if req.Notes != nil {
		addSet("notes", *req.Notes)
	}
	args = append(args, id)

	query := "UPDATE predictions SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + predictionColumns

	var out model.Prediction
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prediction])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("prediction %s not found", id)
		}
		return nil, fmt.Errorf("failed to update prediction: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// Delete removes a prediction record by its ID.
func (r *PredictionRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM predictions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete prediction: %w", apperrors.MapDBError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}
