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

// SourceFileRepo provides database operations for source file records.
type SourceFileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSourceFileRepo creates a new SourceFileRepo instance with the given database connection.
func NewSourceFileRepo(db *sql.DB) *SourceFileRepo {
	return &SourceFileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewSourceFileRepoWithTimeProvider creates a SourceFileRepo with a custom TimeProvider (useful for testing).
func NewSourceFileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SourceFileRepo {
	return &SourceFileRepo{DB: db, timeProvider: tp}
}

// Create registers a new source file record.
func (r *SourceFileRepo) Create(ctx context.Context, req *model.CreateSourceFileRequest) (*model.SourceFile, error) {
	if req == nil {
		return nil, apperrors.Validation("create source file request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	createdAt := r.timeProvider.Now()

	var out model.SourceFile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO source_files (name, storage_path, content_type, size_bytes, uploaded_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, name, storage_path, content_type, size_bytes, uploaded_by, created_at
		`, req.Name, req.StoragePath, req.ContentType, req.SizeBytes, req.UploadedBy, createdAt)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SourceFile])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source file: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByID retrieves a source file record by its ID.
func (r *SourceFileRepo) GetByID(ctx context.Context, id string) (*model.SourceFile, error) {
	var out model.SourceFile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, storage_path, content_type, size_bytes, uploaded_by, created_at
			FROM source_files
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SourceFile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("source file %s not found", id)
		}
		return nil, fmt.Errorf("failed to get source file: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// List retrieves source file records, newest first, with pagination.
func (r *SourceFileRepo) List(ctx context.Context, limit, offset int) ([]*model.SourceFile, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var files []model.SourceFile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, storage_path, content_type, size_bytes, uploaded_by, created_at
			FROM source_files
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		files, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SourceFile])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", apperrors.MapDBError(err))
	}

	result := make([]*model.SourceFile, len(files))
	for i := range files {
		result[i] = &files[i]
	}
	return result, nil
}

// Update applies a partial update to a source file record.
func (r *SourceFileRepo) Update(ctx context.Context, id string, req model.UpdateSourceFileRequest) (*model.SourceFile, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	argIdx := 1
	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.StoragePath != nil {
		setParts = append(setParts, fmt.Sprintf("storage_path = $%d", argIdx))
		args = append(args, *req.StoragePath)
		argIdx++
	}
	if req.ContentType != nil {
		setParts = append(setParts, fmt.Sprintf("content_type = $%d", argIdx))
		args = append(args, *req.ContentType)
		argIdx++
	}
	args = append(args, id)

	query := "UPDATE source_files SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING id, name, storage_path, content_type, size_bytes, uploaded_by, created_at", argIdx)

	var out model.SourceFile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SourceFile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("source file %s not found", id)
		}
		return nil, fmt.Errorf("failed to update source file: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// Delete removes a source file record and, via cascade, its predictions.
func (r *SourceFileRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM source_files WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete source file: %w", apperrors.MapDBError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}
