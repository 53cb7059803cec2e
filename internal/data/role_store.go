package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/predictlab/forecast-ui-api/internal/data/pgxutil"
	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
)

// RoleStore persists Role Documents in the users table. Documents are
// provisioned exactly once per identity and never deleted; role changes
// happen out of band, directly in the database.
type RoleStore struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRoleStore creates a new RoleStore instance with the given database connection.
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewRoleStoreWithTimeProvider creates a RoleStore with a custom TimeProvider (useful for testing).
func NewRoleStoreWithTimeProvider(db *sql.DB, tp TimeProvider) *RoleStore {
	return &RoleStore{DB: db, timeProvider: tp}
}

// GetDocument retrieves the Role Document for an identity. It returns a
// not-found error when no document exists and never creates one.
func (r *RoleStore) GetDocument(ctx context.Context, userID string) (*domainauth.RoleDocument, error) {
	if userID == "" {
		return nil, apperrors.Validation("user id is required")
	}

	var doc domainauth.RoleDocument
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, email, role, created_at
			FROM users
			WHERE id = $1
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		doc, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.RoleDocument])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("role document not found for user %s", userID)
		}
		return nil, fmt.Errorf("failed to get role document: %w", apperrors.MapDBError(err))
	}
	return &doc, nil
}

// CreateDocument provisions the Role Document for an identity. A second call
// for the same identity is a no-op; the existing document, role included,
// stays untouched.
func (r *RoleStore) CreateDocument(ctx context.Context, doc domainauth.RoleDocument) error {
	if doc.UserID == "" {
		return apperrors.Validation("user id is required")
	}
	if !doc.Role.Valid() {
		return apperrors.ValidationField("role", fmt.Sprintf("invalid role %q", doc.Role))
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, doc.UserID, doc.Email, doc.Role, createdAt)
	if err != nil {
		return fmt.Errorf("failed to create role document: %w", apperrors.MapDBError(err))
	}
	return nil
}

// UpdateEmail merges a new email into an existing Role Document. The role is
// never touched. Updating a missing document is a not-found error.
func (r *RoleStore) UpdateEmail(ctx context.Context, userID, email string) error {
	if userID == "" {
		return apperrors.Validation("user id is required")
	}
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}

	result, err := r.DB.ExecContext(ctx, `UPDATE users SET email = $1 WHERE id = $2`, email, userID)
	if err != nil {
		return fmt.Errorf("failed to update role document email: %w", apperrors.MapDBError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("role document not found for user %s", userID)
	}
	return nil
}
