package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// SourceFileServiceOptions groups dependencies for SourceFileService.
type SourceFileServiceOptions struct {
	Repo   ports.SourceFileRepository
	Logger *slog.Logger // Optional
}

// SourceFileService orchestrates source file record management.
type SourceFileService struct {
	repo ports.SourceFileRepository
	log  *slog.Logger
}

// NewSourceFileService constructs a new SourceFileService.
func NewSourceFileService(opts SourceFileServiceOptions) *SourceFileService {
	if opts.Repo == nil {
		panic("source file service requires a repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceFileService{
		repo: opts.Repo,
		log:  logger.With("component", "source_file_service"),
	}
}

// Create registers a new source file record.
func (s *SourceFileService) Create(ctx context.Context, req *model.CreateSourceFileRequest) (*model.SourceFile, error) {
	sf, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create source file: %w", err)
	}
	s.log.InfoContext(ctx, "registered source file", "id", sf.ID, "name", sf.Name)
	return sf, nil
}

// GetByID returns a source file record by id.
func (s *SourceFileService) GetByID(ctx context.Context, id string) (*model.SourceFile, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns source file records with pagination.
func (s *SourceFileService) List(ctx context.Context, limit, offset int) ([]*model.SourceFile, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update applies a partial update to a source file record.
func (s *SourceFileService) Update(ctx context.Context, id string, req model.UpdateSourceFileRequest) (*model.SourceFile, error) {
	sf, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update source file: %w", err)
	}
	return sf, nil
}

// Delete removes a source file record along with its predictions.
func (s *SourceFileService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete source file: %w", err)
	}
	if !deleted {
		return apperrors.NotFoundf("source file %s not found", id)
	}
	s.log.InfoContext(ctx, "deleted source file", "id", id)
	return nil
}
