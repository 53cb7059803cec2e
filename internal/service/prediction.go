package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// PredictionServiceOptions groups dependencies for PredictionService.
type PredictionServiceOptions struct {
	Repo        ports.PredictionRepository
	SourceFiles ports.SourceFileRepository // Optional: enables source-file checks on ingest
	Logger      *slog.Logger               // Optional
}

// PredictionService orchestrates prediction reads and admin-side writes.
type PredictionService struct {
	repo  ports.PredictionRepository
	files ports.SourceFileRepository
	log   *slog.Logger
}

// NewPredictionService constructs a new PredictionService.
func NewPredictionService(opts PredictionServiceOptions) *PredictionService {
	if opts.Repo == nil {
		panic("prediction service requires a repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionService{
		repo:  opts.Repo,
		files: opts.SourceFiles,
		log:   logger.With("component", "prediction_service"),
	}
}

// List returns predictions matching the given filters.
func (s *PredictionService) List(ctx context.Context, opts model.PredictionListOptions) ([]*model.Prediction, error) {
	return s.repo.List(ctx, opts)
}

// GetByID returns a prediction by id.
func (s *PredictionService) GetByID(ctx context.Context, id string) (*model.Prediction, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a single prediction record.
func (s *PredictionService) Create(ctx context.Context, req *model.CreatePredictionRequest) (*model.Prediction, error) {
	pred, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}
	return pred, nil
}

// Ingest inserts a batch of prediction records for one source file. The
// source file must exist before any record is written.
func (s *PredictionService) Ingest(ctx context.Context, sourceFileID string, reqs []*model.CreatePredictionRequest) (int, error) {
	if sourceFileID == "" {
		return 0, apperrors.Validation("source file id is required")
	}
	if s.files != nil {
		if _, err := s.files.GetByID(ctx, sourceFileID); err != nil {
			return 0, fmt.Errorf("ingest predictions: %w", err)
		}
	}
	for _, req := range reqs {
		if req != nil {
			req.SourceFileID = sourceFileID
		}
	}

	inserted, err := s.repo.CreateBatch(ctx, reqs)
	if err != nil {
		return 0, fmt.Errorf("ingest predictions: %w", err)
	}
	s.log.InfoContext(ctx, "ingested predictions", "source_file_id", sourceFileID, "count", inserted)
	return inserted, nil
}

// Update applies a partial update to a prediction record.
func (s *PredictionService) Update(ctx context.Context, id string, req model.UpdatePredictionRequest) (*model.Prediction, error) {
	pred, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update prediction: %w", err)
	}
	return pred, nil
}

// Delete removes a prediction record.
func (s *PredictionService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete prediction: %w", err)
	}
	if !deleted {
		return apperrors.NotFoundf("prediction %s not found", id)
	}
	return nil
}
