// Package model defines the core data types used throughout the forecast system.
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxSymbolLen is the maximum allowed length for prediction symbols.
	maxSymbolLen = 32
)

// Prediction represents a single prediction record ingested from a source file.
type Prediction struct {
	ID             string    `json:"id"              db:"id"`
	SourceFileID   string    `json:"source_file_id"  db:"source_file_id"`
	Symbol         string    `json:"symbol"          db:"symbol"`
	PredictionDate time.Time `json:"prediction_date" db:"prediction_date"`
	OpenPrice      float64   `json:"open_price"      db:"open_price"`
	HighPrice      float64   `json:"high_price"      db:"high_price"`
	LowPrice       float64   `json:"low_price"       db:"low_price"`
	ClosePrice     float64   `json:"close_price"     db:"close_price"`
	Notes          string    `json:"notes"           db:"notes"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
}

// CreatePredictionRequest represents a request to create a prediction record.
type CreatePredictionRequest struct {
	SourceFileID   string    `json:"source_file_id"`
	Symbol         string    `json:"symbol"`
	PredictionDate time.Time `json:"prediction_date"`
	OpenPrice      float64   `json:"open_price"`
	HighPrice      float64   `json:"high_price"`
	LowPrice       float64   `json:"low_price"`
	ClosePrice     float64   `json:"close_price"`
	Notes          string    `json:"notes,omitempty"`
}

// UpdatePredictionRequest represents a partial update of a prediction record.
type UpdatePredictionRequest struct {
	Symbol         *string    `json:"symbol,omitempty"`
	PredictionDate *time.Time `json:"prediction_date,omitempty"`
	OpenPrice      *float64   `json:"open_price,omitempty"`
	HighPrice      *float64   `json:"high_price,omitempty"`
	LowPrice       *float64   `json:"low_price,omitempty"`
	ClosePrice     *float64   `json:"close_price,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// PredictionListOptions carries filters for listing predictions.
type PredictionListOptions struct {
	Symbol       string
	SourceFileID string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// Validate validates the CreatePredictionRequest fields.
func (r *CreatePredictionRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return errors.New("symbol is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Symbol) > maxSymbolLen {
		return errors.New("symbol cannot exceed 32 characters")
	}
	if r.PredictionDate.IsZero() {
		return errors.New("prediction_date is required")
	}
	if r.HighPrice < r.LowPrice {
		return errors.New("high_price cannot be below low_price")
	}
	return nil
}

// HasUpdates reports whether any field of the update request is set.
func (r *UpdatePredictionRequest) HasUpdates() bool {
	return r.Symbol != nil || r.PredictionDate != nil || r.OpenPrice != nil ||
		r.HighPrice != nil || r.LowPrice != nil || r.ClosePrice != nil || r.Notes != nil
}

// Validate validates the UpdatePredictionRequest fields and ensures at least
// one field is being updated.
func (r *UpdatePredictionRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Symbol != nil {
		if strings.TrimSpace(*r.Symbol) == "" {
			return errors.New("symbol cannot be empty")
		}
		if utf8.RuneCountInString(*r.Symbol) > maxSymbolLen {
			return errors.New("symbol cannot exceed 32 characters")
		}
	}
	if r.PredictionDate != nil && r.PredictionDate.IsZero() {
		return errors.New("prediction_date cannot be zero")
	}
	if r.HighPrice != nil && r.LowPrice != nil && *r.HighPrice < *r.LowPrice {
		return errors.New("high_price cannot be below low_price")
	}
	return nil
}
