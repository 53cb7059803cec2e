package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxFileNameLen is the maximum allowed length for source file names.
	maxFileNameLen = 255
)

// SourceFile represents the metadata record of an uploaded spreadsheet.
// The file contents live in external storage; only the record is managed here.
type SourceFile struct {
	ID          string    `json:"id"           db:"id"`
	Name        string    `json:"name"         db:"name"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes"   db:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by"  db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// CreateSourceFileRequest represents a request to register a source file record.
type CreateSourceFileRequest struct {
	Name        string `json:"name"`
	StoragePath string `json:"storage_path"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedBy  string `json:"uploaded_by"`
}

// UpdateSourceFileRequest represents a partial update of a source file record.
type UpdateSourceFileRequest struct {
	Name        *string `json:"name,omitempty"`
	StoragePath *string `json:"storage_path,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
}

// Validate validates the CreateSourceFileRequest fields.
func (r *CreateSourceFileRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxFileNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.StoragePath) == "" {
		return errors.New("storage_path is required and cannot be empty")
	}
	if r.SizeBytes < 0 {
		return errors.New("size_bytes cannot be negative")
	}
	return nil
}

// HasUpdates reports whether any field of the update request is set.
func (r *UpdateSourceFileRequest) HasUpdates() bool {
	return r.Name != nil || r.StoragePath != nil || r.ContentType != nil
}

// Validate validates the UpdateSourceFileRequest fields and ensures at least
// one field is being updated.
func (r *UpdateSourceFileRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(*r.Name) > maxFileNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.StoragePath != nil && strings.TrimSpace(*r.StoragePath) == "" {
		return errors.New("storage_path cannot be empty")
	}
	return nil
}
