package httpx

import (
	"net/http"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/service"
)

// SourceFileHandlers provides HTTP handlers for source file records.
type SourceFileHandlers struct {
	Svc    *service.SourceFileService
	Policy *policy.Engine
}

// Create registers a new source file record.
// POST /api/sourcefiles.
func (h *SourceFileHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, policy.SourceFileObject(""), policy.ActionCreate) {
		return
	}

	var req model.CreateSourceFileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	// The uploader is always the authenticated subject, never client input.
	req.UploadedBy = SubjectFromContext(r.Context())

	file, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, file)
}

// List returns source file records, newest first.
// GET /api/sourcefiles?limit=&offset=.
func (h *SourceFileHandlers) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, policy.SourceFileObject(""), policy.ActionRead) {
		return
	}

	q := r.URL.Query()
	limit, ok := parseIntParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := parseIntParam(w, q.Get("offset"), "offset")
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	files, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"source_files": files})
}

// GetByID returns a single source file record.
// GET /api/sourcefiles/{id}.
func (h *SourceFileHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, policy.SourceFileObject(id), policy.ActionRead) {
		return
	}

	file, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, file)
}

// Update applies a partial update to a source file record.
// PUT /api/sourcefiles/{id}.
func (h *SourceFileHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, policy.SourceFileObject(id), policy.ActionUpdate) {
		return
	}

	var req model.UpdateSourceFileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	file, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, file)
}

// Delete removes a source file record and, through the schema, its
// predictions.
// DELETE /api/sourcefiles/{id}.
func (h *SourceFileHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, policy.SourceFileObject(id), policy.ActionDelete) {
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SourceFileHandlers) authorize(w http.ResponseWriter, r *http.Request, object, action string) bool {
	subject := SubjectFromContext(r.Context())
	if h.Policy.Authorize(r.Context(), subject, object, action) {
		return true
	}
	writePolicyDenial(w, subject)
	return false
}
