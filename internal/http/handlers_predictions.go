package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/service"
)

// PredictionHandlers provides HTTP handlers for prediction records.
type PredictionHandlers struct {
	Svc    *service.PredictionService
	Policy *policy.Engine
}

// List returns predictions matching the query filters.
// GET /api/predictions?symbol=&source_file_id=&from=&to=&limit=&offset=.
func (h *PredictionHandlers) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, policy.PredictionObject(""), policy.ActionRead) {
		return
	}

	opts, ok := parsePredictionListOptions(w, r)
	if !ok {
		return
	}

	predictions, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"predictions": predictions})
}

// GetByID returns a single prediction.
// GET /api/predictions/{id}.
func (h *PredictionHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, policy.PredictionObject(id), policy.ActionRead) {
		return
	}

	prediction, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prediction)
}

// Create inserts a single prediction record.
// POST /api/predictions.
func (h *PredictionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, policy.PredictionObject(""), policy.ActionCreate) {
		return
	}

	var req model.CreatePredictionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	prediction, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, prediction)
}

// Ingest bulk-inserts the prediction rows extracted from one source file.
// POST /api/sourcefiles/{id}/predictions.
func (h *PredictionHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, policy.PredictionObject(""), policy.ActionCreate) {
		return
	}

	var req struct {
		Predictions []*model.CreatePredictionRequest `json:"predictions"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	inserted, err := h.Svc.Ingest(r.Context(), r.PathValue("id"), req.Predictions)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int{"inserted": inserted})
}

// Update applies a partial update to a prediction record.
// PUT /api/predictions/{id}.
func (h *PredictionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, policy.PredictionObject(id), policy.ActionUpdate) {
		return
	}

	var req model.UpdatePredictionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	prediction, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, prediction)
}

// Delete removes a prediction record.
// DELETE /api/predictions/{id}.
func (h *PredictionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, policy.PredictionObject(id), policy.ActionDelete) {
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PredictionHandlers) authorize(w http.ResponseWriter, r *http.Request, object, action string) bool {
	subject := SubjectFromContext(r.Context())
	if h.Policy.Authorize(r.Context(), subject, object, action) {
		return true
	}
	writePolicyDenial(w, subject)
	return false
}

// writePolicyDenial distinguishes missing authentication from an
// insufficient role.
func writePolicyDenial(w http.ResponseWriter, subject string) {
	if subject == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New(errMsgAuthRequired),
		})
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}

func parsePredictionListOptions(w http.ResponseWriter, r *http.Request) (model.PredictionListOptions, bool) {
	q := r.URL.Query()
	opts := model.PredictionListOptions{
		Symbol:       q.Get("symbol"),
		SourceFileID: q.Get("source_file_id"),
	}

	var ok bool
	if opts.Limit, ok = parseIntParam(w, q.Get("limit"), "limit"); !ok {
		return opts, false
	}
	if opts.Offset, ok = parseIntParam(w, q.Get("offset"), "offset"); !ok {
		return opts, false
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}

	if opts.From, ok = parseDateParam(w, q.Get("from"), "from"); !ok {
		return opts, false
	}
	if opts.To, ok = parseDateParam(w, q.Get("to"), "to"); !ok {
		return opts, false
	}
	return opts, true
}

func parseIntParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_" + name,
			Err:     errors.New(name + " must be a non-negative integer"),
		})
		return 0, false
	}
	return n, true
}

func parseDateParam(w http.ResponseWriter, raw, name string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_" + name,
			Err:     errors.New(name + " must be formatted as YYYY-MM-DD"),
		})
		return nil, false
	}
	return &t, true
}
