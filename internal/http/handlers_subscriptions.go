package httpx

import (
	"net/http"

	"github.com/predictlab/forecast-ui-api/internal/domain/model"
	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/service"
)

// SubscriptionHandlers provides HTTP handlers for subscription records.
type SubscriptionHandlers struct {
	Svc    *service.SubscriptionService
	Policy *policy.Engine
}

// Get returns a user's subscription, defaulting to the free plan when no
// record exists.
// GET /api/subscriptions/{userID}.
func (h *SubscriptionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !h.authorize(w, r, userID, policy.ActionRead) {
		return
	}

	sub, err := h.Svc.Get(r.Context(), userID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sub)
}

// Set creates or replaces a user's subscription.
// PUT /api/subscriptions/{userID}.
func (h *SubscriptionHandlers) Set(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !h.authorize(w, r, userID, policy.ActionUpdate) {
		return
	}

	var req model.UpsertSubscriptionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sub, err := h.Svc.Set(r.Context(), userID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandlers) authorize(w http.ResponseWriter, r *http.Request, userID, action string) bool {
	subject := SubjectFromContext(r.Context())
	if h.Policy.Authorize(r.Context(), subject, policy.SubscriptionObject(userID), action) {
		return true
	}
	writePolicyDenial(w, subject)
	return false
}
