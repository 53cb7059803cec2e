package httpx

import (
	"net/http"

	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// UserHandlers provides read access to user role documents.
type UserHandlers struct {
	Roles  ports.RoleStore
	Policy *policy.Engine
}

// Get returns a user's role document. Only the owner (or the service
// identity) may read it.
// GET /api/users/{userID}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	subject := SubjectFromContext(r.Context())
	if !h.Policy.Authorize(r.Context(), subject, policy.UserObject(userID), policy.ActionRead) {
		writePolicyDenial(w, subject)
		return
	}

	doc, err := h.Roles.GetDocument(r.Context(), userID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}
