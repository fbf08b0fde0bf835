package http

import (
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "*Handler.listUsers", err)
		return
	}
	_, _ = utils.WriteJSON(w, users, http.StatusOK)
}

// setApproval approves an account or deactivates it.
func (h *Handler) setApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ApprovalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "*Handler.setApproval", err)
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		writeServiceError(w, r, "*Handler.setApproval", err)
		return
	}

	user, err := h.services.Users.SetApproval(ctx, chi.URLParam(r, "id"), *req.Approved)
	if err != nil {
		writeServiceError(w, r, "*Handler.setApproval", err)
		return
	}
	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

// updateMe applies a self-service profile patch and refreshes the session
// so the new profile is visible right away.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	me, ok := utils.GetUserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var patch models.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeServiceError(w, r, "*Handler.updateMe", err)
		return
	}
	if err := h.validator.Validate(ctx, patch); err != nil {
		writeServiceError(w, r, "*Handler.updateMe", err)
		return
	}

	if _, err := h.services.Users.UpdateProfile(ctx, me.ID, patch); err != nil {
		writeServiceError(w, r, "*Handler.updateMe", err)
		return
	}

	state, err := h.services.Sessions.ReloadProfile(ctx)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.updateMe").Msg("failed to reload profile after update")
		state = h.services.Sessions.State()
	}
	_, _ = utils.WriteJSON(w, state, http.StatusOK)
}
